package moderation_service

import (
	"context"
	"encoding/json"
	"log"

	"civic-go-admin/model/admin_model"

	"gorm.io/gorm"
)

// ModerationLogRepository 审核日志写入接口
// 日志只追加，写入失败只记录不上抛，不影响审核流程。
type ModerationLogRepository interface {
	Append(ctx context.Context, entry *admin_model.ModerationLog)
}

// GormModerationLogRepository 基于gorm的审核日志仓库
type GormModerationLogRepository struct {
	db *gorm.DB
}

// NewGormModerationLogRepository 创建审核日志仓库
func NewGormModerationLogRepository(db *gorm.DB) *GormModerationLogRepository {
	return &GormModerationLogRepository{db: db}
}

// Append 写入一条审核日志
func (r *GormModerationLogRepository) Append(ctx context.Context, entry *admin_model.ModerationLog) {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		log.Printf("[审核日志] 写入审核日志失败 opinion=%d type=%s: %v",
			entry.OpinionID, entry.ModerationType, err)
	}
}

// buildTextLogEntry 将文本审核结果转为日志记录
func buildTextLogEntry(opinionID uint, traceID string, result *ModerationResult, rawReq, rawResp []byte) *admin_model.ModerationLog {
	issues, _ := json.Marshal(result.DetectedIssues)
	return &admin_model.ModerationLog{
		OpinionID:               opinionID,
		ModerationType:          "text",
		ServiceProvider:         "openai",
		TraceID:                 traceID,
		Decision:                string(result.Decision),
		ConfidenceScore:         result.Confidence,
		SuggestedCategoryID:     result.SuggestedCategoryID,
		CategoryConfidence:      result.CategoryConfidence,
		IsSafe:                  result.IsSafe,
		DetectedIssues:          string(issues),
		APIRequest:              string(rawReq),
		APIResponse:             string(rawResp),
		ProcessingTimeMs:        result.ProcessingTimeMs,
		BlockedByKeywords:       result.BlockedKeywords,
		MatchedCategoryKeywords: result.MatchedKeywords,
	}
}

// buildMediaLogEntry 将单个多媒体审核结果转为日志记录
func buildMediaLogEntry(opinionID uint, traceID string, item *MediaItemResult, analysis *ImageAnalysis) *admin_model.ModerationLog {
	detected := map[string]interface{}{
		"issues": item.DetectedIssues,
	}
	rawResp := ""
	if analysis != nil {
		detected["scores"] = analysis.SeverityScores
		rawResp = string(analysis.RawResponse)
	}
	issues, _ := json.Marshal(detected)

	return &admin_model.ModerationLog{
		OpinionID:        opinionID,
		ModerationType:   item.MediaType,
		ServiceProvider:  "openai",
		TraceID:          traceID,
		Decision:         string(item.Decision),
		ConfidenceScore:  item.Confidence,
		IsSafe:           item.IsSafe,
		DetectedIssues:   string(issues),
		APIResponse:      rawResp,
		ProcessingTimeMs: item.ProcessingTimeMs,
	}
}
