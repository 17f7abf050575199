package moderation_service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"civic-go-admin/model/app_model"
	"civic-go-admin/pkg/monitoring"
)

// MediaModerationPipeline 多媒体审核流水线
// 图片走外部视觉检测；视频尚未接入自动分析，固定转人工；音频等其他类型暂不审核。
type MediaModerationPipeline struct {
	image  *ImageSafetyClassifier
	config ConfigStore
	logs   ModerationLogRepository
}

// NewMediaModerationPipeline 创建多媒体审核流水线
func NewMediaModerationPipeline(image *ImageSafetyClassifier, config ConfigStore, logs ModerationLogRepository) *MediaModerationPipeline {
	return &MediaModerationPipeline{image: image, config: config, logs: logs}
}

// ModerateImage 审核单张图片
func (p *MediaModerationPipeline) ModerateImage(ctx context.Context, filePath string, opinionID uint, traceID string) MediaItemResult {
	start := time.Now()

	thresholds := LoadThresholds(p.config)

	isURL := strings.HasPrefix(filePath, "http://") || strings.HasPrefix(filePath, "https://")
	analysis := p.image.ClassifyImage(ctx, filePath, isURL, thresholds.Model)

	var decision Decision
	var needsManualReview bool
	var reason string

	switch {
	case !analysis.IsSafe && analysis.Confidence >= thresholds.AutoReject:
		// 高信心度检测到不安全内容，自动拒绝
		decision = DecisionReject
		needsManualReview = false
		reason = fmt.Sprintf("检测到不当图片内容: %s", strings.Join(analysis.Issues, ", "))
	case !analysis.IsSafe && analysis.Confidence >= thresholds.ManualReview:
		// 中等信心度，转人工审核
		decision = DecisionReview
		needsManualReview = true
		reason = fmt.Sprintf("图片内容可能不当，需要人工审核: %s", strings.Join(analysis.Issues, ", "))
	case !analysis.IsSafe:
		// 低信心度不安全，标记
		decision = DecisionFlag
		needsManualReview = true
		reason = "图片内容存疑，已标记需审核"
	default:
		decision = DecisionApprove
		needsManualReview = false
		reason = "图片内容审核通过"
	}

	result := MediaItemResult{
		FilePath:          filePath,
		MediaType:         "image",
		Decision:          decision,
		Confidence:        analysis.Confidence,
		IsSafe:            analysis.IsSafe,
		DetectedIssues:    analysis.Issues,
		Description:       analysis.Description,
		Reason:            reason,
		NeedsManualReview: needsManualReview,
		ProcessingTimeMs:  int(time.Since(start).Milliseconds()),
	}

	p.logs.Append(ctx, buildMediaLogEntry(opinionID, traceID, &result, &analysis))
	monitoring.RecordModerationDecision("image", string(decision))

	return result
}

// moderateVideo 视频审核占位实现，自动分析尚未接入，固定转人工
func (p *MediaModerationPipeline) moderateVideo(filePath string) MediaItemResult {
	return MediaItemResult{
		FilePath:          filePath,
		MediaType:         "video",
		Decision:          DecisionReview,
		Confidence:        50.0,
		IsSafe:            true,
		DetectedIssues:    []string{},
		Description:       "视频内容需要人工审核",
		Reason:            "视频自动审核功能尚未实现，需要人工审核",
		NeedsManualReview: true,
		ProcessingTimeMs:  0,
	}
}

// ModerateBatch 批量审核多媒体文件
// 从左到右逐个处理；任一文件被拒绝则整批拒绝并停止处理后续文件。
// 否则整体信心度取所有文件的最小值；存在不安全或需复核的文件时整体转人工。
func (p *MediaModerationPipeline) ModerateBatch(ctx context.Context, mediaFiles []app_model.OpinionMedia, opinionID uint, traceID string) *MediaBatchResult {
	start := time.Now()
	defer func() {
		monitoring.RecordPipelineDuration("media", time.Since(start))
	}()

	var results []MediaItemResult
	allSafe := true
	minConfidence := 100.0
	anyNeedsReview := false

	for _, mediaFile := range mediaFiles {
		var result MediaItemResult

		switch mediaFile.MediaType {
		case app_model.MediaTypeImage:
			result = p.ModerateImage(ctx, mediaFile.FilePath, opinionID, traceID)
		case app_model.MediaTypeVideo:
			result = p.moderateVideo(mediaFile.FilePath)
		default:
			// 音频等其他类型暂不审核
			result = MediaItemResult{
				FilePath:          mediaFile.FilePath,
				MediaType:         string(mediaFile.MediaType),
				Decision:          DecisionApprove,
				Confidence:        100.0,
				IsSafe:            true,
				DetectedIssues:    []string{},
				Reason:            fmt.Sprintf("%s类型暂不审核", mediaFile.MediaType),
				NeedsManualReview: false,
			}
		}

		results = append(results, result)

		if !result.IsSafe {
			allSafe = false
		}

		if result.Decision == DecisionReject {
			// 任一文件被拒绝，整批拒绝，不再处理后续文件
			return &MediaBatchResult{
				OverallDecision:   DecisionReject,
				OverallConfidence: result.Confidence,
				Results:           results,
				NeedsManualReview: false,
				Reason:            fmt.Sprintf("多媒体文件 %s 被拒绝: %s", result.FilePath, result.Reason),
			}
		}

		if result.Confidence < minConfidence {
			minConfidence = result.Confidence
		}
		anyNeedsReview = anyNeedsReview || result.NeedsManualReview
	}

	overallDecision := DecisionApprove
	if anyNeedsReview || !allSafe {
		overallDecision = DecisionReview
	}

	return &MediaBatchResult{
		OverallDecision:   overallDecision,
		OverallConfidence: minConfidence,
		Results:           results,
		NeedsManualReview: anyNeedsReview,
		Reason:            "所有多媒体文件审核完成",
	}
}
