package admin_service

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"civic-go-admin/db"
	"civic-go-admin/inout"
	"civic-go-admin/model/admin_model"
	"civic-go-admin/model/app_model"
	"civic-go-admin/services/moderation_service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ModerationService 人工审核后台业务
type ModerationService struct {
	lifecycle moderation_service.OpinionLifecycle
}

// NewModerationService 创建人工审核服务
func NewModerationService(lifecycle moderation_service.OpinionLifecycle) *ModerationService {
	return &ModerationService{lifecycle: lifecycle}
}

// PendingOpinionItem 待审核列表项
type PendingOpinionItem struct {
	ID                   uint    `json:"id"`
	UserID               uint    `json:"user_id"`
	Title                string  `json:"title"`
	Content              string  `json:"content"`
	CategoryID           *int    `json:"category_id"`
	AutoModerationStatus string  `json:"auto_moderation_status"`
	AutoModerationScore  float64 `json:"auto_moderation_score"`
	AutoCategoryID       *int    `json:"auto_category_id"`
	ModerationReason     string  `json:"moderation_reason"`
	MediaCount           int     `json:"media_count"`
	CreatedAt            string  `json:"created_at"`
}

// GetPendingOpinions 待人工审核意见列表
func (s *ModerationService) GetPendingOpinions(c *gin.Context, params inout.PendingOpinionListReq) (gin.H, error) {
	page := params.Page
	if page < 1 {
		page = 1
	}
	pageSize := params.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	query := db.Dao.Model(&app_model.Opinion{}).
		Where("status = ?", app_model.OpinionStatusPending).
		Where("needs_manual_review = ?", true)

	if params.CategoryID > 0 {
		query = query.Where("category_id = ?", params.CategoryID)
	}
	if params.AutoStatus != "" {
		query = query.Where("auto_moderation_status = ?", params.AutoStatus)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var opinions []app_model.Opinion
	err := query.Preload("Media").
		Order("id ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&opinions).Error
	if err != nil {
		return nil, err
	}

	items := make([]PendingOpinionItem, 0, len(opinions))
	for _, o := range opinions {
		items = append(items, PendingOpinionItem{
			ID:                   o.ID,
			UserID:               o.UserID,
			Title:                o.Title,
			Content:              o.Content,
			CategoryID:           o.CategoryID,
			AutoModerationStatus: o.AutoModerationStatus,
			AutoModerationScore:  o.AutoModerationScore,
			AutoCategoryID:       o.AutoCategoryID,
			ModerationReason:     o.ModerationReason,
			MediaCount:           len(o.Media),
			CreatedAt:            o.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	return gin.H{
		"total":     total,
		"page":      page,
		"page_size": pageSize,
		"items":     items,
	}, nil
}

// ApproveOpinion 人工通过意见
func (s *ModerationService) ApproveOpinion(c *gin.Context, moderatorID uint, params inout.ReviewOpinionReq) error {
	var opinion app_model.Opinion
	if err := db.Dao.First(&opinion, params.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("意见不存在")
		}
		return err
	}
	if opinion.Status != app_model.OpinionStatusPending {
		return fmt.Errorf("意见当前状态为 %s，无法审核", opinion.Status)
	}

	if err := s.lifecycle.Approve(c.Request.Context(), params.ID, moderatorID); err != nil {
		return err
	}

	// 人工处理后复核标记清零
	if err := db.Dao.Model(&app_model.Opinion{}).Where("id = ?", params.ID).
		Update("needs_manual_review", false).Error; err != nil {
		log.Printf("[人工审核] 清除复核标记失败 opinion=%d: %v", params.ID, err)
	}
	return nil
}

// RejectOpinion 人工拒绝意见
func (s *ModerationService) RejectOpinion(c *gin.Context, moderatorID uint, params inout.ReviewOpinionReq) error {
	var opinion app_model.Opinion
	if err := db.Dao.First(&opinion, params.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("意见不存在")
		}
		return err
	}
	if opinion.Status != app_model.OpinionStatusPending {
		return fmt.Errorf("意见当前状态为 %s，无法审核", opinion.Status)
	}

	reason := params.Reason
	if reason == "" {
		reason = "内容不符合发布要求"
	}

	if err := s.lifecycle.Reject(c.Request.Context(), params.ID, moderatorID, reason); err != nil {
		return err
	}

	if err := db.Dao.Model(&app_model.Opinion{}).Where("id = ?", params.ID).
		Update("needs_manual_review", false).Error; err != nil {
		log.Printf("[人工审核] 清除复核标记失败 opinion=%d: %v", params.ID, err)
	}
	return nil
}

// MergeOpinion 合并重复意见到目标意见
func (s *ModerationService) MergeOpinion(c *gin.Context, moderatorID uint, params inout.MergeOpinionReq) error {
	if params.ID == params.TargetID {
		return errors.New("不能将意见合并到自身")
	}

	var source, target app_model.Opinion
	if err := db.Dao.First(&source, params.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("意见不存在")
		}
		return err
	}
	if err := db.Dao.First(&target, params.TargetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("合并目标意见不存在")
		}
		return err
	}
	if target.Status == app_model.OpinionStatusMerged {
		return errors.New("合并目标已被合并，请选择原始意见")
	}

	return db.Dao.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&app_model.Opinion{}).Where("id = ?", source.ID).Updates(map[string]interface{}{
			"status":              app_model.OpinionStatusMerged,
			"merged_to_id":        target.ID,
			"needs_manual_review": false,
		}).Error
		if err != nil {
			return err
		}

		changes, _ := json.Marshal(map[string]interface{}{"merged_to_id": target.ID})
		err = tx.Create(&app_model.OpinionHistory{
			OpinionID: source.ID,
			UserID:    moderatorID,
			Action:    "merged",
			Changes:   string(changes),
		}).Error
		if err != nil {
			return err
		}

		return tx.Create(&app_model.Notification{
			UserID:    source.UserID,
			OpinionID: source.ID,
			Type:      "merged",
			Title:     "您的意见已合并",
			Content:   fmt.Sprintf("您提交的意见《%s》与已有意见重复，已合并处理", source.Title),
		}).Error
	})
}

// UpdateOpinionCategory 人工调整意见分类
func (s *ModerationService) UpdateOpinionCategory(c *gin.Context, moderatorID uint, params inout.UpdateOpinionCategoryReq) error {
	var opinion app_model.Opinion
	if err := db.Dao.First(&opinion, params.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("意见不存在")
		}
		return err
	}

	return db.Dao.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&app_model.Opinion{}).Where("id = ?", params.ID).
			Update("category_id", params.CategoryID).Error
		if err != nil {
			return err
		}

		changes, _ := json.Marshal(map[string]interface{}{"category_id": params.CategoryID})
		return tx.Create(&app_model.OpinionHistory{
			OpinionID: params.ID,
			UserID:    moderatorID,
			Action:    "updated",
			Changes:   string(changes),
		}).Error
	})
}

// GetModerationStats 审核统计
func (s *ModerationService) GetModerationStats(c *gin.Context) (gin.H, error) {
	ctx := c.Request.Context()

	type statusCount struct {
		Status string `json:"status"`
		Count  int64  `json:"count"`
	}
	var byStatus []statusCount
	err := db.Dao.WithContext(ctx).Model(&app_model.Opinion{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&byStatus).Error
	if err != nil {
		return nil, err
	}

	type decisionCount struct {
		Decision string `json:"decision"`
		Count    int64  `json:"count"`
	}
	var byDecision []decisionCount
	err = db.Dao.WithContext(ctx).Model(&admin_model.ModerationLog{}).
		Select("decision, COUNT(*) as count").
		Where("moderation_type = ?", "text").
		Group("decision").
		Scan(&byDecision).Error
	if err != nil {
		return nil, err
	}

	var pendingReview int64
	err = db.Dao.WithContext(ctx).Model(&app_model.Opinion{}).
		Where("status = ? AND needs_manual_review = ?", app_model.OpinionStatusPending, true).
		Count(&pendingReview).Error
	if err != nil {
		return nil, err
	}

	var avgProcessing float64
	row := db.Dao.WithContext(ctx).Model(&admin_model.ModerationLog{}).
		Select("COALESCE(AVG(processing_time_ms), 0)").
		Where("moderation_type = ?", "text").Row()
	if err := row.Scan(&avgProcessing); err != nil {
		log.Printf("[人工审核] 查询平均处理耗时失败: %v", err)
	}

	return gin.H{
		"by_status":              byStatus,
		"auto_decisions":         byDecision,
		"pending_manual_review":  pendingReview,
		"avg_processing_time_ms": avgProcessing,
	}, nil
}

// ModerationLogItem 审核日志列表项
type ModerationLogItem struct {
	ID               uint    `json:"id"`
	OpinionID        uint    `json:"opinion_id"`
	ModerationType   string  `json:"moderation_type"`
	ServiceProvider  string  `json:"service_provider"`
	TraceID          string  `json:"trace_id"`
	Decision         string  `json:"decision"`
	ConfidenceScore  float64 `json:"confidence_score"`
	IsSafe           bool    `json:"is_safe"`
	DetectedIssues   string  `json:"detected_issues"`
	ProcessingTimeMs int     `json:"processing_time_ms"`
	CreatedAt        string  `json:"created_at"`
}

// GetModerationLogs 审核日志分页查询
func (s *ModerationService) GetModerationLogs(c *gin.Context, params inout.ModerationLogListReq) (gin.H, error) {
	page := params.Page
	if page < 1 {
		page = 1
	}
	pageSize := params.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	query := db.Dao.Model(&admin_model.ModerationLog{})
	if params.OpinionID > 0 {
		query = query.Where("opinion_id = ?", params.OpinionID)
	}
	if params.Decision != "" {
		query = query.Where("decision = ?", params.Decision)
	}
	if params.Type != "" {
		query = query.Where("moderation_type = ?", params.Type)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var logs []admin_model.ModerationLog
	err := query.Order("id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}

	items := make([]ModerationLogItem, 0, len(logs))
	for _, l := range logs {
		items = append(items, ModerationLogItem{
			ID:               l.ID,
			OpinionID:        l.OpinionID,
			ModerationType:   l.ModerationType,
			ServiceProvider:  l.ServiceProvider,
			TraceID:          l.TraceID,
			Decision:         l.Decision,
			ConfidenceScore:  l.ConfidenceScore,
			IsSafe:           l.IsSafe,
			DetectedIssues:   l.DetectedIssues,
			ProcessingTimeMs: l.ProcessingTimeMs,
			CreatedAt:        l.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	return gin.H{
		"total":     total,
		"page":      page,
		"page_size": pageSize,
		"items":     items,
	}, nil
}
