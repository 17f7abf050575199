package moderation_service

import (
	"context"
	"fmt"
	"log"

	"civic-go-admin/model/app_model"

	"gorm.io/gorm"
)

// SystemModeratorID 系统自动审核使用的操作人ID
const SystemModeratorID = 0

// OpinionLifecycle 意见状态流转接口，审核任务通过它写意见记录，不直接操作表
type OpinionLifecycle interface {
	// Approve 通过意见
	Approve(ctx context.Context, opinionID uint, moderatorID uint) error
	// Reject 拒绝意见并记录原因
	Reject(ctx context.Context, opinionID uint, moderatorID uint, reason string) error
	// SetModerationFields 写入自动审核结果字段，每次审核只调用一次
	SetModerationFields(ctx context.Context, opinionID uint, autoStatus string, score float64, categoryID *int, reason string, needsReview bool) error
}

// GormOpinionLifecycle 基于gorm的意见状态流转实现
type GormOpinionLifecycle struct {
	db *gorm.DB
}

// NewGormOpinionLifecycle 创建意见状态流转实现
func NewGormOpinionLifecycle(db *gorm.DB) *GormOpinionLifecycle {
	return &GormOpinionLifecycle{db: db}
}

// Approve 通过意见并通知提交人
func (l *GormOpinionLifecycle) Approve(ctx context.Context, opinionID uint, moderatorID uint) error {
	return l.changeStatus(ctx, opinionID, moderatorID, app_model.OpinionStatusApproved,
		"意见已通过", "您的意见已通过审核并公开展示")
}

// Reject 拒绝意见并通知提交人
func (l *GormOpinionLifecycle) Reject(ctx context.Context, opinionID uint, moderatorID uint, reason string) error {
	content := "您的意见未通过审核"
	if reason != "" {
		content = fmt.Sprintf("您的意见未通过审核，原因: %s", reason)
	}
	return l.changeStatus(ctx, opinionID, moderatorID, app_model.OpinionStatusRejected,
		"意见未通过", content)
}

// SetModerationFields 写入自动审核结果
// 主状态由审核结果推导：需人工复核 -> pending；否则按auto状态落地。
func (l *GormOpinionLifecycle) SetModerationFields(ctx context.Context, opinionID uint, autoStatus string, score float64, categoryID *int, reason string, needsReview bool) error {
	finalStatus := app_model.OpinionStatusPending
	if !needsReview {
		switch autoStatus {
		case "approved":
			finalStatus = app_model.OpinionStatusApproved
		case "rejected":
			finalStatus = app_model.OpinionStatusRejected
		}
	}

	updates := map[string]interface{}{
		"status":                 finalStatus,
		"auto_moderation_status": autoStatus,
		"auto_moderation_score":  score,
		"auto_category_id":       categoryID,
		"moderation_reason":      reason,
		"needs_manual_review":    needsReview,
	}
	if categoryID != nil {
		// 未指定分类的意见采纳建议分类
		updates["category_id"] = gorm.Expr("COALESCE(category_id, ?)", *categoryID)
	}

	return l.db.WithContext(ctx).Model(&app_model.Opinion{}).
		Where("id = ?", opinionID).
		Updates(updates).Error
}

// changeStatus 修改意见状态，写历史并通知提交人
func (l *GormOpinionLifecycle) changeStatus(ctx context.Context, opinionID uint, moderatorID uint, status app_model.OpinionStatus, notifyTitle, notifyContent string) error {
	var opinion app_model.Opinion
	if err := l.db.WithContext(ctx).First(&opinion, opinionID).Error; err != nil {
		return err
	}

	err := l.db.WithContext(ctx).Model(&app_model.Opinion{}).
		Where("id = ?", opinionID).
		Update("status", status).Error
	if err != nil {
		return err
	}

	history := app_model.OpinionHistory{
		OpinionID: opinionID,
		UserID:    moderatorID,
		Action:    string(status),
		Changes:   fmt.Sprintf(`{"status": %q}`, status),
	}
	if err := l.db.WithContext(ctx).Create(&history).Error; err != nil {
		log.Printf("[意见状态] 写入操作历史失败 opinion=%d: %v", opinionID, err)
	}

	// 通知失败不影响状态流转
	notification := app_model.Notification{
		UserID:    opinion.UserID,
		OpinionID: opinionID,
		Type:      string(status),
		Title:     notifyTitle,
		Content:   notifyContent,
	}
	if err := l.db.WithContext(ctx).Create(&notification).Error; err != nil {
		log.Printf("[意见状态] 创建通知失败 opinion=%d: %v", opinionID, err)
	}

	return nil
}
