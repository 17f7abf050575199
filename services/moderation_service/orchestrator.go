package moderation_service

import (
	"context"
	"fmt"
	"log"
	"time"

	"civic-go-admin/model/app_model"
	"civic-go-admin/pkg/goroutinepool"
	"civic-go-admin/pkg/monitoring"

	"github.com/google/uuid"
)

// 单次审核任务的执行上限，覆盖多次外部调用的最坏情况
const moderationTaskTimeout = 5 * time.Minute

// ModerationOrchestrator 自动审核编排器
// 每条新意见对应一个独立的异步任务：先文本后多媒体，
// 合并结果、落审核日志并触发意见状态流转。
type ModerationOrchestrator struct {
	text      *TextModerationPipeline
	media     *MediaModerationPipeline
	logs      ModerationLogRepository
	lifecycle OpinionLifecycle
	pool      *goroutinepool.Pool
}

// NewModerationOrchestrator 创建审核编排器
func NewModerationOrchestrator(
	text *TextModerationPipeline,
	media *MediaModerationPipeline,
	logs ModerationLogRepository,
	lifecycle OpinionLifecycle,
	pool *goroutinepool.Pool,
) *ModerationOrchestrator {
	return &ModerationOrchestrator{
		text:      text,
		media:     media,
		logs:      logs,
		lifecycle: lifecycle,
		pool:      pool,
	}
}

// Schedule 调度一次异步审核，立即返回，不阻塞意见创建请求
func (o *ModerationOrchestrator) Schedule(opinionID uint, title, content string, mediaFiles []app_model.OpinionMedia, currentCategoryID *int) {
	traceID := uuid.NewString()

	task := &goroutinepool.Task{
		ID:      traceID,
		Timeout: moderationTaskTimeout,
		Function: func() error {
			o.Process(context.Background(), opinionID, title, content, mediaFiles, currentCategoryID, traceID)
			return nil
		},
	}

	if err := o.pool.Submit(task); err != nil {
		// 池满属于异常情况，意见保持pending等待人工处理
		log.Printf("[AI审核] 提交审核任务失败 opinion=%d: %v", opinionID, err)
		if err := o.lifecycle.SetModerationFields(context.Background(), opinionID, "pending", 0,
			currentCategoryID, fmt.Sprintf("审核任务调度失败: %v", err), true); err != nil {
			log.Printf("[AI审核] 写入调度失败状态失败 opinion=%d: %v", opinionID, err)
		}
		return
	}

	monitoring.UpdateModerationQueueDepth(o.pool.QueueDepth())
}

// Process 执行一次完整的审核流程
// 任何未处理的异常都会在此被兜底：意见被置为待人工审核，绝不处于无状态或丢失。
func (o *ModerationOrchestrator) Process(ctx context.Context, opinionID uint, title, content string, mediaFiles []app_model.OpinionMedia, currentCategoryID *int, traceID string) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[AI审核] 审核任务panic opinion=%d: %v", opinionID, r)
			o.failSafe(ctx, opinionID, currentCategoryID, fmt.Sprintf("自动审核错误: %v", r))
		}
	}()

	log.Printf("[AI审核] 开始审核意见 %d (trace=%s)", opinionID, traceID)

	// 1. 文本审核
	textResult := o.text.Moderate(ctx, title, content, currentCategoryID)

	log.Printf("[AI审核] 意见 %d 文本审核结果: %s, 信心度: %.2f", opinionID, textResult.Decision, textResult.Confidence)

	// 文本审核日志无条件落库
	o.logs.Append(ctx, buildTextLogEntry(opinionID, traceID, textResult, nil, nil))
	monitoring.RecordModerationDecision("text", string(textResult.Decision))

	// 文本被拒绝则终止，多媒体不再评估
	if textResult.Decision == DecisionReject {
		if err := o.lifecycle.Reject(ctx, opinionID, SystemModeratorID, textResult.Reason); err != nil {
			log.Printf("[AI审核] 拒绝意见失败 opinion=%d: %v", opinionID, err)
		}
		if err := o.lifecycle.SetModerationFields(ctx, opinionID, "rejected", textResult.Confidence,
			textResult.SuggestedCategoryID, textResult.Reason, false); err != nil {
			log.Printf("[AI审核] 写入审核字段失败 opinion=%d: %v", opinionID, err)
		}
		log.Printf("[AI审核] 意见 %d 因文本内容被拒绝", opinionID)
		return
	}

	// 2. 多媒体审核（如有）
	var mediaResult *MediaBatchResult
	if len(mediaFiles) > 0 {
		log.Printf("[AI审核] 检查意见 %d 的 %d 个多媒体文件", opinionID, len(mediaFiles))
		mediaResult = o.media.ModerateBatch(ctx, mediaFiles, opinionID, traceID)

		log.Printf("[AI审核] 意见 %d 多媒体审核结果: %s", opinionID, mediaResult.OverallDecision)

		if mediaResult.OverallDecision == DecisionReject {
			reason := fmt.Sprintf("多媒体内容不当: %s", mediaResult.Reason)
			if err := o.lifecycle.Reject(ctx, opinionID, SystemModeratorID, mediaResult.Reason); err != nil {
				log.Printf("[AI审核] 拒绝意见失败 opinion=%d: %v", opinionID, err)
			}
			if err := o.lifecycle.SetModerationFields(ctx, opinionID, "rejected", mediaResult.OverallConfidence,
				textResult.SuggestedCategoryID, reason, false); err != nil {
				log.Printf("[AI审核] 写入审核字段失败 opinion=%d: %v", opinionID, err)
			}
			log.Printf("[AI审核] 意见 %d 因多媒体内容被拒绝", opinionID)
			return
		}
	}

	// 3. 综合决策：以文本结果为基础，多媒体需复核时整体转人工
	finalDecision := textResult.Decision
	needsManualReview := textResult.NeedsManualReview
	finalReason := textResult.Reason

	if mediaResult != nil && mediaResult.NeedsManualReview {
		needsManualReview = true
		if mediaResult.OverallDecision == DecisionReview {
			finalDecision = DecisionReview
			finalReason = fmt.Sprintf("%s; 多媒体内容需要人工审核", textResult.Reason)
		}
	}

	autoModerationStatus := mapDecisionStatus(finalDecision)

	if !needsManualReview {
		if err := o.lifecycle.Approve(ctx, opinionID, SystemModeratorID); err != nil {
			log.Printf("[AI审核] 通过意见失败 opinion=%d: %v", opinionID, err)
		}
	}

	// 4. 写入审核结果字段。记录的分数与分类始终取自文本流水线，
	// 多媒体结果只影响最终决策与复核标记。
	if err := o.lifecycle.SetModerationFields(ctx, opinionID, autoModerationStatus, textResult.Confidence,
		textResult.SuggestedCategoryID, finalReason, needsManualReview); err != nil {
		log.Printf("[AI审核] 写入审核字段失败 opinion=%d: %v", opinionID, err)
	}

	log.Printf("[AI审核] 意见 %d 审核完成: %s, 需人工复核: %v", opinionID, autoModerationStatus, needsManualReview)
}

// failSafe 兜底处理：意见转为待人工审核
func (o *ModerationOrchestrator) failSafe(ctx context.Context, opinionID uint, currentCategoryID *int, reason string) {
	if err := o.lifecycle.SetModerationFields(ctx, opinionID, "pending", 0, currentCategoryID, reason, true); err != nil {
		log.Printf("[AI审核] 写入兜底状态失败 opinion=%d: %v", opinionID, err)
	}
}

// mapDecisionStatus 决策到auto_moderation_status的映射
func mapDecisionStatus(decision Decision) string {
	switch decision {
	case DecisionApprove:
		return "approved"
	case DecisionReject:
		return "rejected"
	case DecisionFlag:
		return "flagged"
	default:
		return "pending"
	}
}
