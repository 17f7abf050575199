package moderation_service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"civic-go-admin/pkg/monitoring"
)

// TextModerationPipeline 文本审核流水线
// 各阶段严格串行：敏感词 -> 安全检测 -> 分类 -> 综合决策，
// 前一阶段的终态会阻止后续阶段的调用与开销。
type TextModerationPipeline struct {
	filter   *SensitiveWordFilter
	safety   *SafetyClassifier
	keywords *KeywordCategoryClassifier
	semantic *SemanticCategoryClassifier
	config   ConfigStore
}

// NewTextModerationPipeline 创建文本审核流水线
func NewTextModerationPipeline(
	filter *SensitiveWordFilter,
	safety *SafetyClassifier,
	keywords *KeywordCategoryClassifier,
	semantic *SemanticCategoryClassifier,
	config ConfigStore,
) *TextModerationPipeline {
	return &TextModerationPipeline{
		filter:   filter,
		safety:   safety,
		keywords: keywords,
		semantic: semantic,
		config:   config,
	}
}

// Moderate 审核文本内容（标题+内容）
func (p *TextModerationPipeline) Moderate(ctx context.Context, title, content string, currentCategoryID *int) *ModerationResult {
	start := time.Now()
	defer func() {
		monitoring.RecordPipelineDuration("text", time.Since(start))
	}()

	// 本次审核使用的配置快照，中途不再读取
	thresholds := LoadThresholds(p.config)

	fullText := title + " " + content

	// 1. 敏感词黑名单检查
	blocked, action, blockedWords := p.filter.Check(ctx, fullText)

	if blocked && action == ActionReject {
		return &ModerationResult{
			Decision:            DecisionReject,
			Confidence:          100.0,
			SuggestedCategoryID: currentCategoryID,
			CategoryConfidence:  0.0,
			IsSafe:              false,
			DetectedIssues:      map[string]interface{}{"sensitive_words": 1.0},
			BlockedKeywords:     blockedWords,
			Reason:              fmt.Sprintf("包含敏感词: %s", blockedWords),
			NeedsManualReview:   false,
			ProcessingTimeMs:    int(time.Since(start).Milliseconds()),
		}
	}

	// 2. 外部安全检测
	safetyResult := p.safety.CheckSafety(ctx, fullText)

	// 不安全且恶意程度超过自动拒绝阈值时直接拒绝。
	// 恶意程度 = 100 - 安全信心度。
	if !safetyResult.IsSafe && safetyResult.Confidence < (100-thresholds.AutoReject) {
		return &ModerationResult{
			Decision:            DecisionReject,
			Confidence:          100 - safetyResult.Confidence,
			SuggestedCategoryID: currentCategoryID,
			CategoryConfidence:  0.0,
			IsSafe:              false,
			DetectedIssues:      issuesToMap(safetyResult.Issues),
			Reason:              fmt.Sprintf("检测到不安全内容: %s", strings.Join(issueNames(safetyResult.Issues), ", ")),
			NeedsManualReview:   false,
			ProcessingTimeMs:    int(time.Since(start).Milliseconds()),
		}
	}

	// 3. 自动分类
	suggestedCategoryID := currentCategoryID
	categoryConfidence := 0.0
	matchedKeywords := ""
	aiReason := ""

	// 3a. 先尝试关键字分类
	if thresholds.EnableCategoryKeywords {
		kwCatID, kwConfidence, kwMatches := p.keywords.Classify(ctx, fullText)
		if kwCatID != nil {
			suggestedCategoryID = kwCatID
			categoryConfidence = kwConfidence
			matchedKeywords = kwMatches
		}
	}

	// 3b. 关键字信心度不足时引入语义分类，两者取信心度更高的一方
	if categoryConfidence < 70 {
		aiCatID, aiConfidence, reason := p.semantic.Classify(ctx, title, content, thresholds.Model)
		aiReason = reason
		if aiCatID != nil && aiConfidence > categoryConfidence {
			suggestedCategoryID = aiCatID
			categoryConfidence = aiConfidence
		}
	}

	// 4. 决策：综合信心度 = 安全信心度与分类信心度的平均
	overallConfidence := (safetyResult.Confidence + categoryConfidence) / 2

	var decision Decision
	var needsManualReview bool
	var reason string

	switch {
	case action == ActionFlag || (!safetyResult.IsSafe && safetyResult.Confidence >= 50):
		// 被标记或安全性存疑
		decision = DecisionFlag
		needsManualReview = true
		flagSource := blockedWords
		if flagSource == "" {
			flagSource = strings.Join(issueNames(safetyResult.Issues), ", ")
		}
		reason = fmt.Sprintf("内容被标记需要审核: %s", flagSource)
	case overallConfidence >= thresholds.AutoApprove && safetyResult.IsSafe:
		// 高信心度且安全，自动通过
		decision = DecisionApprove
		needsManualReview = false
		reason = "自动审核通过"
	case overallConfidence < thresholds.ManualReview:
		// 低相关度，自动拒绝
		decision = DecisionReject
		needsManualReview = false
		reason = fmt.Sprintf("相关度较低 (%.1f%%), 自动拒绝无效意见: %s", overallConfidence, aiReason)
	default:
		// 中等信心度，需人工审核
		decision = DecisionReview
		needsManualReview = true
		reason = fmt.Sprintf("相关度中等 (%.1f%%), 需要人工审核: %s", overallConfidence, aiReason)
	}

	blockedOut := ""
	if action != ActionNone {
		blockedOut = blockedWords
	}

	return &ModerationResult{
		Decision:            decision,
		Confidence:          math.Round(overallConfidence*100) / 100,
		SuggestedCategoryID: suggestedCategoryID,
		CategoryConfidence:  math.Round(categoryConfidence*100) / 100,
		IsSafe:              safetyResult.IsSafe,
		DetectedIssues:      issuesToMap(safetyResult.Issues),
		BlockedKeywords:     blockedOut,
		MatchedKeywords:     matchedKeywords,
		Reason:              reason,
		NeedsManualReview:   needsManualReview,
		ProcessingTimeMs:    int(time.Since(start).Milliseconds()),
	}
}

func issuesToMap(issues map[string]float64) map[string]interface{} {
	out := make(map[string]interface{}, len(issues))
	for k, v := range issues {
		out[k] = v
	}
	return out
}

// issueNames 返回问题类别名，顺序稳定
func issueNames(issues map[string]float64) []string {
	names := make([]string, 0, len(issues))
	for name := range issues {
		names = append(names, name)
	}
	// map遍历顺序不定，排序保证reason文案稳定
	sort.Strings(names)
	return names
}
