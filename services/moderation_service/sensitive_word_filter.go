package moderation_service

import (
	"context"
	"log"
	"strings"

	"civic-go-admin/model/admin_model"
)

// SensitiveWordFilter 敏感词黑名单过滤器
type SensitiveWordFilter struct {
	rules RuleRepository
}

// NewSensitiveWordFilter 创建敏感词过滤器
func NewSensitiveWordFilter(rules RuleRepository) *SensitiveWordFilter {
	return &SensitiveWordFilter{rules: rules}
}

// Check 检查文本是否包含敏感词
// 返回 (是否直接拦截, 命中动作, 命中的词)。
// reject级别按子串匹配，首个命中即拦截；flag/review级别收集全部命中词。
// 规则数据不可用时按空规则放行，不阻塞提交。
func (f *SensitiveWordFilter) Check(ctx context.Context, text string) (bool, BlocklistAction, string) {
	words, err := f.rules.ActiveSensitiveWords(ctx)
	if err != nil {
		log.Printf("[敏感词] 加载敏感词规则失败，跳过黑名单检查: %v", err)
		return false, ActionNone, ""
	}

	byAction := map[BlocklistAction][]admin_model.SensitiveWord{}
	for _, w := range words {
		byAction[BlocklistAction(w.Action)] = append(byAction[BlocklistAction(w.Action)], w)
	}

	// reject级别：直接拒绝
	for _, w := range byAction[ActionReject] {
		if strings.Contains(text, w.Word) {
			return true, ActionReject, w.Word
		}
	}

	// flag级别：标记，收集所有命中词
	var flagged []string
	for _, w := range byAction[ActionFlag] {
		if strings.Contains(text, w.Word) {
			flagged = append(flagged, w.Word)
		}
	}
	if len(flagged) > 0 {
		return false, ActionFlag, strings.Join(flagged, ", ")
	}

	// review级别：需人工审核
	var review []string
	for _, w := range byAction[ActionReview] {
		if strings.Contains(text, w.Word) {
			review = append(review, w.Word)
		}
	}
	if len(review) > 0 {
		return false, ActionReview, strings.Join(review, ", ")
	}

	return false, ActionNone, ""
}
