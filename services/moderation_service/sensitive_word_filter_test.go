package moderation_service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"civic-go-admin/model/admin_model"
)

func TestSensitiveWordFilterRejectShortCircuit(t *testing.T) {
	rules := &stubRules{
		words: []admin_model.SensitiveWord{
			{Word: "违禁词A", Action: "reject"},
			{Word: "违禁词B", Action: "reject"},
			{Word: "广告词", Action: "flag"},
		},
	}
	filter := NewSensitiveWordFilter(rules)

	blocked, action, matched := filter.Check(context.Background(), "这段内容包含违禁词A和广告词")
	if !blocked {
		t.Fatal("命中reject级敏感词应直接拦截")
	}
	if action != ActionReject {
		t.Fatalf("action = %q, want reject", action)
	}
	if matched != "违禁词A" {
		t.Fatalf("matched = %q, want 违禁词A", matched)
	}
}

func TestSensitiveWordFilterFlagCollectsAll(t *testing.T) {
	rules := &stubRules{
		words: []admin_model.SensitiveWord{
			{Word: "词一", Action: "flag"},
			{Word: "词二", Action: "flag"},
			{Word: "词三", Action: "review"},
		},
	}
	filter := NewSensitiveWordFilter(rules)

	blocked, action, matched := filter.Check(context.Background(), "词一 词二 词三")
	if blocked {
		t.Fatal("flag级敏感词不应直接拦截")
	}
	if action != ActionFlag {
		t.Fatalf("action = %q, want flag", action)
	}
	if !strings.Contains(matched, "词一") || !strings.Contains(matched, "词二") {
		t.Fatalf("flag级应收集全部命中词, got %q", matched)
	}
	if strings.Contains(matched, "词三") {
		t.Fatalf("flag优先于review, 不应包含review词, got %q", matched)
	}
}

func TestSensitiveWordFilterReviewAction(t *testing.T) {
	rules := &stubRules{
		words: []admin_model.SensitiveWord{
			{Word: "敏感", Action: "review"},
		},
	}
	filter := NewSensitiveWordFilter(rules)

	blocked, action, matched := filter.Check(context.Background(), "这里有敏感内容")
	if blocked || action != ActionReview || matched != "敏感" {
		t.Fatalf("got (%v, %q, %q), want (false, review, 敏感)", blocked, action, matched)
	}
}

func TestSensitiveWordFilterNoMatch(t *testing.T) {
	rules := &stubRules{
		words: []admin_model.SensitiveWord{
			{Word: "违禁", Action: "reject"},
		},
	}
	filter := NewSensitiveWordFilter(rules)

	blocked, action, matched := filter.Check(context.Background(), "正常的市民意见内容")
	if blocked || action != ActionNone || matched != "" {
		t.Fatalf("got (%v, %q, %q), want (false, none, empty)", blocked, action, matched)
	}
}

func TestSensitiveWordFilterRepoErrorFailsOpen(t *testing.T) {
	rules := &stubRules{wordsErr: errors.New("db down")}
	filter := NewSensitiveWordFilter(rules)

	blocked, action, _ := filter.Check(context.Background(), "任何内容")
	if blocked || action != ActionNone {
		t.Fatal("规则不可用时应放行，不阻塞提交")
	}
}
