package moderation_service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"civic-go-admin/model/app_model"
)

func trafficCategories() []app_model.Category {
	return []app_model.Category{
		{ID: 1, Name: "交通局", Description: "道路、交通信号"},
		{ID: 2, Name: "卫生局", Description: "医疗卫生"},
	}
}

func TestSemanticClassifySuccess(t *testing.T) {
	provider := &stubProvider{
		chatReplies: []string{`{"category_id": 1, "confidence": 88, "reason": "提到道路坑洞"}`},
	}
	rules := &stubRules{cats: trafficCategories()}
	classifier := NewSemanticCategoryClassifier(provider, rules, testOpenAIConfig())

	catID, confidence, reason := classifier.Classify(context.Background(), "道路坑洞", "路面坑洞很多", "gpt-4o-mini")
	if catID == nil || *catID != 1 {
		t.Fatalf("catID = %v, want 1", catID)
	}
	if confidence != 88 {
		t.Fatalf("confidence = %v, want 88", confidence)
	}
	if reason != "提到道路坑洞" {
		t.Fatalf("reason = %q", reason)
	}

	// 请求应约束JSON输出并使用指定模型
	if provider.lastChatReq.Model != "gpt-4o-mini" {
		t.Fatalf("model = %q", provider.lastChatReq.Model)
	}
	if provider.lastChatReq.ResponseFormat == nil || provider.lastChatReq.ResponseFormat.Type != "json_object" {
		t.Fatal("应要求json_object响应格式")
	}
}

func TestSemanticClassifyPromptContainsCategories(t *testing.T) {
	provider := &stubProvider{
		chatReplies: []string{`{"category_id": 2, "confidence": 60, "reason": "ok"}`},
	}
	rules := &stubRules{cats: trafficCategories()}
	classifier := NewSemanticCategoryClassifier(provider, rules, testOpenAIConfig())

	classifier.Classify(context.Background(), "标题", "内容", "gpt-4o-mini")

	prompt, ok := provider.lastChatReq.Messages[1].Content.(string)
	if !ok {
		t.Fatal("用户消息应为纯文本")
	}
	if !strings.Contains(prompt, "交通局") || !strings.Contains(prompt, "卫生局") {
		t.Fatal("提示词应包含全部可用分类")
	}
}

func TestSemanticClassifyNoCategories(t *testing.T) {
	provider := &stubProvider{}
	rules := &stubRules{}
	classifier := NewSemanticCategoryClassifier(provider, rules, testOpenAIConfig())

	catID, confidence, reason := classifier.Classify(context.Background(), "标题", "内容", "gpt-4o-mini")
	if catID != nil || confidence != 0 {
		t.Fatal("无可用分类时应返回空结果")
	}
	if reason != "No categories available" {
		t.Fatalf("reason = %q", reason)
	}
	if provider.chatCalls != 0 {
		t.Fatal("无可用分类时不应调用外部服务")
	}
}

func TestSemanticClassifyProviderError(t *testing.T) {
	provider := &stubProvider{chatErr: errors.New("timeout")}
	rules := &stubRules{cats: trafficCategories()}
	classifier := NewSemanticCategoryClassifier(provider, rules, testOpenAIConfig())

	catID, confidence, reason := classifier.Classify(context.Background(), "标题", "内容", "gpt-4o-mini")
	if catID != nil || confidence != 0 {
		t.Fatal("调用失败时应返回空结果")
	}
	if !strings.HasPrefix(reason, "Error:") {
		t.Fatalf("reason = %q, want Error: 前缀", reason)
	}
}

func TestSemanticClassifyMalformedReply(t *testing.T) {
	provider := &stubProvider{chatReplies: []string{"这不是JSON"}}
	rules := &stubRules{cats: trafficCategories()}
	classifier := NewSemanticCategoryClassifier(provider, rules, testOpenAIConfig())

	catID, _, reason := classifier.Classify(context.Background(), "标题", "内容", "gpt-4o-mini")
	if catID != nil {
		t.Fatal("解析失败时应返回空结果")
	}
	if !strings.HasPrefix(reason, "Error:") {
		t.Fatalf("reason = %q, want Error: 前缀", reason)
	}
}
