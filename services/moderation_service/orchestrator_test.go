package moderation_service

import (
	"context"
	"strings"
	"testing"

	"civic-go-admin/model/admin_model"
	"civic-go-admin/model/app_model"
)

type orchestratorFixture struct {
	orchestrator *ModerationOrchestrator
	provider     *stubProvider
	logs         *memLogs
	lifecycle    *stubLifecycle
}

func newOrchestratorFixture(rules *stubRules, provider *stubProvider) *orchestratorFixture {
	logs := &memLogs{}
	lifecycle := &stubLifecycle{}

	text := newTestPipeline(rules, provider, nil)
	media := NewMediaModerationPipeline(
		NewImageSafetyClassifier(provider, testOpenAIConfig()),
		&stubConfig{},
		logs,
	)

	return &orchestratorFixture{
		orchestrator: NewModerationOrchestrator(text, media, logs, lifecycle, nil),
		provider:     provider,
		logs:         logs,
		lifecycle:    lifecycle,
	}
}

func TestOrchestratorTextApprove(t *testing.T) {
	rules := &stubRules{
		keywords: map[int][]admin_model.CategoryKeyword{
			1: {{CategoryID: 1, Keyword: "道路", Weight: 5.0}},
		},
		cats: trafficCategories(),
	}
	provider := &stubProvider{moderationResp: safeModeration()}
	f := newOrchestratorFixture(rules, provider)

	f.orchestrator.Process(context.Background(), 10, "道路问题", "内容", nil, nil, "trace-1")

	approve := f.lifecycle.find("approve")
	if approve == nil {
		t.Fatal("自动通过应触发意见状态流转")
	}
	if approve.moderatorID != SystemModeratorID {
		t.Fatalf("moderatorID = %d, want 系统审核员", approve.moderatorID)
	}

	fields := f.lifecycle.find("set_fields")
	if fields == nil {
		t.Fatal("审核结果字段应写回意见")
	}
	if fields.autoStatus != "approved" {
		t.Fatalf("autoStatus = %q, want approved", fields.autoStatus)
	}
	if fields.needsReview {
		t.Fatal("自动通过不需要人工复核")
	}
	if fields.categoryID == nil || *fields.categoryID != 1 {
		t.Fatalf("categoryID = %v, want 1", fields.categoryID)
	}

	// 文本审核日志无条件落库
	if len(f.logs.entries) != 1 || f.logs.entries[0].ModerationType != "text" {
		t.Fatalf("应有一条文本审核日志, got %d", len(f.logs.entries))
	}
}

func TestOrchestratorTextRejectSkipsMedia(t *testing.T) {
	rules := &stubRules{
		words: []admin_model.SensitiveWord{{Word: "违禁", Action: "reject"}},
	}
	provider := &stubProvider{moderationResp: safeModeration()}
	f := newOrchestratorFixture(rules, provider)

	media := []app_model.OpinionMedia{
		{MediaType: app_model.MediaTypeImage, FilePath: "https://example.com/a.jpg"},
	}
	f.orchestrator.Process(context.Background(), 11, "标题", "违禁内容", media, nil, "trace-2")

	reject := f.lifecycle.find("reject")
	if reject == nil {
		t.Fatal("文本被拒绝应触发拒绝流转")
	}
	if !strings.Contains(reject.reason, "违禁") {
		t.Fatalf("reject reason = %q", reject.reason)
	}

	fields := f.lifecycle.find("set_fields")
	if fields == nil || fields.autoStatus != "rejected" {
		t.Fatalf("autoStatus应为rejected, got %+v", fields)
	}

	// 文本拒绝后不应再审核多媒体
	if provider.chatCalls != 0 {
		t.Fatalf("多媒体不应被处理, chatCalls = %d", provider.chatCalls)
	}
	for _, entry := range f.logs.entries {
		if entry.ModerationType == "image" {
			t.Fatal("不应有图片审核日志")
		}
	}
}

func TestOrchestratorMediaRejectOverridesText(t *testing.T) {
	rules := &stubRules{
		keywords: map[int][]admin_model.CategoryKeyword{
			1: {{CategoryID: 1, Keyword: "道路", Weight: 5.0}},
		},
		cats: trafficCategories(),
	}
	// 文本通过，图片被高信心度拒绝
	provider := &stubProvider{
		moderationResp: safeModeration(),
		chatReplies:    []string{unsafeImageReply},
	}
	f := newOrchestratorFixture(rules, provider)

	media := []app_model.OpinionMedia{
		{MediaType: app_model.MediaTypeImage, FilePath: "https://example.com/bad.jpg"},
	}
	f.orchestrator.Process(context.Background(), 12, "道路问题", "正常内容", media, nil, "trace-3")

	reject := f.lifecycle.find("reject")
	if reject == nil {
		t.Fatal("多媒体被拒绝应触发拒绝流转")
	}

	fields := f.lifecycle.find("set_fields")
	if fields == nil || fields.autoStatus != "rejected" {
		t.Fatalf("autoStatus应为rejected, got %+v", fields)
	}
	if !strings.Contains(fields.reason, "多媒体内容不当") {
		t.Fatalf("reason = %q", fields.reason)
	}
	if f.lifecycle.find("approve") != nil {
		t.Fatal("不应触发通过流转")
	}
}

func TestOrchestratorMediaReviewOverridesTextApprove(t *testing.T) {
	rules := &stubRules{
		keywords: map[int][]admin_model.CategoryKeyword{
			1: {{CategoryID: 1, Keyword: "道路", Weight: 5.0}},
		},
		cats: trafficCategories(),
	}
	// 文本自动通过，但附带视频需要人工复核
	provider := &stubProvider{moderationResp: safeModeration()}
	f := newOrchestratorFixture(rules, provider)

	media := []app_model.OpinionMedia{
		{MediaType: app_model.MediaTypeVideo, FilePath: "/uploads/clip.mp4"},
	}
	f.orchestrator.Process(context.Background(), 13, "道路问题", "内容", media, nil, "trace-4")

	fields := f.lifecycle.find("set_fields")
	if fields == nil {
		t.Fatal("审核结果字段应写回意见")
	}
	if fields.autoStatus != "pending" {
		t.Fatalf("autoStatus = %q, want pending", fields.autoStatus)
	}
	if !fields.needsReview {
		t.Fatal("多媒体需复核时整体应转人工")
	}
	if !strings.Contains(fields.reason, "多媒体内容需要人工审核") {
		t.Fatalf("reason = %q", fields.reason)
	}
	if f.lifecycle.find("approve") != nil {
		t.Fatal("转人工时不应触发通过流转")
	}
}

func TestOrchestratorReviewDecisionStaysPending(t *testing.T) {
	rules := &stubRules{cats: trafficCategories()}
	// 综合信心度75 -> 人工审核
	provider := &stubProvider{
		moderationResp: safeModeration(),
		chatReplies:    []string{`{"category_id": 1, "confidence": 50, "reason": "信息不足"}`},
	}
	f := newOrchestratorFixture(rules, provider)

	f.orchestrator.Process(context.Background(), 14, "标题", "模糊内容", nil, nil, "trace-5")

	fields := f.lifecycle.find("set_fields")
	if fields == nil || fields.autoStatus != "pending" {
		t.Fatalf("autoStatus应为pending, got %+v", fields)
	}
	if !fields.needsReview {
		t.Fatal("人工审核决策应置复核标记")
	}
	if f.lifecycle.find("approve") != nil || f.lifecycle.find("reject") != nil {
		t.Fatal("人工审核决策不应触发状态流转")
	}
}

func TestOrchestratorFlagDecisionMapsToFlagged(t *testing.T) {
	rules := &stubRules{cats: trafficCategories()}
	// 标记且需人工复核
	provider := &stubProvider{
		moderationResp: flaggedModeration("harassment", 0.4),
		chatReplies:    []string{`{"category_id": 1, "confidence": 50, "reason": "ok"}`},
	}
	f := newOrchestratorFixture(rules, provider)

	f.orchestrator.Process(context.Background(), 15, "标题", "边缘内容", nil, nil, "trace-6")

	fields := f.lifecycle.find("set_fields")
	if fields == nil || fields.autoStatus != "flagged" {
		t.Fatalf("autoStatus应为flagged, got %+v", fields)
	}
	if !fields.needsReview {
		t.Fatal("标记内容应置复核标记")
	}
}

func TestOrchestratorPanicForcesManualReview(t *testing.T) {
	logs := &memLogs{}
	lifecycle := &stubLifecycle{}
	// 流水线缺失导致panic，兜底逻辑应接管
	orchestrator := NewModerationOrchestrator(nil, nil, logs, lifecycle, nil)

	current := 3
	orchestrator.Process(context.Background(), 16, "标题", "内容", nil, &current, "trace-7")

	fields := lifecycle.find("set_fields")
	if fields == nil {
		t.Fatal("panic后应写入兜底状态")
	}
	if fields.autoStatus != "pending" || !fields.needsReview {
		t.Fatalf("panic后意见应转人工, got %+v", fields)
	}
	if !strings.Contains(fields.reason, "自动审核错误") {
		t.Fatalf("reason = %q", fields.reason)
	}
	if fields.categoryID == nil || *fields.categoryID != 3 {
		t.Fatalf("兜底时应保留提交分类, got %v", fields.categoryID)
	}
}
