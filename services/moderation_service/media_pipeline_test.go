package moderation_service

import (
	"context"
	"strings"
	"testing"

	"civic-go-admin/model/app_model"
)

func newTestMediaPipeline(provider *stubProvider, logs *memLogs) *MediaModerationPipeline {
	return NewMediaModerationPipeline(
		NewImageSafetyClassifier(provider, testOpenAIConfig()),
		&stubConfig{},
		logs,
	)
}

const safeImageReply = `{"is_safe": true, "detected_issues": [], "severity_scores": {"violence": 0.05}}`
const unsafeImageReply = `{"is_safe": false, "detected_issues": ["violence"], "severity_scores": {"violence": 0.95}}`

func TestModerateImageApprove(t *testing.T) {
	logs := &memLogs{}
	provider := &stubProvider{chatReplies: []string{safeImageReply}}
	pipeline := newTestMediaPipeline(provider, logs)

	result := pipeline.ModerateImage(context.Background(), "https://example.com/a.jpg", 1, "trace-1")

	if result.Decision != DecisionApprove {
		t.Fatalf("decision = %q, want approve", result.Decision)
	}
	if result.NeedsManualReview {
		t.Fatal("安全图片不需要人工复核")
	}
	if len(logs.entries) != 1 {
		t.Fatalf("每张图片应落一条审核日志, got %d", len(logs.entries))
	}
	if logs.entries[0].ModerationType != "image" || logs.entries[0].TraceID != "trace-1" {
		t.Fatalf("日志字段不正确: %+v", logs.entries[0])
	}
}

func TestModerateImageRejectHighConfidence(t *testing.T) {
	logs := &memLogs{}
	// 不安全且信心度95 >= 自动拒绝阈值90
	provider := &stubProvider{chatReplies: []string{unsafeImageReply}}
	pipeline := newTestMediaPipeline(provider, logs)

	result := pipeline.ModerateImage(context.Background(), "https://example.com/bad.jpg", 1, "trace-1")

	if result.Decision != DecisionReject {
		t.Fatalf("decision = %q, want reject", result.Decision)
	}
	if !strings.Contains(result.Reason, "violence") {
		t.Fatalf("reason = %q", result.Reason)
	}
}

func TestModerateImageReviewMediumConfidence(t *testing.T) {
	logs := &memLogs{}
	// 不安全，信心度70介于60和90之间 -> 转人工
	provider := &stubProvider{chatReplies: []string{
		`{"is_safe": false, "detected_issues": ["sexual"], "severity_scores": {"sexual": 0.7}}`,
	}}
	pipeline := newTestMediaPipeline(provider, logs)

	result := pipeline.ModerateImage(context.Background(), "https://example.com/b.jpg", 1, "trace-1")

	if result.Decision != DecisionReview {
		t.Fatalf("decision = %q, want review", result.Decision)
	}
	if !result.NeedsManualReview {
		t.Fatal("中等信心度应转人工")
	}
}

func TestModerateImageFlagLowConfidence(t *testing.T) {
	logs := &memLogs{}
	// 不安全但信心度30低于人工审核阈值 -> 标记
	provider := &stubProvider{chatReplies: []string{
		`{"is_safe": false, "detected_issues": ["hate"], "severity_scores": {"hate": 0.3}}`,
	}}
	pipeline := newTestMediaPipeline(provider, logs)

	result := pipeline.ModerateImage(context.Background(), "https://example.com/c.jpg", 1, "trace-1")

	if result.Decision != DecisionFlag {
		t.Fatalf("decision = %q, want flag", result.Decision)
	}
	if !result.NeedsManualReview {
		t.Fatal("标记图片应转人工")
	}
}

func TestModerateBatchRejectShortCircuits(t *testing.T) {
	logs := &memLogs{}
	// 第二张图片被拒绝，第三张不应再处理
	provider := &stubProvider{chatReplies: []string{safeImageReply, unsafeImageReply, safeImageReply}}
	pipeline := newTestMediaPipeline(provider, logs)

	media := []app_model.OpinionMedia{
		{MediaType: app_model.MediaTypeImage, FilePath: "https://example.com/1.jpg"},
		{MediaType: app_model.MediaTypeImage, FilePath: "https://example.com/2.jpg"},
		{MediaType: app_model.MediaTypeImage, FilePath: "https://example.com/3.jpg"},
	}

	batch := pipeline.ModerateBatch(context.Background(), media, 1, "trace-1")

	if batch.OverallDecision != DecisionReject {
		t.Fatalf("overallDecision = %q, want reject", batch.OverallDecision)
	}
	if len(batch.Results) != 2 {
		t.Fatalf("拒绝后应停止处理, 已处理 %d 个文件, want 2", len(batch.Results))
	}
	if provider.chatCalls != 2 {
		t.Fatalf("第三张图片不应调用外部服务, chatCalls = %d", provider.chatCalls)
	}
	if !strings.Contains(batch.Reason, "2.jpg") {
		t.Fatalf("reason = %q, 应指出被拒绝的文件", batch.Reason)
	}
	if batch.NeedsManualReview {
		t.Fatal("整批拒绝不需要人工复核")
	}
}

func TestModerateBatchAllSafeApproves(t *testing.T) {
	logs := &memLogs{}
	provider := &stubProvider{chatReplies: []string{safeImageReply}}
	pipeline := newTestMediaPipeline(provider, logs)

	media := []app_model.OpinionMedia{
		{MediaType: app_model.MediaTypeImage, FilePath: "https://example.com/1.jpg"},
		{MediaType: app_model.MediaTypeImage, FilePath: "https://example.com/2.jpg"},
	}

	batch := pipeline.ModerateBatch(context.Background(), media, 1, "trace-1")

	if batch.OverallDecision != DecisionApprove {
		t.Fatalf("overallDecision = %q, want approve", batch.OverallDecision)
	}
	// 整体信心度取所有文件的最小值
	if batch.OverallConfidence != 95.0 {
		t.Fatalf("overallConfidence = %v, want 95", batch.OverallConfidence)
	}
}

func TestModerateBatchVideoForcesReview(t *testing.T) {
	logs := &memLogs{}
	provider := &stubProvider{chatReplies: []string{safeImageReply}}
	pipeline := newTestMediaPipeline(provider, logs)

	media := []app_model.OpinionMedia{
		{MediaType: app_model.MediaTypeImage, FilePath: "https://example.com/1.jpg"},
		{MediaType: app_model.MediaTypeVideo, FilePath: "/uploads/clip.mp4"},
	}

	batch := pipeline.ModerateBatch(context.Background(), media, 1, "trace-1")

	if batch.OverallDecision != DecisionReview {
		t.Fatalf("包含视频时整体应转人工, got %q", batch.OverallDecision)
	}
	if !batch.NeedsManualReview {
		t.Fatal("视频需要人工复核")
	}
	// 视频占位结果信心度50，应拉低整体信心度
	if batch.OverallConfidence != 50.0 {
		t.Fatalf("overallConfidence = %v, want 50", batch.OverallConfidence)
	}
	// 视频不应调用外部服务
	if provider.chatCalls != 1 {
		t.Fatalf("chatCalls = %d, want 1", provider.chatCalls)
	}
}

func TestModerateBatchAudioSkipped(t *testing.T) {
	logs := &memLogs{}
	provider := &stubProvider{}
	pipeline := newTestMediaPipeline(provider, logs)

	media := []app_model.OpinionMedia{
		{MediaType: app_model.MediaTypeAudio, FilePath: "/uploads/voice.mp3"},
	}

	batch := pipeline.ModerateBatch(context.Background(), media, 1, "trace-1")

	if batch.OverallDecision != DecisionApprove {
		t.Fatalf("音频暂不审核, 应通过, got %q", batch.OverallDecision)
	}
	if batch.OverallConfidence != 100.0 {
		t.Fatalf("overallConfidence = %v, want 100", batch.OverallConfidence)
	}
	if provider.chatCalls != 0 {
		t.Fatal("音频不应调用外部服务")
	}
}

func TestModerateBatchEmpty(t *testing.T) {
	logs := &memLogs{}
	pipeline := newTestMediaPipeline(&stubProvider{}, logs)

	batch := pipeline.ModerateBatch(context.Background(), nil, 1, "trace-1")

	if batch.OverallDecision != DecisionApprove {
		t.Fatalf("空批次应通过, got %q", batch.OverallDecision)
	}
	if len(batch.Results) != 0 {
		t.Fatalf("results = %v", batch.Results)
	}
}
