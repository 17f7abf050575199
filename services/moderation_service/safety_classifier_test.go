package moderation_service

import (
	"context"
	"errors"
	"testing"
	"time"

	"civic-go-admin/pkg/config"
)

func testOpenAIConfig() config.OpenAIConfig {
	return config.OpenAIConfig{
		APIKey:            "test-key",
		ModerationTimeout: time.Second,
		ChatTimeout:       time.Second,
		VisionTimeout:     time.Second,
	}
}

func TestCheckSafetyCleanContent(t *testing.T) {
	provider := &stubProvider{moderationResp: safeModeration()}
	classifier := NewSafetyClassifier(provider, testOpenAIConfig())

	result := classifier.CheckSafety(context.Background(), "正常的市民意见")
	if !result.IsSafe {
		t.Fatal("未被标记的内容应安全")
	}
	if result.Confidence != 100.0 {
		t.Fatalf("confidence = %v, want 100", result.Confidence)
	}
	if len(result.Issues) != 0 {
		t.Fatalf("issues = %v, want empty", result.Issues)
	}
}

func TestCheckSafetyFlaggedContent(t *testing.T) {
	provider := &stubProvider{moderationResp: flaggedModeration("violence", 0.95)}
	classifier := NewSafetyClassifier(provider, testOpenAIConfig())

	result := classifier.CheckSafety(context.Background(), "恶意内容")
	if result.IsSafe {
		t.Fatal("被标记的内容不应安全")
	}
	if result.Confidence != 5.0 {
		t.Fatalf("confidence = %v, want 5", result.Confidence)
	}
	if score, ok := result.Issues["violence"]; !ok || score != 0.95 {
		t.Fatalf("issues = %v, want violence=0.95", result.Issues)
	}
}

func TestCheckSafetyIssueFloor(t *testing.T) {
	resp := &ModerationResponse{
		Results: []ModerationOutcome{
			{
				Flagged: false,
				CategoryScores: map[string]float64{
					"violence":   0.05, // 低于下限，忽略
					"harassment": 0.3,
				},
			},
		},
	}
	provider := &stubProvider{moderationResp: resp}
	classifier := NewSafetyClassifier(provider, testOpenAIConfig())

	result := classifier.CheckSafety(context.Background(), "边缘内容")
	if _, ok := result.Issues["violence"]; ok {
		t.Fatal("分数低于下限的类别不应保留")
	}
	if _, ok := result.Issues["harassment"]; !ok {
		t.Fatal("分数超过下限的类别应保留")
	}
	if result.Confidence != 70.0 {
		t.Fatalf("confidence = %v, want 70", result.Confidence)
	}
}

func TestCheckSafetyProviderErrorFailsOpen(t *testing.T) {
	provider := &stubProvider{moderationErr: errors.New("connection refused")}
	classifier := NewSafetyClassifier(provider, testOpenAIConfig())

	result := classifier.CheckSafety(context.Background(), "内容")
	if !result.IsSafe {
		t.Fatal("外部服务故障时应按安全放行")
	}
	if result.Confidence != 50.0 {
		t.Fatalf("confidence = %v, want 50", result.Confidence)
	}
	if result.Err == "" {
		t.Fatal("错误信息应写入结果")
	}
}
