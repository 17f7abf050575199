package moderation_service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestClassifyImageSafe(t *testing.T) {
	provider := &stubProvider{
		chatReplies: []string{`{
			"is_safe": true,
			"detected_issues": [],
			"severity_scores": {"violence": 0.1, "hate": 0.0},
			"description": "街道照片",
			"recommendation": "approve"
		}`},
	}
	classifier := NewImageSafetyClassifier(provider, testOpenAIConfig())

	analysis := classifier.ClassifyImage(context.Background(), "https://example.com/photo.jpg", true, "gpt-4o-mini")
	if !analysis.IsSafe {
		t.Fatal("应判定为安全")
	}
	// 安全时 confidence = (1 - 最高严重度) * 100
	if analysis.Confidence != 90.0 {
		t.Fatalf("confidence = %v, want 90", analysis.Confidence)
	}
	if analysis.Description != "街道照片" {
		t.Fatalf("description = %q", analysis.Description)
	}
}

func TestClassifyImageUnsafe(t *testing.T) {
	provider := &stubProvider{
		chatReplies: []string{`{
			"is_safe": false,
			"detected_issues": ["violence"],
			"severity_scores": {"violence": 0.95},
			"description": "暴力场景",
			"recommendation": "reject"
		}`},
	}
	classifier := NewImageSafetyClassifier(provider, testOpenAIConfig())

	analysis := classifier.ClassifyImage(context.Background(), "https://example.com/bad.jpg", true, "gpt-4o-mini")
	if analysis.IsSafe {
		t.Fatal("应判定为不安全")
	}
	// 不安全时 confidence = 最高严重度 * 100
	if analysis.Confidence != 95.0 {
		t.Fatalf("confidence = %v, want 95", analysis.Confidence)
	}
	if len(analysis.Issues) != 1 || analysis.Issues[0] != "violence" {
		t.Fatalf("issues = %v", analysis.Issues)
	}
}

func TestClassifyImageLocalFileInlined(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "photo.png")
	if err := os.WriteFile(path, []byte("fake image bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	provider := &stubProvider{
		chatReplies: []string{`{"is_safe": true, "detected_issues": [], "severity_scores": {}}`},
	}
	classifier := NewImageSafetyClassifier(provider, testOpenAIConfig())

	classifier.ClassifyImage(context.Background(), path, false, "gpt-4o-mini")

	parts, ok := provider.lastChatReq.Messages[1].Content.([]map[string]interface{})
	if !ok || len(parts) != 2 {
		t.Fatalf("用户消息应为图文两段, got %T", provider.lastChatReq.Messages[1].Content)
	}
	imagePart := parts[1]["image_url"].(map[string]string)
	if !strings.HasPrefix(imagePart["url"], "data:image/png;base64,") {
		t.Fatalf("本地文件应内联为base64, got %q", imagePart["url"][:30])
	}
}

func TestClassifyImageMissingFile(t *testing.T) {
	provider := &stubProvider{}
	classifier := NewImageSafetyClassifier(provider, testOpenAIConfig())

	analysis := classifier.ClassifyImage(context.Background(), "/nonexistent/photo.jpg", false, "gpt-4o-mini")
	if !analysis.IsSafe {
		t.Fatal("编码失败时应按安全处理")
	}
	if analysis.Confidence != 0.0 {
		t.Fatalf("confidence = %v, want 0", analysis.Confidence)
	}
	if provider.chatCalls != 0 {
		t.Fatal("编码失败时不应调用外部服务")
	}
}

func TestClassifyImageProviderErrorFailsOpen(t *testing.T) {
	provider := &stubProvider{chatErr: errors.New("timeout")}
	classifier := NewImageSafetyClassifier(provider, testOpenAIConfig())

	analysis := classifier.ClassifyImage(context.Background(), "https://example.com/photo.jpg", true, "gpt-4o-mini")
	if !analysis.IsSafe || analysis.Confidence != 50.0 {
		t.Fatalf("调用失败时应按安全放行 (conf=50), got (%v, %v)", analysis.IsSafe, analysis.Confidence)
	}
}

func TestImageMimeType(t *testing.T) {
	cases := map[string]string{
		"a.jpg":  "image/jpeg",
		"a.JPEG": "image/jpeg",
		"a.png":  "image/png",
		"a.gif":  "image/gif",
		"a.webp": "image/webp",
		"a.bmp":  "image/jpeg",
	}
	for path, want := range cases {
		if got := imageMimeType(path); got != want {
			t.Errorf("imageMimeType(%q) = %q, want %q", path, got, want)
		}
	}
}
