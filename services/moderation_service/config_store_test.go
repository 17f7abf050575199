package moderation_service

import "testing"

func TestLoadThresholdsDefaults(t *testing.T) {
	thresholds := LoadThresholds(&stubConfig{})

	if thresholds.AutoApprove != 80.0 {
		t.Fatalf("autoApprove = %v, want 80", thresholds.AutoApprove)
	}
	if thresholds.AutoReject != 90.0 {
		t.Fatalf("autoReject = %v, want 90", thresholds.AutoReject)
	}
	if thresholds.ManualReview != 60.0 {
		t.Fatalf("manualReview = %v, want 60", thresholds.ManualReview)
	}
	if !thresholds.EnableCategoryKeywords {
		t.Fatal("关键字分类默认开启")
	}
	if thresholds.Model != "gpt-4o-mini" {
		t.Fatalf("model = %q", thresholds.Model)
	}
}

func TestLoadThresholdsOverrides(t *testing.T) {
	store := &stubConfig{values: map[string]string{
		ConfigKeyAutoApproveThreshold:   "75",
		ConfigKeyAutoRejectThreshold:    "95",
		ConfigKeyManualReviewThreshold:  "50",
		ConfigKeyEnableCategoryKeywords: "false",
		ConfigKeyOpenAIModel:            "gpt-4o",
	}}
	thresholds := LoadThresholds(store)

	if thresholds.AutoApprove != 75 || thresholds.AutoReject != 95 || thresholds.ManualReview != 50 {
		t.Fatalf("thresholds = %+v", thresholds)
	}
	if thresholds.EnableCategoryKeywords {
		t.Fatal("关键字分类应被配置关闭")
	}
	if thresholds.Model != "gpt-4o" {
		t.Fatalf("model = %q", thresholds.Model)
	}
}

func TestLoadThresholdsMalformedValueFallsBack(t *testing.T) {
	store := &stubConfig{values: map[string]string{
		ConfigKeyAutoApproveThreshold: "不是数字",
	}}
	thresholds := LoadThresholds(store)

	if thresholds.AutoApprove != 80.0 {
		t.Fatalf("非法配置值应回退默认值, got %v", thresholds.AutoApprove)
	}
}
