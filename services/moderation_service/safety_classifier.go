package moderation_service

import (
	"context"
	"encoding/json"
	"log"
	"math"
	"time"

	"civic-go-admin/pkg/config"
)

// 内容安全检测使用的模型
const moderationModel = "omni-moderation-latest"

// 只保留分数超过该值的问题类别
const issueScoreFloor = 0.1

// SafetyClassifier 外部内容安全检测适配器
type SafetyClassifier struct {
	client  ProviderClient
	timeout time.Duration
}

// NewSafetyClassifier 创建安全检测适配器
func NewSafetyClassifier(client ProviderClient, cfg config.OpenAIConfig) *SafetyClassifier {
	timeout := cfg.ModerationTimeout
	if timeout <= 0 {
		timeout = 100 * time.Second
	}
	return &SafetyClassifier{client: client, timeout: timeout}
}

// CheckSafety 检测文本安全性
// 安全信心度与最严重问题类别分数反相关：confidence = (1 - maxScore) * 100。
// 任何传输/解析失败都按安全放行（confidence=50），错误写入结果供追溯，
// 外部服务故障不能导致提交被拒。
func (s *SafetyClassifier) CheckSafety(ctx context.Context, text string) SafetyResult {
	req := &ModerationRequest{
		Model: moderationModel,
		Input: text,
	}
	rawReq, _ := json.Marshal(req)

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, rawResp, err := s.client.Moderations(callCtx, req)
	if err != nil {
		log.Printf("[安全检测] 调用内容安全检测失败: %v", err)
		return SafetyResult{
			IsSafe:      true,
			Confidence:  50.0,
			Issues:      map[string]float64{},
			RawRequest:  rawReq,
			RawResponse: rawResp,
			Err:         err.Error(),
		}
	}

	result := resp.Results[0]

	// 找出超过下限的问题类别及最高分
	maxScore := 0.0
	issues := map[string]float64{}
	for category, score := range result.CategoryScores {
		if score > issueScoreFloor {
			issues[category] = math.Round(score*1000) / 1000
			if score > maxScore {
				maxScore = score
			}
		}
	}

	confidence := math.Round((1-maxScore)*100*100) / 100

	return SafetyResult{
		IsSafe:      !result.Flagged,
		Confidence:  confidence,
		Issues:      issues,
		RawRequest:  rawReq,
		RawResponse: rawResp,
	}
}
