package moderation_service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"civic-go-admin/pkg/config"
)

// ImageSafetyClassifier 图片内容检测适配器
type ImageSafetyClassifier struct {
	client  ProviderClient
	timeout time.Duration
}

// NewImageSafetyClassifier 创建图片检测适配器
func NewImageSafetyClassifier(client ProviderClient, cfg config.OpenAIConfig) *ImageSafetyClassifier {
	timeout := cfg.VisionTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ImageSafetyClassifier{client: client, timeout: timeout}
}

const imagePrompt = `请仔细分析这张图片，判断是否包含以下不当内容：

1. 暴力内容 (violence)：血腥、暴力场景、武器攻击等
2. 仇恨内容 (hate)：种族歧视、性别歧视、仇恨符号等
3. 不雅内容 (sexual)：裸露、色情、性暗示等
4. 自残内容 (self-harm)：自杀、自残行为等
5. 骚扰内容 (harassment)：恐吓、威胁等

请以JSON格式回应，包含：
{
    "is_safe": true/false,
    "detected_issues": ["issue1", "issue2"],
    "severity_scores": {
        "violence": 0-1的分数,
        "hate": 0-1的分数,
        "sexual": 0-1的分数,
        "self-harm": 0-1的分数,
        "harassment": 0-1的分数
    },
    "description": "简短描述图片内容",
    "recommendation": "approve/reject/review"
}

只需回传JSON，不要其他说明文字。`

// visionReply 模型按约定返回的JSON结构
type visionReply struct {
	IsSafe         bool               `json:"is_safe"`
	DetectedIssues []string           `json:"detected_issues"`
	SeverityScores map[string]float64 `json:"severity_scores"`
	Description    string             `json:"description"`
	Recommendation string             `json:"recommendation"`
}

// ClassifyImage 检测图片内容
// 本地文件编码为base64内联，URL直接传递。
// 失败时按安全放行（confidence=50），错误写入结果。
func (c *ImageSafetyClassifier) ClassifyImage(ctx context.Context, imagePath string, isURL bool, model string) ImageAnalysis {
	imageURL := imagePath
	if !isURL {
		encoded, err := encodeImageBase64(imagePath)
		if err != nil {
			log.Printf("[图片检测] 图片编码失败: %v", err)
			return ImageAnalysis{
				IsSafe:     true,
				Confidence: 0.0,
				Issues:     []string{},
				Err:        fmt.Sprintf("Failed to encode image: %v", err),
			}
		}
		imageURL = fmt.Sprintf("data:%s;base64,%s", imageMimeType(imagePath), encoded)
	}

	req := &ChatRequest{
		Model: model,
		Messages: []ChatMessage{
			{
				Role:    "system",
				Content: "你是一个专业的图片内容审核助手，能准确识别不当内容。",
			},
			{
				Role: "user",
				Content: []map[string]interface{}{
					{"type": "text", "text": imagePrompt},
					{"type": "image_url", "image_url": map[string]string{"url": imageURL}},
				},
			},
		},
		Temperature:    0.2,
		MaxTokens:      500,
		ResponseFormat: &ResponseFormat{Type: "json_object"},
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	reply, rawResp, err := c.client.ChatCompletion(callCtx, req)
	if err != nil {
		log.Printf("[图片检测] 调用图片检测失败: %v", err)
		return ImageAnalysis{
			IsSafe:      true,
			Confidence:  50.0,
			Issues:      []string{},
			RawResponse: rawResp,
			Err:         err.Error(),
		}
	}

	var parsed visionReply
	if err := json.Unmarshal([]byte(reply), &parsed); err != nil {
		log.Printf("[图片检测] 解析图片检测结果失败: %v, 内容: %s", err, reply)
		return ImageAnalysis{
			IsSafe:      true,
			Confidence:  50.0,
			Issues:      []string{},
			RawResponse: rawResp,
			Err:         err.Error(),
		}
	}

	// 最高严重度分数决定信心度
	maxSeverity := 0.0
	for _, score := range parsed.SeverityScores {
		if score > maxSeverity {
			maxSeverity = score
		}
	}

	var confidence float64
	if parsed.IsSafe {
		confidence = (1 - maxSeverity) * 100
	} else {
		confidence = maxSeverity * 100
	}
	confidence = math.Round(confidence*100) / 100

	issues := parsed.DetectedIssues
	if issues == nil {
		issues = []string{}
	}

	return ImageAnalysis{
		IsSafe:         parsed.IsSafe,
		Confidence:     confidence,
		Issues:         issues,
		SeverityScores: parsed.SeverityScores,
		Description:    parsed.Description,
		Recommendation: parsed.Recommendation,
		RawResponse:    rawResp,
	}
}

// encodeImageBase64 读取本地图片并编码
func encodeImageBase64(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// imageMimeType 按扩展名推断MIME类型
func imageMimeType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
