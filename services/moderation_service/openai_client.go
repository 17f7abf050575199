package moderation_service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"civic-go-admin/pkg/config"
	"civic-go-admin/pkg/monitoring"
)

// 外部服务端点
const (
	endpointModerations     = "/v1/moderations"
	endpointChatCompletions = "/v1/chat/completions"
)

// ModerationRequest 内容安全检测请求
type ModerationRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

// ModerationOutcome 单条检测结果
type ModerationOutcome struct {
	Flagged        bool               `json:"flagged"`
	Categories     map[string]bool    `json:"categories"`
	CategoryScores map[string]float64 `json:"category_scores"`
}

// ModerationResponse 内容安全检测响应
type ModerationResponse struct {
	Results []ModerationOutcome `json:"results"`
}

// ChatMessage 对话消息，Content 可以是字符串或多段内容（图文混合）
type ChatMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

// ChatRequest 对话补全请求
type ChatRequest struct {
	Model          string  `json:"model"`
	Messages       []ChatMessage `json:"messages"`
	Temperature    float64 `json:"temperature,omitempty"`
	MaxTokens      int     `json:"max_tokens,omitempty"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
}

// ResponseFormat 响应格式约束
type ResponseFormat struct {
	Type string `json:"type"`
}

// ChatResponse 对话补全响应
type ChatResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// ProviderClient 外部审核/分类服务客户端接口，测试时注入桩实现
type ProviderClient interface {
	// Moderations 提交文本安全检测，返回解析结果与原始响应
	Moderations(ctx context.Context, req *ModerationRequest) (*ModerationResponse, []byte, error)
	// ChatCompletion 提交对话补全（语义分类与图片分析共用），返回首条回复内容与原始响应
	ChatCompletion(ctx context.Context, req *ChatRequest) (string, []byte, error)
}

// OpenAIClient 基于HTTP的外部服务客户端
type OpenAIClient struct {
	http   *http.Client
	apiKey string
	baseURL string
}

// NewOpenAIClient 从全局配置创建客户端
func NewOpenAIClient(cfg config.OpenAIConfig) *OpenAIClient {
	return &OpenAIClient{
		// 各端点超时差异较大，由调用方通过context控制
		http:    &http.Client{Timeout: 120 * time.Second},
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
	}
}

// Moderations 调用内容安全检测端点
func (c *OpenAIClient) Moderations(ctx context.Context, req *ModerationRequest) (*ModerationResponse, []byte, error) {
	raw, err := c.doRequest(ctx, endpointModerations, req)
	if err != nil {
		return nil, raw, err
	}

	var resp ModerationResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, raw, fmt.Errorf("解析安全检测响应失败: %w", err)
	}
	if len(resp.Results) == 0 {
		return nil, raw, fmt.Errorf("安全检测响应中不包含 results")
	}
	return &resp, raw, nil
}

// ChatCompletion 调用对话补全端点
func (c *OpenAIClient) ChatCompletion(ctx context.Context, req *ChatRequest) (string, []byte, error) {
	raw, err := c.doRequest(ctx, endpointChatCompletions, req)
	if err != nil {
		return "", raw, err
	}

	var resp ChatResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", raw, fmt.Errorf("解析对话补全响应失败: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", raw, fmt.Errorf("对话补全响应中不包含 choices")
	}
	return resp.Choices[0].Message.Content, raw, nil
}

func (c *OpenAIClient) doRequest(ctx context.Context, endpoint string, payload interface{}) ([]byte, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("OpenAI API Key 未配置")
	}

	buf, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("序列化请求失败: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("创建 HTTP 请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		monitoring.RecordProviderRequest(endpoint, "error", time.Since(start))
		return nil, fmt.Errorf("调用外部审核服务失败: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		monitoring.RecordProviderRequest(endpoint, "error", time.Since(start))
		return nil, fmt.Errorf("读取外部审核服务响应失败: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		monitoring.RecordProviderRequest(endpoint, fmt.Sprintf("%d", resp.StatusCode), time.Since(start))
		return respBytes, fmt.Errorf("外部审核服务响应错误: status=%d, body=%s", resp.StatusCode, string(respBytes))
	}

	monitoring.RecordProviderRequest(endpoint, "ok", time.Since(start))
	return respBytes, nil
}
