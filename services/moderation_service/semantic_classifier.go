package moderation_service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"civic-go-admin/pkg/config"
)

// SemanticCategoryClassifier 基于对话补全的语义分类适配器
type SemanticCategoryClassifier struct {
	client  ProviderClient
	rules   RuleRepository
	timeout time.Duration
}

// NewSemanticCategoryClassifier 创建语义分类适配器
func NewSemanticCategoryClassifier(client ProviderClient, rules RuleRepository, cfg config.OpenAIConfig) *SemanticCategoryClassifier {
	timeout := cfg.ChatTimeout
	if timeout <= 0 {
		timeout = 75 * time.Second
	}
	return &SemanticCategoryClassifier{client: client, rules: rules, timeout: timeout}
}

// classificationReply 模型按约定返回的JSON结构
type classificationReply struct {
	CategoryID *int    `json:"category_id"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

// Classify 调用外部模型对意见进行语义分类
// 传输或解析失败时返回 (nil, 0, "Error: ...")，调用方按无建议处理。
func (s *SemanticCategoryClassifier) Classify(ctx context.Context, title, content, model string) (*int, float64, string) {
	categories, err := s.rules.TopLevelCategories(ctx)
	if err != nil {
		log.Printf("[语义分类] 加载分类列表失败: %v", err)
		return nil, 0.0, fmt.Sprintf("Error: %v", err)
	}
	if len(categories) == 0 {
		return nil, 0.0, "No categories available"
	}

	// 构建分类选项
	var options strings.Builder
	for _, cat := range categories {
		options.WriteString(fmt.Sprintf("%d. %s: %s\n", cat.ID, cat.Name, cat.Description))
	}

	prompt := fmt.Sprintf(`你是一个政府市民意见分类助手，负责判断「市民意见」与「政府各局处」之间的关联程度。
你的任务是：
1. 判断内容是否与任何一个局处明显相关
2. 若有相关，选出最符合的分类
3. 若没有明显相关，分类为「其他」并给予非常低的信心分数（0~20）

=== 市民意见 ===
标题：%s
内容：%s

=== 可用局处分类 ===
%s

=== 分类标准（请严格遵守） ===
【A. 高相关（80-100 分）】
- 市民意见中明确提到该局处负责的具体事项
- 例如：道路、交通信号 -> 交通局；医疗院所 -> 卫生局；土地使用 -> 都发局

【B. 中度相关（40-79 分）】
- 与某局处略有关联，但信息不足以非常确定

【C. 低相关（0-39 分）】
- 内容模糊、无具体事件、无法判断负责单位
- 投诉只是一般抱怨（例如「政府效率低」、「官僚太多」）

【D. 完全无关（0-10 分）】
- 与政府业务无明显关系的内容
- 单纯抱怨、不属于任何局处管辖范围

=== 回应格式（只能回传 JSON）===
{
    "category_id": <最适合的分类ID>,
    "confidence": <0-100>,
    "reason": "<简短的分类理由，若不相关需说明为何给低分>"
}

请务必只回传 JSON，不要额外文字。`, title, content, options.String())

	req := &ChatRequest{
		Model: model,
		Messages: []ChatMessage{
			{
				Role:    "system",
				Content: "你是一个专业的市民意见分类助手，能准确理解市民的诉求并分类到正确的政府部门。",
			},
			{
				Role:    "user",
				Content: prompt,
			},
		},
		Temperature:    0.3,
		ResponseFormat: &ResponseFormat{Type: "json_object"},
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	reply, _, err := s.client.ChatCompletion(callCtx, req)
	if err != nil {
		log.Printf("[语义分类] 调用语义分类失败: %v", err)
		return nil, 0.0, fmt.Sprintf("Error: %v", err)
	}

	var parsed classificationReply
	if err := json.Unmarshal([]byte(reply), &parsed); err != nil {
		log.Printf("[语义分类] 解析语义分类结果失败: %v, 内容: %s", err, reply)
		return nil, 0.0, fmt.Sprintf("Error: %v", err)
	}

	return parsed.CategoryID, parsed.Confidence, parsed.Reason
}
