package admin_model

import (
	"time"
)

// SensitiveWord 敏感词黑名单规则，由管理员维护
type SensitiveWord struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	Word      string    `json:"word" gorm:"size:100;not null;index"`
	Category  string    `json:"category" gorm:"size:50"`              // 词所属类别（政治/辱骂/广告等）
	Severity  int       `json:"severity" gorm:"default:1"`            // 严重程度
	Action    string    `json:"action" gorm:"size:10;not null"`       // reject/flag/review
	IsActive  bool      `json:"is_active" gorm:"default:true;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 指定表名
func (SensitiveWord) TableName() string {
	return "sensitive_words"
}

// CategoryKeyword 分类关键字规则，按出现次数加权计分
type CategoryKeyword struct {
	ID         uint      `json:"id" gorm:"primarykey"`
	CategoryID int       `json:"category_id" gorm:"not null;index"`
	Keyword    string    `json:"keyword" gorm:"size:100;not null"`
	Weight     float64   `json:"weight" gorm:"default:1"` // 权重，>= 0
	IsActive   bool      `json:"is_active" gorm:"default:true;index"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName 指定表名
func (CategoryKeyword) TableName() string {
	return "category_keywords"
}

// ModerationConfig 审核运行时配置，key唯一
type ModerationConfig struct {
	ID          uint      `json:"id" gorm:"primarykey"`
	ConfigKey   string    `json:"config_key" gorm:"size:100;not null;uniqueIndex"`
	ConfigValue string    `json:"config_value" gorm:"size:200;not null"`
	Description string    `json:"description" gorm:"size:200"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName 指定表名
func (ModerationConfig) TableName() string {
	return "moderation_config"
}

// ModerationLog 审核日志，只追加不修改
type ModerationLog struct {
	ID                      uint      `json:"id" gorm:"primarykey"`
	OpinionID               uint      `json:"opinion_id" gorm:"not null;index"`
	ModerationType          string    `json:"moderation_type" gorm:"size:10;not null"` // text/image/video
	ServiceProvider         string    `json:"service_provider" gorm:"size:20"`
	TraceID                 string    `json:"trace_id" gorm:"size:40;index"` // 单次审核任务追踪ID
	Decision                string    `json:"decision" gorm:"size:10"`
	ConfidenceScore         float64   `json:"confidence_score"`
	SuggestedCategoryID     *int      `json:"suggested_category_id"`
	CategoryConfidence      float64   `json:"category_confidence"`
	IsSafe                  bool      `json:"is_safe"`
	DetectedIssues          string    `json:"detected_issues" gorm:"type:json"`
	APIRequest              string    `json:"api_request" gorm:"type:json"`  // 原始请求，供追溯
	APIResponse             string    `json:"api_response" gorm:"type:json"` // 原始响应，供追溯
	ProcessingTimeMs        int       `json:"processing_time_ms"`
	BlockedByKeywords       string    `json:"blocked_by_keywords" gorm:"size:200"`
	MatchedCategoryKeywords string    `json:"matched_category_keywords" gorm:"size:500"`
	CreatedAt               time.Time `json:"created_at"`
}

// TableName 指定表名
func (ModerationLog) TableName() string {
	return "moderation_logs"
}
