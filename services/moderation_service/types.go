package moderation_service

// Decision 审核决策
type Decision string

const (
	DecisionApprove Decision = "approve" // 自动通过
	DecisionReject  Decision = "reject"  // 自动拒绝
	DecisionFlag    Decision = "flag"    // 标记待确认
	DecisionReview  Decision = "review"  // 需人工审核
)

// BlocklistAction 敏感词命中后的动作，优先级 reject > flag > review
type BlocklistAction string

const (
	ActionNone   BlocklistAction = ""
	ActionReject BlocklistAction = "reject"
	ActionFlag   BlocklistAction = "flag"
	ActionReview BlocklistAction = "review"
)

// ModerationResult 单次文本审核的完整结果
type ModerationResult struct {
	Decision            Decision               `json:"decision"`
	Confidence          float64                `json:"confidence"` // 0-100
	SuggestedCategoryID *int                   `json:"suggested_category_id"`
	CategoryConfidence  float64                `json:"category_confidence"`
	IsSafe              bool                   `json:"is_safe"`
	DetectedIssues      map[string]interface{} `json:"detected_issues"`
	BlockedKeywords     string                 `json:"blocked_keywords"`
	MatchedKeywords     string                 `json:"matched_keywords"`
	Reason              string                 `json:"reason"`
	NeedsManualReview   bool                   `json:"needs_manual_review"`
	ProcessingTimeMs    int                    `json:"processing_time_ms"`
}

// SafetyResult 内容安全检测结果
type SafetyResult struct {
	IsSafe     bool               `json:"is_safe"`
	Confidence float64            `json:"confidence"` // 0-100，与最严重问题类别分数反相关
	Issues     map[string]float64 `json:"issues"`     // 仅保留分数 > 0.1 的类别
	RawRequest []byte             `json:"-"`
	RawResponse []byte            `json:"-"`
	Err        string             `json:"error,omitempty"`
}

// ImageAnalysis 图片内容检测结果
type ImageAnalysis struct {
	IsSafe         bool               `json:"is_safe"`
	Confidence     float64            `json:"confidence"`
	Issues         []string           `json:"detected_issues"`
	SeverityScores map[string]float64 `json:"severity_scores"`
	Description    string             `json:"description"`
	Recommendation string             `json:"recommendation"`
	RawResponse    []byte             `json:"-"`
	Err            string             `json:"error,omitempty"`
}

// MediaItemResult 单个多媒体文件的审核结果
type MediaItemResult struct {
	FilePath          string   `json:"file_path"`
	MediaType         string   `json:"media_type"`
	Decision          Decision `json:"decision"`
	Confidence        float64  `json:"confidence"`
	IsSafe            bool     `json:"is_safe"`
	DetectedIssues    []string `json:"detected_issues"`
	Description       string   `json:"description"`
	Reason            string   `json:"reason"`
	NeedsManualReview bool     `json:"needs_manual_review"`
	ProcessingTimeMs  int      `json:"processing_time_ms"`
}

// MediaBatchResult 一批多媒体文件的整体审核结果
type MediaBatchResult struct {
	OverallDecision   Decision          `json:"overall_decision"`
	OverallConfidence float64           `json:"overall_confidence"`
	Results           []MediaItemResult `json:"results"`
	NeedsManualReview bool              `json:"needs_manual_review"`
	Reason            string            `json:"reason"`
}
