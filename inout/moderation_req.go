package inout

// PendingOpinionListReq 待人工审核意见列表请求
type PendingOpinionListReq struct {
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	CategoryID int    `form:"category_id" binding:"omitempty"`
	AutoStatus string `form:"auto_status" binding:"omitempty,oneof=pending approved rejected flagged"` // 按自动审核结论过滤
}

// ReviewOpinionReq 人工审核操作请求
type ReviewOpinionReq struct {
	ID     uint   `json:"id" binding:"required"`
	Reason string `json:"reason" binding:"omitempty,max=500"` // 审核说明
}

// MergeOpinionReq 合并重复意见请求
type MergeOpinionReq struct {
	ID       uint `json:"id" binding:"required"`        // 被合并意见
	TargetID uint `json:"target_id" binding:"required"` // 合并目标意见
}

// UpdateOpinionCategoryReq 调整意见分类请求
type UpdateOpinionCategoryReq struct {
	ID         uint `json:"id" binding:"required"`
	CategoryID int  `json:"category_id" binding:"required"`
}

// ModerationLogListReq 审核日志列表请求
type ModerationLogListReq struct {
	Page      int    `form:"page" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OpinionID uint   `form:"opinion_id" binding:"omitempty"`
	Decision  string `form:"decision" binding:"omitempty,oneof=approve reject flag review"`
	Type      string `form:"type" binding:"omitempty,oneof=text image video audio"`
}

// CreateSensitiveWordReq 新增敏感词请求
type CreateSensitiveWordReq struct {
	Word     string `json:"word" binding:"required,max=100"`
	Category string `json:"category" binding:"omitempty,max=50"`
	Severity int    `json:"severity" binding:"omitempty,min=1,max=10"`
	Action   string `json:"action" binding:"required,oneof=reject flag review"`
}

// UpdateSensitiveWordReq 更新敏感词请求
type UpdateSensitiveWordReq struct {
	ID       uint   `json:"id" binding:"required"`
	Word     string `json:"word" binding:"required,max=100"`
	Category string `json:"category" binding:"omitempty,max=50"`
	Severity int    `json:"severity" binding:"omitempty,min=1,max=10"`
	Action   string `json:"action" binding:"required,oneof=reject flag review"`
	IsActive *bool  `json:"is_active" binding:"omitempty"`
}

// DeleteReq 通用删除请求
type DeleteReq struct {
	ID uint `json:"id" binding:"required"`
}

// CreateCategoryKeywordReq 新增分类关键词请求
type CreateCategoryKeywordReq struct {
	CategoryID int     `json:"category_id" binding:"required"`
	Keyword    string  `json:"keyword" binding:"required,max=100"`
	Weight     float64 `json:"weight" binding:"omitempty,min=0.1,max=10"`
}

// UpdateCategoryKeywordReq 更新分类关键词请求
type UpdateCategoryKeywordReq struct {
	ID         uint    `json:"id" binding:"required"`
	CategoryID int     `json:"category_id" binding:"required"`
	Keyword    string  `json:"keyword" binding:"required,max=100"`
	Weight     float64 `json:"weight" binding:"omitempty,min=0.1,max=10"`
	IsActive   *bool   `json:"is_active" binding:"omitempty"`
}

// UpdateModerationConfigReq 更新审核配置请求
type UpdateModerationConfigReq struct {
	ConfigKey   string `json:"config_key" binding:"required,max=100"`
	ConfigValue string `json:"config_value" binding:"required,max=200"`
}
