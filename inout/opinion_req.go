package inout

// OpinionMediaReq 意见附件
type OpinionMediaReq struct {
	MediaType string `json:"media_type" binding:"required,oneof=image video audio"` // 类型
	FilePath  string `json:"file_path" binding:"required,max=500,mediapath"`        // 本地路径或URL
	FileSize  int64  `json:"file_size" binding:"omitempty"`                         // 文件大小
	Filename  string `json:"filename" binding:"omitempty,max=200"`                  // 原始文件名
	MimeType  string `json:"mime_type" binding:"omitempty,max=100"`                 // MIME类型
}

// CreateOpinionReq 提交意见请求
type CreateOpinionReq struct {
	Title      string            `json:"title" binding:"required,max=200"` // 标题
	Content    string            `json:"content" binding:"required"`       // 内容
	CategoryID *int              `json:"category_id" binding:"omitempty"`  // 分类ID，可空
	Region     string            `json:"region" binding:"omitempty,max=100"`
	IsPublic   *bool             `json:"is_public" binding:"omitempty"`
	Tags       []string          `json:"tags" binding:"omitempty,max=10"`
	Media      []OpinionMediaReq `json:"media" binding:"omitempty,max=9,dive"` // 附件，最多9个
}

// OpinionListReq 意见列表请求
type OpinionListReq struct {
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=50"`
	CategoryID int    `form:"category_id" binding:"omitempty"`
	Status     string `form:"status" binding:"omitempty,oneof=pending approved rejected resolved merged"`
	Keyword    string `form:"keyword" binding:"omitempty,max=100"`
}

// OpinionDetailReq 意见详情请求
type OpinionDetailReq struct {
	ID uint `uri:"id" binding:"required"`
}
