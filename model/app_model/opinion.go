package app_model

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// OpinionStatus 意见状态
type OpinionStatus string

const (
	OpinionStatusDraft    OpinionStatus = "draft"    // 草稿
	OpinionStatusPending  OpinionStatus = "pending"  // 待审核
	OpinionStatusApproved OpinionStatus = "approved" // 已通过
	OpinionStatusRejected OpinionStatus = "rejected" // 已拒绝
	OpinionStatusResolved OpinionStatus = "resolved" // 已处理
	OpinionStatusMerged   OpinionStatus = "merged"   // 已合并
)

// MediaType 多媒体类型
type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
	MediaTypeAudio MediaType = "audio"
)

// StringArray 字符串数组类型，JSON列存储
type StringArray []string

// Value 实现 driver.Valuer 接口
func (a StringArray) Value() (driver.Value, error) {
	return json.Marshal(a)
}

// Scan 实现 sql.Scanner 接口
func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = StringArray{}
		return nil
	}
	return json.Unmarshal(value.([]byte), a)
}

// Opinion 市民意见
type Opinion struct {
	ID         uint          `json:"id" gorm:"primarykey"`
	UserID     uint          `json:"user_id" gorm:"not null;index"`        // 提交用户ID
	Title      string        `json:"title" gorm:"size:200;not null"`       // 标题
	Content    string        `json:"content" gorm:"type:text;not null"`    // 内容
	CategoryID *int          `json:"category_id" gorm:"index"`             // 分类ID
	Region     string        `json:"region" gorm:"size:100"`               // 区域
	Status     OpinionStatus `json:"status" gorm:"size:20;default:pending;index"` // 状态
	IsPublic   bool          `json:"is_public" gorm:"default:true"`        // 是否公开
	Tags       StringArray   `json:"tags" gorm:"type:json"`                // 标签
	MergedToID *uint         `json:"merged_to_id"`                         // 合并目标意见ID

	// 自动审核结果字段，仅由审核任务写入一次
	AutoModerationStatus string  `json:"auto_moderation_status" gorm:"size:20"` // approved/rejected/flagged/pending
	AutoModerationScore  float64 `json:"auto_moderation_score"`                 // 综合信心度
	AutoCategoryID       *int    `json:"auto_category_id"`                      // 建议分类
	ModerationReason     string  `json:"moderation_reason" gorm:"size:500"`     // 审核说明
	NeedsManualReview    bool    `json:"needs_manual_review" gorm:"index"`      // 是否需人工复核

	Media []OpinionMedia `json:"media" gorm:"foreignKey:OpinionID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 指定表名
func (Opinion) TableName() string {
	return "opinions"
}

// OpinionMedia 意见附件
type OpinionMedia struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	OpinionID uint      `json:"opinion_id" gorm:"not null;index"`
	MediaType MediaType `json:"media_type" gorm:"size:10;not null"` // image/video/audio
	FilePath  string    `json:"file_path" gorm:"size:500;not null"` // 本地路径或URL
	FileSize  int64     `json:"file_size"`
	Filename  string    `json:"filename" gorm:"size:200"`
	MimeType  string    `json:"mime_type" gorm:"size:100"`
	URL       string    `json:"url" gorm:"size:500"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName 指定表名
func (OpinionMedia) TableName() string {
	return "opinion_media"
}

// Category 意见分类（局处）
type Category struct {
	ID          int       `json:"id" gorm:"primarykey"`
	Name        string    `json:"name" gorm:"size:100;not null"`
	ParentID    *int      `json:"parent_id" gorm:"index"` // 顶级分类 parent_id 为空
	Description string    `json:"description" gorm:"size:500"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName 指定表名
func (Category) TableName() string {
	return "categories"
}

// OpinionHistory 意见操作历史
type OpinionHistory struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	OpinionID uint      `json:"opinion_id" gorm:"not null;index"`
	UserID    uint      `json:"user_id"`                          // 操作人，0表示系统
	Action    string    `json:"action" gorm:"size:50;not null"`   // approved/rejected/merged/updated
	Changes   string    `json:"changes" gorm:"type:json"`         // 变更内容
	CreatedAt time.Time `json:"created_at"`
}

// TableName 指定表名
func (OpinionHistory) TableName() string {
	return "opinion_history"
}

// Notification 用户通知
type Notification struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	OpinionID uint      `json:"opinion_id"`
	Type      string    `json:"type" gorm:"size:30"` // approved/rejected/merged
	Title     string    `json:"title" gorm:"size:200"`
	Content   string    `json:"content" gorm:"size:500"`
	IsRead    bool      `json:"is_read" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName 指定表名
func (Notification) TableName() string {
	return "notifications"
}
