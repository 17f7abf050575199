package app_service

import (
	"errors"
	"log"

	"civic-go-admin/db"
	"civic-go-admin/inout"
	"civic-go-admin/model/app_model"
	"civic-go-admin/services/moderation_service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// OpinionService 意见相关业务
type OpinionService struct {
	orchestrator *moderation_service.ModerationOrchestrator
}

// NewOpinionService 创建意见服务
func NewOpinionService(orchestrator *moderation_service.ModerationOrchestrator) *OpinionService {
	return &OpinionService{orchestrator: orchestrator}
}

// OpinionListItem 列表项响应
type OpinionListItem struct {
	ID         uint     `json:"id"`
	Title      string   `json:"title"`
	CategoryID *int     `json:"category_id"`
	Region     string   `json:"region"`
	Status     string   `json:"status"`
	Tags       []string `json:"tags"`
	CreatedAt  string   `json:"created_at"`
}

// CreateOpinion 提交意见
// 意见与附件先落库（状态pending），随后异步触发自动审核，接口立即返回。
func (s *OpinionService) CreateOpinion(c *gin.Context, uid uint, params inout.CreateOpinionReq) (*app_model.Opinion, error) {
	isPublic := true
	if params.IsPublic != nil {
		isPublic = *params.IsPublic
	}

	opinion := app_model.Opinion{
		UserID:     uid,
		Title:      params.Title,
		Content:    params.Content,
		CategoryID: params.CategoryID,
		Region:     params.Region,
		Status:     app_model.OpinionStatusPending,
		IsPublic:   isPublic,
		Tags:       params.Tags,
	}

	for _, m := range params.Media {
		opinion.Media = append(opinion.Media, app_model.OpinionMedia{
			MediaType: app_model.MediaType(m.MediaType),
			FilePath:  m.FilePath,
			FileSize:  m.FileSize,
			Filename:  m.Filename,
			MimeType:  m.MimeType,
		})
	}

	if err := db.Dao.Create(&opinion).Error; err != nil {
		return nil, err
	}

	log.Printf("[意见] 用户 %d 提交意见 %d，进入自动审核", uid, opinion.ID)

	// 异步审核，不阻塞当前请求
	s.orchestrator.Schedule(opinion.ID, opinion.Title, opinion.Content, opinion.Media, opinion.CategoryID)

	return &opinion, nil
}

// GetOpinionList 公开意见列表，仅返回已通过的公开意见
func (s *OpinionService) GetOpinionList(c *gin.Context, params inout.OpinionListReq) (gin.H, error) {
	page := params.Page
	if page < 1 {
		page = 1
	}
	pageSize := params.PageSize
	if pageSize < 1 {
		pageSize = 10
	}

	query := db.Dao.Model(&app_model.Opinion{}).
		Where("is_public = ?", true).
		Where("status = ?", app_model.OpinionStatusApproved)

	if params.CategoryID > 0 {
		query = query.Where("category_id = ?", params.CategoryID)
	}
	if params.Keyword != "" {
		like := "%" + params.Keyword + "%"
		query = query.Where("title LIKE ? OR content LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var opinions []app_model.Opinion
	err := query.Order("id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&opinions).Error
	if err != nil {
		return nil, err
	}

	items := make([]OpinionListItem, 0, len(opinions))
	for _, o := range opinions {
		items = append(items, OpinionListItem{
			ID:         o.ID,
			Title:      o.Title,
			CategoryID: o.CategoryID,
			Region:     o.Region,
			Status:     string(o.Status),
			Tags:       o.Tags,
			CreatedAt:  o.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	return gin.H{
		"total":     total,
		"page":      page,
		"page_size": pageSize,
		"items":     items,
	}, nil
}

// GetOpinionDetail 意见详情
// 提交人可查看自己的任意状态意见，其他用户只能查看已通过的公开意见。
func (s *OpinionService) GetOpinionDetail(c *gin.Context, uid uint, id uint) (*app_model.Opinion, error) {
	var opinion app_model.Opinion
	err := db.Dao.Preload("Media").First(&opinion, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("意见不存在")
		}
		return nil, err
	}

	if opinion.UserID != uid {
		if !opinion.IsPublic || opinion.Status != app_model.OpinionStatusApproved {
			return nil, errors.New("无权查看该意见")
		}
	}

	return &opinion, nil
}

// GetMyOpinions 当前用户提交的意见列表
func (s *OpinionService) GetMyOpinions(c *gin.Context, uid uint, params inout.OpinionListReq) (gin.H, error) {
	page := params.Page
	if page < 1 {
		page = 1
	}
	pageSize := params.PageSize
	if pageSize < 1 {
		pageSize = 10
	}

	query := db.Dao.Model(&app_model.Opinion{}).Where("user_id = ?", uid)
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var opinions []app_model.Opinion
	err := query.Order("id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&opinions).Error
	if err != nil {
		return nil, err
	}

	items := make([]OpinionListItem, 0, len(opinions))
	for _, o := range opinions {
		items = append(items, OpinionListItem{
			ID:         o.ID,
			Title:      o.Title,
			CategoryID: o.CategoryID,
			Region:     o.Region,
			Status:     string(o.Status),
			Tags:       o.Tags,
			CreatedAt:  o.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	return gin.H{
		"total":     total,
		"page":      page,
		"page_size": pageSize,
		"items":     items,
	}, nil
}

// GetCategories 意见分类列表
func (s *OpinionService) GetCategories(c *gin.Context) ([]app_model.Category, error) {
	var categories []app_model.Category
	err := db.Dao.Order("id ASC").Find(&categories).Error
	return categories, err
}
