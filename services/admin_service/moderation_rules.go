package admin_service

import (
	"errors"
	"strconv"

	"civic-go-admin/db"
	"civic-go-admin/inout"
	"civic-go-admin/model/admin_model"
	"civic-go-admin/services/moderation_service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ModerationRuleService 审核规则管理（敏感词、分类关键词、阈值配置）
// 规则变更后刷新缓存，使文本审核流水线立即读到最新规则。
type ModerationRuleService struct {
	rules *moderation_service.GormRuleRepository
}

// NewModerationRuleService 创建审核规则服务
func NewModerationRuleService(rules *moderation_service.GormRuleRepository) *ModerationRuleService {
	return &ModerationRuleService{rules: rules}
}

// GetSensitiveWords 敏感词列表
func (s *ModerationRuleService) GetSensitiveWords(c *gin.Context) ([]admin_model.SensitiveWord, error) {
	var words []admin_model.SensitiveWord
	err := db.Dao.Order("id ASC").Find(&words).Error
	return words, err
}

// CreateSensitiveWord 新增敏感词
func (s *ModerationRuleService) CreateSensitiveWord(c *gin.Context, params inout.CreateSensitiveWordReq) (*admin_model.SensitiveWord, error) {
	var count int64
	if err := db.Dao.Model(&admin_model.SensitiveWord{}).Where("word = ?", params.Word).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("敏感词已存在")
	}

	severity := params.Severity
	if severity == 0 {
		severity = 5
	}

	word := admin_model.SensitiveWord{
		Word:     params.Word,
		Category: params.Category,
		Severity: severity,
		Action:   params.Action,
		IsActive: true,
	}
	if err := db.Dao.Create(&word).Error; err != nil {
		return nil, err
	}

	s.rules.RefreshCache(c.Request.Context())
	return &word, nil
}

// UpdateSensitiveWord 更新敏感词
func (s *ModerationRuleService) UpdateSensitiveWord(c *gin.Context, params inout.UpdateSensitiveWordReq) error {
	var word admin_model.SensitiveWord
	if err := db.Dao.First(&word, params.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("敏感词不存在")
		}
		return err
	}

	updates := map[string]interface{}{
		"word":     params.Word,
		"category": params.Category,
		"action":   params.Action,
	}
	if params.Severity > 0 {
		updates["severity"] = params.Severity
	}
	if params.IsActive != nil {
		updates["is_active"] = *params.IsActive
	}

	if err := db.Dao.Model(&word).Updates(updates).Error; err != nil {
		return err
	}

	s.rules.RefreshCache(c.Request.Context())
	return nil
}

// DeleteSensitiveWord 删除敏感词
func (s *ModerationRuleService) DeleteSensitiveWord(c *gin.Context, id uint) error {
	result := db.Dao.Delete(&admin_model.SensitiveWord{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("敏感词不存在")
	}

	s.rules.RefreshCache(c.Request.Context())
	return nil
}

// GetCategoryKeywords 分类关键词列表
func (s *ModerationRuleService) GetCategoryKeywords(c *gin.Context, categoryID int) ([]admin_model.CategoryKeyword, error) {
	query := db.Dao.Model(&admin_model.CategoryKeyword{})
	if categoryID > 0 {
		query = query.Where("category_id = ?", categoryID)
	}

	var keywords []admin_model.CategoryKeyword
	err := query.Order("category_id ASC, id ASC").Find(&keywords).Error
	return keywords, err
}

// CreateCategoryKeyword 新增分类关键词
func (s *ModerationRuleService) CreateCategoryKeyword(c *gin.Context, params inout.CreateCategoryKeywordReq) (*admin_model.CategoryKeyword, error) {
	weight := params.Weight
	if weight == 0 {
		weight = 1.0
	}

	keyword := admin_model.CategoryKeyword{
		CategoryID: params.CategoryID,
		Keyword:    params.Keyword,
		Weight:     weight,
		IsActive:   true,
	}
	if err := db.Dao.Create(&keyword).Error; err != nil {
		return nil, err
	}

	s.rules.RefreshCache(c.Request.Context())
	return &keyword, nil
}

// UpdateCategoryKeyword 更新分类关键词
func (s *ModerationRuleService) UpdateCategoryKeyword(c *gin.Context, params inout.UpdateCategoryKeywordReq) error {
	var keyword admin_model.CategoryKeyword
	if err := db.Dao.First(&keyword, params.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("分类关键词不存在")
		}
		return err
	}

	updates := map[string]interface{}{
		"category_id": params.CategoryID,
		"keyword":     params.Keyword,
	}
	if params.Weight > 0 {
		updates["weight"] = params.Weight
	}
	if params.IsActive != nil {
		updates["is_active"] = *params.IsActive
	}

	if err := db.Dao.Model(&keyword).Updates(updates).Error; err != nil {
		return err
	}

	s.rules.RefreshCache(c.Request.Context())
	return nil
}

// DeleteCategoryKeyword 删除分类关键词
func (s *ModerationRuleService) DeleteCategoryKeyword(c *gin.Context, id uint) error {
	result := db.Dao.Delete(&admin_model.CategoryKeyword{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("分类关键词不存在")
	}

	s.rules.RefreshCache(c.Request.Context())
	return nil
}

// GetModerationConfigs 审核配置列表
func (s *ModerationRuleService) GetModerationConfigs(c *gin.Context) ([]admin_model.ModerationConfig, error) {
	var configs []admin_model.ModerationConfig
	err := db.Dao.Order("config_key ASC").Find(&configs).Error
	return configs, err
}

// UpdateModerationConfig 更新审核配置，不存在则创建
func (s *ModerationRuleService) UpdateModerationConfig(c *gin.Context, params inout.UpdateModerationConfigReq) error {
	if err := validateConfigValue(params.ConfigKey, params.ConfigValue); err != nil {
		return err
	}

	var config admin_model.ModerationConfig
	err := db.Dao.Where("config_key = ?", params.ConfigKey).First(&config).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return db.Dao.Create(&admin_model.ModerationConfig{
			ConfigKey:   params.ConfigKey,
			ConfigValue: params.ConfigValue,
		}).Error
	}
	if err != nil {
		return err
	}

	return db.Dao.Model(&config).Update("config_value", params.ConfigValue).Error
}

// validateConfigValue 阈值配置必须是0-100的数字
func validateConfigValue(key, value string) error {
	switch key {
	case moderation_service.ConfigKeyAutoApproveThreshold,
		moderation_service.ConfigKeyAutoRejectThreshold,
		moderation_service.ConfigKeyManualReviewThreshold:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return errors.New("阈值必须为数字")
		}
		if f < 0 || f > 100 {
			return errors.New("阈值必须在0-100之间")
		}
	}
	return nil
}
