package admin

import (
	"strconv"

	"civic-go-admin/inout"
	"civic-go-admin/pkg/response"
	"civic-go-admin/services/admin_service"

	"github.com/gin-gonic/gin"
)

var (
	moderationService     *admin_service.ModerationService
	moderationRuleService *admin_service.ModerationRuleService
)

// InitModerationController 注入后台审核服务
func InitModerationController(m *admin_service.ModerationService, r *admin_service.ModerationRuleService) {
	moderationService = m
	moderationRuleService = r
}

// GetPendingOpinions 待人工审核意见列表
func GetPendingOpinions(c *gin.Context) {
	var req inout.PendingOpinionListReq
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, response.INVALID_PARAMS, err.Error())
		return
	}

	data, err := moderationService.GetPendingOpinions(c, req)
	if err != nil {
		response.Error(c, response.ERROR, err.Error())
		return
	}

	response.Success(c, data)
}

// ApproveOpinion 人工通过
func ApproveOpinion(c *gin.Context) {
	var req inout.ReviewOpinionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, response.INVALID_PARAMS, err.Error())
		return
	}

	uid := c.GetInt("uid")
	if err := moderationService.ApproveOpinion(c, uint(uid), req); err != nil {
		response.Error(c, response.ERROR, err.Error())
		return
	}

	response.Success(c, nil)
}

// RejectOpinion 人工拒绝
func RejectOpinion(c *gin.Context) {
	var req inout.ReviewOpinionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, response.INVALID_PARAMS, err.Error())
		return
	}

	uid := c.GetInt("uid")
	if err := moderationService.RejectOpinion(c, uint(uid), req); err != nil {
		response.Error(c, response.ERROR, err.Error())
		return
	}

	response.Success(c, nil)
}

// MergeOpinion 合并重复意见
func MergeOpinion(c *gin.Context) {
	var req inout.MergeOpinionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, response.INVALID_PARAMS, err.Error())
		return
	}

	uid := c.GetInt("uid")
	if err := moderationService.MergeOpinion(c, uint(uid), req); err != nil {
		response.Error(c, response.ERROR, err.Error())
		return
	}

	response.Success(c, nil)
}

// UpdateOpinionCategory 调整意见分类
func UpdateOpinionCategory(c *gin.Context) {
	var req inout.UpdateOpinionCategoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, response.INVALID_PARAMS, err.Error())
		return
	}

	uid := c.GetInt("uid")
	if err := moderationService.UpdateOpinionCategory(c, uint(uid), req); err != nil {
		response.Error(c, response.ERROR, err.Error())
		return
	}

	response.Success(c, nil)
}

// GetModerationStats 审核统计
func GetModerationStats(c *gin.Context) {
	data, err := moderationService.GetModerationStats(c)
	if err != nil {
		response.Error(c, response.ERROR, err.Error())
		return
	}

	response.Success(c, data)
}

// GetModerationLogs 审核日志列表
func GetModerationLogs(c *gin.Context) {
	var req inout.ModerationLogListReq
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, response.INVALID_PARAMS, err.Error())
		return
	}

	data, err := moderationService.GetModerationLogs(c, req)
	if err != nil {
		response.Error(c, response.ERROR, err.Error())
		return
	}

	response.Success(c, data)
}

// GetSensitiveWords 敏感词列表
func GetSensitiveWords(c *gin.Context) {
	words, err := moderationRuleService.GetSensitiveWords(c)
	if err != nil {
		response.Error(c, response.ERROR, err.Error())
		return
	}

	response.Success(c, words)
}

// CreateSensitiveWord 新增敏感词
func CreateSensitiveWord(c *gin.Context) {
	var req inout.CreateSensitiveWordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, response.INVALID_PARAMS, err.Error())
		return
	}

	word, err := moderationRuleService.CreateSensitiveWord(c, req)
	if err != nil {
		response.Error(c, response.ERROR, err.Error())
		return
	}

	response.Success(c, word)
}

// UpdateSensitiveWord 更新敏感词
func UpdateSensitiveWord(c *gin.Context) {
	var req inout.UpdateSensitiveWordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, response.INVALID_PARAMS, err.Error())
		return
	}

	if err := moderationRuleService.UpdateSensitiveWord(c, req); err != nil {
		response.Error(c, response.ERROR, err.Error())
		return
	}

	response.Success(c, nil)
}

// DeleteSensitiveWord 删除敏感词
func DeleteSensitiveWord(c *gin.Context) {
	var req inout.DeleteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, response.INVALID_PARAMS, err.Error())
		return
	}

	if err := moderationRuleService.DeleteSensitiveWord(c, req.ID); err != nil {
		response.Error(c, response.ERROR, err.Error())
		return
	}

	response.Success(c, nil)
}

// GetCategoryKeywords 分类关键词列表
func GetCategoryKeywords(c *gin.Context) {
	categoryID, _ := strconv.Atoi(c.Query("category_id"))

	keywords, err := moderationRuleService.GetCategoryKeywords(c, categoryID)
	if err != nil {
		response.Error(c, response.ERROR, err.Error())
		return
	}

	response.Success(c, keywords)
}

// CreateCategoryKeyword 新增分类关键词
func CreateCategoryKeyword(c *gin.Context) {
	var req inout.CreateCategoryKeywordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, response.INVALID_PARAMS, err.Error())
		return
	}

	keyword, err := moderationRuleService.CreateCategoryKeyword(c, req)
	if err != nil {
		response.Error(c, response.ERROR, err.Error())
		return
	}

	response.Success(c, keyword)
}

// UpdateCategoryKeyword 更新分类关键词
func UpdateCategoryKeyword(c *gin.Context) {
	var req inout.UpdateCategoryKeywordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, response.INVALID_PARAMS, err.Error())
		return
	}

	if err := moderationRuleService.UpdateCategoryKeyword(c, req); err != nil {
		response.Error(c, response.ERROR, err.Error())
		return
	}

	response.Success(c, nil)
}

// DeleteCategoryKeyword 删除分类关键词
func DeleteCategoryKeyword(c *gin.Context) {
	var req inout.DeleteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, response.INVALID_PARAMS, err.Error())
		return
	}

	if err := moderationRuleService.DeleteCategoryKeyword(c, req.ID); err != nil {
		response.Error(c, response.ERROR, err.Error())
		return
	}

	response.Success(c, nil)
}

// GetModerationConfigs 审核配置列表
func GetModerationConfigs(c *gin.Context) {
	configs, err := moderationRuleService.GetModerationConfigs(c)
	if err != nil {
		response.Error(c, response.ERROR, err.Error())
		return
	}

	response.Success(c, configs)
}

// UpdateModerationConfig 更新审核配置
func UpdateModerationConfig(c *gin.Context) {
	var req inout.UpdateModerationConfigReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, response.INVALID_PARAMS, err.Error())
		return
	}

	if err := moderationRuleService.UpdateModerationConfig(c, req); err != nil {
		response.Error(c, response.ERROR, err.Error())
		return
	}

	response.Success(c, nil)
}
