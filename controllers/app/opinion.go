package app

import (
	"strconv"

	"civic-go-admin/inout"
	"civic-go-admin/pkg/response"
	"civic-go-admin/services/app_service"

	"github.com/gin-gonic/gin"
)

var opinionService *app_service.OpinionService

// InitOpinionController 注入意见服务
func InitOpinionController(s *app_service.OpinionService) {
	opinionService = s
}

// CreateOpinion 提交意见
// 创建成功后立即返回pending状态，自动审核在后台异步执行
func CreateOpinion(c *gin.Context) {
	var req inout.CreateOpinionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, response.INVALID_PARAMS, err.Error())
		return
	}

	uid := c.GetInt("uid")
	if uid == 0 {
		response.Error(c, response.AUTH_ERROR, "用户未登录")
		return
	}

	opinion, err := opinionService.CreateOpinion(c, uint(uid), req)
	if err != nil {
		response.Error(c, response.ERROR, err.Error())
		return
	}

	response.Success(c, gin.H{
		"id":     opinion.ID,
		"status": opinion.Status,
	})
}

// GetOpinionList 公开意见列表
func GetOpinionList(c *gin.Context) {
	var req inout.OpinionListReq
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, response.INVALID_PARAMS, err.Error())
		return
	}

	data, err := opinionService.GetOpinionList(c, req)
	if err != nil {
		response.Error(c, response.ERROR, err.Error())
		return
	}

	response.Success(c, data)
}

// GetOpinionDetail 意见详情
func GetOpinionDetail(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.Error(c, response.INVALID_PARAMS, "无效的意见ID")
		return
	}

	uid := c.GetInt("uid")

	opinion, err := opinionService.GetOpinionDetail(c, uint(uid), uint(id))
	if err != nil {
		response.Error(c, response.NOT_FOUND, err.Error())
		return
	}

	response.Success(c, opinion)
}

// GetMyOpinions 我提交的意见列表
func GetMyOpinions(c *gin.Context) {
	var req inout.OpinionListReq
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, response.INVALID_PARAMS, err.Error())
		return
	}

	uid := c.GetInt("uid")
	if uid == 0 {
		response.Error(c, response.AUTH_ERROR, "用户未登录")
		return
	}

	data, err := opinionService.GetMyOpinions(c, uint(uid), req)
	if err != nil {
		response.Error(c, response.ERROR, err.Error())
		return
	}

	response.Success(c, data)
}

// GetCategories 意见分类列表
func GetCategories(c *gin.Context) {
	categories, err := opinionService.GetCategories(c)
	if err != nil {
		response.Error(c, response.ERROR, err.Error())
		return
	}

	response.Success(c, categories)
}
