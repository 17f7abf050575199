package router

import (
	"civic-go-admin/controllers/admin"
	"civic-go-admin/controllers/app"
	"civic-go-admin/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Init 注册全部路由
func Init(r *gin.Engine) {
	r.Use(middleware.Cors())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// 市民端接口
	apiAppGroup := r.Group("/api/app")
	{
		// 无需登录
		apiAppGroup.GET("/opinions", app.GetOpinionList)
		apiAppGroup.GET("/categories", app.GetCategories)

		// 需要登录
		authed := apiAppGroup.Group("")
		authed.Use(middleware.Jwt())
		{
			authed.POST("/opinion", app.CreateOpinion)
			authed.GET("/opinion/:id", app.GetOpinionDetail)
			authed.GET("/opinions/mine", app.GetMyOpinions)
		}
	}

	// 管理端接口
	apiAdminGroup := r.Group("/api/admin")
	apiAdminGroup.Use(middleware.Jwt())
	{
		// 人工审核
		apiAdminGroup.GET("/moderation/pending", admin.GetPendingOpinions)
		apiAdminGroup.POST("/moderation/approve", admin.ApproveOpinion)
		apiAdminGroup.POST("/moderation/reject", admin.RejectOpinion)
		apiAdminGroup.POST("/moderation/merge", admin.MergeOpinion)
		apiAdminGroup.POST("/moderation/category", admin.UpdateOpinionCategory)
		apiAdminGroup.GET("/moderation/stats", admin.GetModerationStats)
		apiAdminGroup.GET("/moderation/logs", admin.GetModerationLogs)

		// 敏感词管理
		apiAdminGroup.GET("/moderation/sensitive-words", admin.GetSensitiveWords)
		apiAdminGroup.POST("/moderation/sensitive-word", admin.CreateSensitiveWord)
		apiAdminGroup.PATCH("/moderation/sensitive-word", admin.UpdateSensitiveWord)
		apiAdminGroup.DELETE("/moderation/sensitive-word", admin.DeleteSensitiveWord)

		// 分类关键词管理
		apiAdminGroup.GET("/moderation/category-keywords", admin.GetCategoryKeywords)
		apiAdminGroup.POST("/moderation/category-keyword", admin.CreateCategoryKeyword)
		apiAdminGroup.PATCH("/moderation/category-keyword", admin.UpdateCategoryKeyword)
		apiAdminGroup.DELETE("/moderation/category-keyword", admin.DeleteCategoryKeyword)

		// 审核配置管理
		apiAdminGroup.GET("/moderation/configs", admin.GetModerationConfigs)
		apiAdminGroup.POST("/moderation/config", admin.UpdateModerationConfig)
	}
}
