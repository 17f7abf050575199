package middleware

import (
	"fmt"
	"log"
	"runtime/debug"

	"civic-go-admin/pkg/response"

	"github.com/gin-gonic/gin"
)

// Recovery 自定义恢复中间件
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		err := fmt.Sprintf("panic recovered: %v", recovered)
		stack := string(debug.Stack())

		log.Printf("[PANIC RECOVERY] %s\n%s", err, stack)

		// 根据环境返回不同的错误信息
		if gin.Mode() == gin.DebugMode {
			response.ErrorWithData(c, response.INTERNAL_ERROR, gin.H{
				"panic": recovered,
				"stack": stack,
			}, "服务器内部错误")
		} else {
			response.Error(c, response.INTERNAL_ERROR, "服务器内部错误")
		}
	})
}

// ErrorHandler 统一错误处理中间件
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last()
			log.Printf("[ERROR] %s %s - %v", c.Request.Method, c.Request.URL.Path, err.Err)

			if !c.Writer.Written() {
				response.Error(c, response.INTERNAL_ERROR, err.Error())
			}
		}
	}
}
