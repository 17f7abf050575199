package middleware

import (
	"civic-go-admin/pkg/jwt"
	"civic-go-admin/pkg/response"

	"github.com/gin-gonic/gin"
)

// Jwt 管理端鉴权中间件，检查token
func Jwt() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Request.Header.Get("Authorization")
		if token == "" {
			response.Error(c, response.AUTH_ERROR, "请求未携带token，无权限访问")
			c.Abort()
			return
		}
		// 去掉Bearer前缀
		if len(token) > 7 && token[:7] == "Bearer " {
			token = token[7:]
		}

		claims, err := jwt.ParseAdminToken(token)
		if err != nil {
			if err == jwt.ErrTokenExpired {
				response.Error(c, response.AUTH_ERROR, "授权已过期")
				c.Abort()
				return
			}
			response.Error(c, response.AUTH_ERROR, err.Error())
			c.Abort()
			return
		}

		// 继续交由下一个路由处理，并将解析出的信息传递下去
		c.Set("uid", claims.UID)
		c.Set("rid", claims.RID)
		c.Set("type", claims.TYPE)
		c.Next()
	}
}
