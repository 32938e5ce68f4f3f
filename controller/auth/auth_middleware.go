package auth

import (
	"net/http"
	"strings"

	"snapnova/service/token_service"

	"github.com/gin-gonic/gin"
)

const contextUserID = "userId"

// AuthMiddleware 校验 Bearer 访问令牌，把用户ID放进请求上下文。
// 过期/无效一律 401，由客户端的刷新协调器接手。
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Access token required",
			})
			return
		}

		userID, err := token_service.ParseAccessToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Invalid or expired token",
			})
			return
		}

		c.Set(contextUserID, userID)
		c.Next()
	}
}

// UserID 取出中间件写入的当前用户ID
func UserID(c *gin.Context) string {
	return c.GetString(contextUserID)
}

// BearerToken 从请求头取原始令牌（登出路径用，可能已过期）
func BearerToken(c *gin.Context) string {
	token, _ := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	return token
}
