package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// 上下文键
const (
	ContextUserId   = "userId"
	ContextEmail    = "userEmail"
	ContextUsername = "username"
)

// JWTAuth 校验 Bearer 令牌并把用户信息写入上下文
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "authorization token is required",
			})
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "invalid or expired token",
			})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "invalid or expired token",
			})
			return
		}

		userId, _ := claims["id"].(string)
		if userId == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "invalid or expired token",
			})
			return
		}

		c.Set(ContextUserId, userId)
		if email, ok := claims["email"].(string); ok {
			c.Set(ContextEmail, email)
		}
		if username, ok := claims["username"].(string); ok {
			c.Set(ContextUsername, username)
		}

		c.Next()
	}
}

// CurrentUserId 读取上下文中的用户 ID
func CurrentUserId(c *gin.Context) string {
	return c.GetString(ContextUserId)
}
