package middleware

import (
	"Marketplace/jwt"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	memberIDKey = "MemberID"
	roleKey     = "Role"
)

func AuthMiddleware(verifier *jwt.Verifier, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		token := strings.TrimPrefix(authHeader, "Bearer ")

		if token == "" {
			c.Next()
			return
		}

		//如Token不合法或錯誤則視為未登入
		memberID, role, err := verifier.Verify(token)
		if err != nil {
			log.Info("無法驗證Token", zap.String("request_id", c.GetString(requestIDKey)), zap.Error(err))
			c.Next()
			return
		}

		c.Set(memberIDKey, memberID)
		c.Set(roleKey, role)
		c.Next()
	}
}

// MemberID 取得已驗證的會員ID
func MemberID(c *gin.Context) (uint, bool) {
	v, exists := c.Get(memberIDKey)
	if !exists {
		return 0, false
	}
	memberID, ok := v.(uint)
	return memberID, ok
}
