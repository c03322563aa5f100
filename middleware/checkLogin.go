package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// 檢查是否有登入，沒有則中止請求
func CheckLoginMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := MemberID(c); !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "尚未登入",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
