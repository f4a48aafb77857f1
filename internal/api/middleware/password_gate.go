package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const passwordChangeRequiredMessage = "password change required"

// RequirePasswordChangeCompletedMiddleware 阻止未完成改密的账号访问业务接口。
// 读取 AuthMiddleware 写入的 must_change_password 标记；个人资料读写接口不挂此中间件。
func RequirePasswordChangeCompletedMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if mustChange, ok := c.Get(mustChangePasswordKey); ok {
			if flagged, _ := mustChange.(bool); flagged {
				abortWith(c, http.StatusForbidden, passwordChangeRequiredMessage)
				return
			}
		}
		c.Next()
	}
}
