package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"jobLobby/internal/auth"
	"jobLobby/internal/database"
)

const (
	userKey               = "currentUser"
	userIDKey             = "userID"
	mustChangePasswordKey = "mustChangePassword"
)

// UserLoader 按 ID 读取账号；每个请求都重新加载，已删除的账号立即失效。
type UserLoader interface {
	FindByID(ctx context.Context, id uint) (*database.User, error)
}

func abortWith(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"message": msg})
}

// AuthMiddleware 校验 Bearer 令牌，加载当前用户并注入上下文。
func AuthMiddleware(authService *auth.AuthService, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		parts := strings.Fields(c.GetHeader("Authorization"))
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortWith(c, http.StatusUnauthorized, "Not authorized, no token provided")
			return
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			LoggerFromContext(c).Debug("token rejected", slog.Any("error", err))
			abortWith(c, http.StatusUnauthorized, "Not authorized, token failed or expired")
			return
		}

		user, err := users.FindByID(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				abortWith(c, http.StatusUnauthorized, "Not authorized, user not found")
				return
			}
			LoggerFromContext(c).Error("load current user failed", slog.Any("error", err))
			abortWith(c, http.StatusInternalServerError, "Server error during authentication.")
			return
		}

		c.Set(userKey, user)
		c.Set(userIDKey, user.ID)
		c.Set(mustChangePasswordKey, user.MustChangePassword)
		c.Next()
	}
}

// RequireRoles 仅允许指定角色访问，必须挂在 AuthMiddleware 之后。
func RequireRoles(roles ...database.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			abortWith(c, http.StatusUnauthorized, "Not authorized, no token provided")
			return
		}
		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}
		abortWith(c, http.StatusForbidden, fmt.Sprintf("User role %s is not authorized to access this route", user.Role))
	}
}

// CurrentUser 返回 AuthMiddleware 注入的用户。
func CurrentUser(c *gin.Context) (*database.User, bool) {
	value, ok := c.Get(userKey)
	if !ok {
		return nil, false
	}
	user, ok := value.(*database.User)
	return user, ok && user != nil
}
