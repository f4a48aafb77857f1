package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"jobLobby/internal/api/middleware"
	"jobLobby/internal/errcode"
)

func Error(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"message": msg})
}

func BadRequest(c *gin.Context, msg string) { Error(c, http.StatusBadRequest, msg) }
func Internal(c *gin.Context, msg string)   { Error(c, http.StatusInternalServerError, msg) }

func Message(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"message": msg})
}

// respondError 将业务错误映射为 HTTP 响应；内部错误只记录日志，不向客户端暴露原因。
func respondError(c *gin.Context, err error) {
	e := errcode.As(err)
	status := errcode.Status(e.Kind)
	log := middleware.LoggerFromContext(c)

	switch {
	case status >= http.StatusInternalServerError:
		log.Error(e.Message, slog.Any("error", e.Err))
	case e.Kind == errcode.RateLimited:
		log.Warn("request throttled", slog.String("reason", e.Message))
	}

	Error(c, status, e.Message)
}
