package api

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"jobLobby/internal/api/middleware"
	"jobLobby/internal/config"
	"jobLobby/internal/metrics"
)

const healthCheckTimeout = 2 * time.Second

// HealthCheck 探测一个外部依赖（数据库、Redis、对象存储）是否可用。
type HealthCheck func(ctx context.Context) error

// NewRouter 构建 Gin 路由引擎，挂载公共中间件与运维端点。
func NewRouter(cfg config.APIConfig, logger *slog.Logger, checks map[string]HealthCheck) *gin.Engine {
	RegisterValidators()

	router := gin.New()
	router.Use(
		middleware.CorrelationIDMiddleware(),
		middleware.SlogLoggerMiddleware(logger),
		gin.Recovery(),
		metrics.GinMiddleware(),
		middleware.CORS(cfg.AllowedOrigins()),
	)
	if cfg.RateLimitPerSecond > 0 {
		router.Use(middleware.RateLimit(middleware.NewIPRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst)))
	}

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Job Portal API is running...")
	})
	router.GET("/health", healthHandler(checks))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.NoRoute(func(c *gin.Context) {
		Error(c, http.StatusNotFound, "Not found - "+c.Request.URL.Path)
	})

	return router
}

// healthHandler 依次执行所有检查；任一失败返回 503 并列出失败项。
func healthHandler(checks map[string]HealthCheck) gin.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(c *gin.Context) {
		failed := gin.H{}
		for _, name := range names {
			ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
			err := checks[name](ctx)
			cancel()
			if err != nil {
				middleware.LoggerFromContext(c).Warn("health check failed",
					slog.String("dependency", name),
					slog.Any("error", err),
				)
				failed[name] = err.Error()
			}
		}

		if len(failed) > 0 {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "failed": failed})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
