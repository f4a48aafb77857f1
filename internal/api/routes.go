package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"jobLobby/internal/api/middleware"
	"jobLobby/internal/applications"
	"jobLobby/internal/auth"
	"jobLobby/internal/database"
	"jobLobby/internal/jobs"
	"jobLobby/internal/users"
)

// Dependencies 汇总路由需要的服务。Storage、Notify 为空时对应的简历与 WebSocket 路由不注册。
type Dependencies struct {
	Auth           *auth.AuthService
	UserLoader     middleware.UserLoader
	Users          *users.Service
	Jobs           *jobs.Service
	Applications   *applications.Service
	Storage        ResumeStorage
	Scanner        Scanner
	Notify         NotifySource
	Logger         *slog.Logger
	AllowedOrigins []string
}

// RegisterRoutes 注册 /api 下的业务路由。
func RegisterRoutes(router *gin.Engine, deps Dependencies) {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	authHandler := NewAuthHandler(deps.Users)
	jobHandler := NewJobHandler(deps.Jobs)
	applicationHandler := NewApplicationHandler(deps.Applications)

	authenticated := middleware.AuthMiddleware(deps.Auth, deps.UserLoader)
	passwordGate := middleware.RequirePasswordChangeCompletedMiddleware()
	seekerOnly := []gin.HandlerFunc{authenticated, passwordGate, middleware.RequireRoles(database.RoleJobSeeker)}
	recruiterOnly := []gin.HandlerFunc{authenticated, passwordGate, middleware.RequireRoles(database.RoleRecruiter)}

	apiGroup := router.Group("/api")

	authGroup := apiGroup.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.GET("/profile", authenticated, authHandler.GetProfile)
		authGroup.PUT("/profile", authenticated, authHandler.UpdateProfile)

		if deps.Storage != nil {
			resumeHandler := NewResumeHandler(deps.Users, deps.Storage, deps.Scanner)
			authGroup.POST("/profile/resume", append(seekerOnly, resumeHandler.Upload)...)
			authGroup.GET("/profile/resume", append(seekerOnly, resumeHandler.Link)...)
		}
	}

	jobGroup := apiGroup.Group("/jobs")
	{
		jobGroup.GET("", jobHandler.List)
		jobGroup.GET("/my-jobs", append(recruiterOnly, jobHandler.ListMine)...)
		jobGroup.GET("/:id", jobHandler.Get)
		jobGroup.POST("", append(recruiterOnly, jobHandler.Create)...)
		jobGroup.PUT("/:id", append(recruiterOnly, jobHandler.Update)...)
		jobGroup.DELETE("/:id", append(recruiterOnly, jobHandler.Delete)...)
	}

	appGroup := apiGroup.Group("/applications")
	{
		appGroup.POST("", append(seekerOnly, applicationHandler.Apply)...)
		appGroup.GET("/my-applications", append(seekerOnly, applicationHandler.ListMine)...)
		appGroup.DELETE("/:id", append(seekerOnly, applicationHandler.Withdraw)...)
		appGroup.GET("/job/:jobId", append(recruiterOnly, applicationHandler.ListForJob)...)
		appGroup.PUT("/:id/status", append(recruiterOnly, applicationHandler.UpdateStatus)...)
		appGroup.GET("/:id/resume", authenticated, passwordGate,
			middleware.RequireRoles(database.RoleJobSeeker, database.RoleRecruiter),
			applicationHandler.ResumeLink)
	}

	if deps.Notify != nil {
		wsHandler := NewWsHandler(deps.Notify, deps.Auth, deps.UserLoader, deps.Logger, deps.AllowedOrigins)
		apiGroup.GET("/ws", wsHandler.HandleConnection)
	}
}
