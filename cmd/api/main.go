package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"jobLobby/internal/api"
	"jobLobby/internal/applications"
	"jobLobby/internal/auth"
	"jobLobby/internal/config"
	"jobLobby/internal/database"
	"jobLobby/internal/jobs"
	"jobLobby/internal/storage"
	"jobLobby/internal/users"
)

func main() {
	cfg := config.MustLoad()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	logger.Info("api bootstrapping",
		slog.String("db_host", cfg.Database.Host),
		slog.Int("db_port", cfg.Database.Port),
		slog.String("db_name", cfg.Database.Name),
	)

	db, err := database.InitDatabase(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	logger.Info("database ready")

	redisAddr := cfg.Redis.Addr()
	redisClient := redis.NewClient(&redis.Options{Addr: redisAddr})
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error("close redis client failed", slog.Any("error", err))
		}
	}()
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("ping redis: %v", err)
	}

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr})
	defer asynqClient.Close()

	storageClient, err := storage.NewClient(cfg.MinIO)
	if err != nil {
		log.Fatalf("init storage client: %v", err)
	}
	logger.Info("storage client ready", slog.String("bucket", cfg.MinIO.Bucket))

	authService, err := auth.NewAuthService([]byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL)
	if err != nil {
		log.Fatalf("init auth service: %v", err)
	}

	loginGuard := users.NewRedisLoginGuard(
		redisClient,
		cfg.Auth.LoginRateLimitPerHour,
		cfg.Auth.LoginLockThreshold,
		cfg.Auth.LoginLockTTL,
	)

	userStore := users.NewGormStore(db)
	jobStore := jobs.NewGormStore(db)
	publisher := applications.NewQueuePublisher(asynqClient, logger)

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("unwrap db: %v", err)
	}

	router := api.NewRouter(cfg.API, logger, map[string]api.HealthCheck{
		"database": sqlDB.PingContext,
		"redis":    func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		"storage":  storageClient.Ping,
	})
	api.RegisterRoutes(router, api.Dependencies{
		Auth:           authService,
		UserLoader:     userStore,
		Users:          users.NewService(userStore, authService, loginGuard),
		Jobs:           jobs.NewService(jobStore),
		Applications:   applications.NewService(applications.NewGormStore(db), jobStore, publisher, storageClient),
		Storage:        storageClient,
		Scanner:        api.NewClamdScanner(cfg.Clamd.Addr),
		Notify:         api.NewRedisNotifySource(redisClient),
		Logger:         logger,
		AllowedOrigins: cfg.API.AllowedOrigins(),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.API.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("api listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("api server stopped", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down api")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.Any("error", err))
	}
}
