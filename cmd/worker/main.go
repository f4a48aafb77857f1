package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"jobLobby/internal/config"
	"jobLobby/internal/metrics"
	"jobLobby/internal/tasks"
	"jobLobby/internal/worker"
)

func main() {
	cfg := config.MustLoad()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

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

	server := asynq.NewServer(asynq.RedisClientOpt{Addr: redisAddr}, asynq.Config{
		Concurrency: 10,
		Logger:      newAsynqLogger(logger),
	})

	mux := asynq.NewServeMux()
	mux.Use(metrics.AsynqMetricsMiddleware())
	mux.Handle(tasks.TypeApplicationEvent, worker.NewApplicationEventHandler(redisClient, logger))

	logger.Info("worker service started", slog.String("redis_addr", redisAddr))
	if err := server.Run(mux); err != nil {
		logger.Error("worker server stopped", slog.Any("error", err))
	}
}

// asynqLogger 把 asynq 内部日志接入 slog。
type asynqLogger struct {
	l *slog.Logger
}

func newAsynqLogger(l *slog.Logger) *asynqLogger {
	return &asynqLogger{l: l.With(slog.String("component", "asynq"))}
}

func (a *asynqLogger) Debug(args ...interface{}) { a.l.Debug(sprint(args)) }
func (a *asynqLogger) Info(args ...interface{})  { a.l.Info(sprint(args)) }
func (a *asynqLogger) Warn(args ...interface{})  { a.l.Warn(sprint(args)) }
func (a *asynqLogger) Error(args ...interface{}) { a.l.Error(sprint(args)) }
func (a *asynqLogger) Fatal(args ...interface{}) {
	a.l.Error(sprint(args))
	os.Exit(1)
}

func sprint(args []interface{}) string { return fmt.Sprint(args...) }
