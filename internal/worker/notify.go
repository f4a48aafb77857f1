package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"jobLobby/internal/tasks"
)

// 统一的 WebSocket 消息协议（通过 Redis Pub/Sub 转发给前端）。
// 注意：这里的字段名与前端解析保持一致。
type ApplicationNotifyMessage struct {
	Type          string    `json:"type"`
	Event         string    `json:"event"`
	ApplicationID uint      `json:"application_id"`
	JobID         uint      `json:"job_id"`
	JobTitle      string    `json:"job_title,omitempty"`
	Status        string    `json:"status,omitempty"`
	CorrelationID string    `json:"correlation_id,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// NotifyChannel is the Redis channel a user's websocket session listens on.
func NotifyChannel(userID uint) string {
	return fmt.Sprintf("user_notify:%d", userID)
}

type redisPublisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// ApplicationEventHandler 消费申请事件并推送给接收方。
type ApplicationEventHandler struct {
	redis  redisPublisher
	logger *slog.Logger
}

func NewApplicationEventHandler(client redisPublisher, logger *slog.Logger) *ApplicationEventHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ApplicationEventHandler{redis: client, logger: logger}
}

// ProcessTask 实现 asynq.Handler。
func (h *ApplicationEventHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	payload, err := tasks.ParseApplicationEvent(t)
	if err != nil {
		h.logger.Error("unmarshal task payload failed", slog.Any("error", err))
		return fmt.Errorf("decode application event: %v: %w", err, asynq.SkipRetry)
	}

	log := h.logger.With(
		slog.String("correlation_id", payload.CorrelationID),
		slog.String("event", payload.Event),
		slog.Uint64("application_id", uint64(payload.ApplicationID)),
	)
	if payload.RecipientID == 0 {
		log.Warn("application event without recipient, skipping")
		return nil
	}

	data, err := json.Marshal(ApplicationNotifyMessage{
		Type:          "application",
		Event:         payload.Event,
		ApplicationID: payload.ApplicationID,
		JobID:         payload.JobID,
		JobTitle:      payload.JobTitle,
		Status:        payload.Status,
		CorrelationID: payload.CorrelationID,
		OccurredAt:    payload.OccurredAt,
	})
	if err != nil {
		return fmt.Errorf("marshal notification payload: %w", err)
	}

	channel := NotifyChannel(payload.RecipientID)
	if err := h.redis.Publish(ctx, channel, data).Err(); err != nil {
		log.Error("publish redis notification failed", slog.Any("error", err))
		return fmt.Errorf("publish redis notification to %q: %w", channel, err)
	}

	log.Info("application event delivered", slog.String("channel", channel))
	return nil
}
