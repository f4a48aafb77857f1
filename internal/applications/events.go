package applications

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"

	"jobLobby/internal/metrics"
	"jobLobby/internal/tasks"
)

// EventPublisher announces ledger changes. Publishing never fails the request that caused it.
type EventPublisher interface {
	Publish(ctx context.Context, event tasks.ApplicationEventPayload)
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, tasks.ApplicationEventPayload) {}

// Enqueuer is the subset of *asynq.Client used for publishing.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// QueuePublisher 将申请事件投递到 Asynq，由 worker 转发到 Redis Pub/Sub。
type QueuePublisher struct {
	client Enqueuer
	logger *slog.Logger
}

func NewQueuePublisher(client Enqueuer, logger *slog.Logger) *QueuePublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &QueuePublisher{client: client, logger: logger}
}

func (p *QueuePublisher) Publish(ctx context.Context, event tasks.ApplicationEventPayload) {
	if event.CorrelationID == "" {
		event.CorrelationID = tasks.CorrelationIDFromContext(ctx)
	}
	log := p.logger.With(
		slog.String("event", event.Event),
		slog.Uint64("application_id", uint64(event.ApplicationID)),
		slog.String("correlation_id", event.CorrelationID),
	)

	task, err := tasks.NewApplicationEventTask(event)
	if err != nil {
		metrics.EventEnqueueFailed()
		log.Error("build application event task failed", slog.Any("error", err))
		return
	}
	if _, err := p.client.EnqueueContext(ctx, task); err != nil {
		metrics.EventEnqueueFailed()
		log.Warn("enqueue application event failed", slog.Any("error", err))
		return
	}
	log.Debug("application event enqueued")
}
