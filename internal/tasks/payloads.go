package tasks

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

// 任务类型常量，确保队列生产者与消费者一致。
const (
	TypeApplicationEvent = "application:event"
)

// Application event kinds.
const (
	EventApplied       = "applied"
	EventStatusChanged = "status_changed"
	EventWithdrawn     = "withdrawn"
)

// ApplicationEventPayload describes a change to an application and who should hear about it.
type ApplicationEventPayload struct {
	Event         string    `json:"event"`
	ApplicationID uint      `json:"application_id"`
	JobID         uint      `json:"job_id"`
	JobTitle      string    `json:"job_title,omitempty"`
	RecipientID   uint      `json:"recipient_id"`
	Status        string    `json:"status,omitempty"`
	CorrelationID string    `json:"correlation_id,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// NewApplicationEventTask 构造一个申请事件通知任务。
func NewApplicationEventTask(p ApplicationEventPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeApplicationEvent, payload, asynq.MaxRetry(3)), nil
}

// ParseApplicationEvent decodes a task payload.
func ParseApplicationEvent(task *asynq.Task) (ApplicationEventPayload, error) {
	var p ApplicationEventPayload
	err := json.Unmarshal(task.Payload(), &p)
	return p, err
}

type correlationKey struct{}

// ContextWithCorrelationID 把请求的 Correlation ID 挂到 context 上，入队时写进任务载荷。
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

// CorrelationIDFromContext returns the id stored by ContextWithCorrelationID, or "".
func CorrelationIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}
