package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobLobby/internal/tasks"
)

type published struct {
	channel string
	body    []byte
}

type fakeRedis struct {
	sent []published
	err  error
}

func (f *fakeRedis) Publish(_ context.Context, channel string, message interface{}) *redis.IntCmd {
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	f.sent = append(f.sent, published{channel: channel, body: message.([]byte)})
	return redis.NewIntResult(1, nil)
}

func TestApplicationEventHandlerPublishesToRecipient(t *testing.T) {
	rdb := &fakeRedis{}
	h := NewApplicationEventHandler(rdb, nil)

	task, err := tasks.NewApplicationEventTask(tasks.ApplicationEventPayload{
		Event:         tasks.EventStatusChanged,
		ApplicationID: 5,
		JobID:         2,
		JobTitle:      "Backend Engineer",
		RecipientID:   11,
		Status:        "interview",
	})
	require.NoError(t, err)

	require.NoError(t, h.ProcessTask(context.Background(), task))
	require.Len(t, rdb.sent, 1)
	assert.Equal(t, "user_notify:11", rdb.sent[0].channel)

	var msg ApplicationNotifyMessage
	require.NoError(t, json.Unmarshal(rdb.sent[0].body, &msg))
	assert.Equal(t, "application", msg.Type)
	assert.Equal(t, "interview", msg.Status)
	assert.EqualValues(t, 5, msg.ApplicationID)
}

func TestApplicationEventHandlerSkipsBadPayload(t *testing.T) {
	h := NewApplicationEventHandler(&fakeRedis{}, nil)

	err := h.ProcessTask(context.Background(), asynq.NewTask(tasks.TypeApplicationEvent, []byte("{")))
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}

func TestApplicationEventHandlerRetriesOnRedisFailure(t *testing.T) {
	h := NewApplicationEventHandler(&fakeRedis{err: errors.New("down")}, nil)
	task, err := tasks.NewApplicationEventTask(tasks.ApplicationEventPayload{Event: tasks.EventApplied, RecipientID: 1})
	require.NoError(t, err)

	err = h.ProcessTask(context.Background(), task)
	require.Error(t, err)
	assert.False(t, errors.Is(err, asynq.SkipRetry))
}
