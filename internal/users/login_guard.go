package users

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"jobLobby/internal/errcode"
)

// LoginGuard throttles credential checks per client.
type LoginGuard interface {
	Allow(ctx context.Context, ip, email string) error
	RecordFailure(ctx context.Context, email string)
	Reset(ctx context.Context, email string)
}

// NopLoginGuard never throttles.
type NopLoginGuard struct{}

func (NopLoginGuard) Allow(context.Context, string, string) error { return nil }
func (NopLoginGuard) RecordFailure(context.Context, string)       {}
func (NopLoginGuard) Reset(context.Context, string)               {}

type redisCounter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	TTL(ctx context.Context, key string) *redis.DurationCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisLoginGuard limits attempts per IP+email per hour and locks an email after
// repeated failures. Redis errors fail open.
type RedisLoginGuard struct {
	redis         redisCounter
	limitPerHour  int
	lockThreshold int
	lockTTL       time.Duration
	now           func() time.Time
}

func NewRedisLoginGuard(client redisCounter, limitPerHour, lockThreshold int, lockTTL time.Duration) *RedisLoginGuard {
	return &RedisLoginGuard{
		redis:         client,
		limitPerHour:  limitPerHour,
		lockThreshold: lockThreshold,
		lockTTL:       lockTTL,
		now:           time.Now,
	}
}

func (g *RedisLoginGuard) Allow(ctx context.Context, ip, email string) error {
	email = strings.ToLower(email)

	if g.limitPerHour > 0 {
		rateKey := "rate:login:" + ip + ":" + email + ":" + g.now().UTC().Format("2006010215")
		count, err := incrWithTTL(ctx, g.redis, rateKey, time.Hour)
		if err == nil && count > int64(g.limitPerHour) {
			return errcode.New(errcode.RateLimited, "rate limit exceeded")
		}
	}

	if ttl, err := g.redis.TTL(ctx, lockKey(email)).Result(); err == nil && ttl > 0 {
		return errcode.New(errcode.RateLimited, "account temporarily locked")
	}
	return nil
}

func (g *RedisLoginGuard) RecordFailure(ctx context.Context, email string) {
	if g.lockThreshold <= 0 {
		return
	}
	email = strings.ToLower(email)
	count, err := incrWithTTL(ctx, g.redis, failKey(email), g.lockTTL)
	if err != nil {
		return
	}
	if count >= int64(g.lockThreshold) {
		_ = g.redis.Set(ctx, lockKey(email), "1", g.lockTTL).Err()
	}
}

func (g *RedisLoginGuard) Reset(ctx context.Context, email string) {
	_ = g.redis.Del(ctx, failKey(strings.ToLower(email))).Err()
}

func lockKey(email string) string { return "lock:login:" + email }
func failKey(email string) string { return "lock:login:fail:" + email }

func incrWithTTL(ctx context.Context, client redisCounter, key string, ttl time.Duration) (int64, error) {
	count, err := client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		_ = client.Expire(ctx, key, ttl).Err()
	}
	return count, nil
}
