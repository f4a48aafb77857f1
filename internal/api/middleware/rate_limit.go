package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const visitorIdleTTL = 10 * time.Minute

// IPRateLimiter 为每个客户端 IP 维护一个令牌桶。
type IPRateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	now      func() time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewIPRateLimiter(perSecond float64, burst int) *IPRateLimiter {
	return &IPRateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(perSecond),
		burst:    burst,
		now:      time.Now,
	}
}

// Reserve reports whether ip may proceed now and, if not, how long it should wait.
func (l *IPRateLimiter) Reserve(ip string) (bool, time.Duration) {
	if l.limit <= 0 || l.burst <= 0 {
		return true, 0
	}

	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = now

	if v.limiter.AllowN(now, 1) {
		return true, 0
	}
	r := v.limiter.ReserveN(now, 1)
	wait := r.DelayFrom(now)
	r.CancelAt(now)
	return false, wait
}

// Sweep drops visitors idle for longer than visitorIdleTTL.
func (l *IPRateLimiter) Sweep() {
	cutoff := l.now().Add(-visitorIdleTTL)
	l.mu.Lock()
	defer l.mu.Unlock()
	for ip, v := range l.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(l.visitors, ip)
		}
	}
}

// RateLimit 按客户端 IP 限流，超限返回 429 与 Retry-After。
func RateLimit(limiter *IPRateLimiter) gin.HandlerFunc {
	var calls atomic.Uint64
	return func(c *gin.Context) {
		allowed, wait := limiter.Reserve(c.ClientIP())
		if calls.Add(1)%1024 == 0 {
			go limiter.Sweep()
		}
		if allowed {
			c.Next()
			return
		}

		seconds := int(math.Ceil(wait.Seconds()))
		if seconds <= 0 {
			seconds = 1
		}
		c.Header("Retry-After", strconv.Itoa(seconds))
		abortWith(c, http.StatusTooManyRequests, "Too many requests, please try again later.")
	}
}
