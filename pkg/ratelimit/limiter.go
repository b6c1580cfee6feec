package ratelimit

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Limiter decides whether the caller identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// ErrorKind is the error_kind reported in 429 bodies, alongside the reply generator's kinds.
const ErrorKind = "rate_limit"

// New picks the limiter for perMinute requests per caller: nil (no limiting) when perMinute <= 0,
// Redis-backed when client is set, in-process otherwise.
func New(perMinute int, client *redis.Client) Limiter {
	switch {
	case perMinute <= 0:
		return nil
	case client != nil:
		return NewRedisLimiter(client, perMinute)
	default:
		return NewMemoryLimiter(perMinute)
	}
}

// MemoryLimiter keeps one token bucket per key in process memory.
type MemoryLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// NewMemoryLimiter allows perMinute requests per key, refilled evenly over the minute.
func NewMemoryLimiter(perMinute int) *MemoryLimiter {
	return &MemoryLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(float64(perMinute) / 60),
		burst:    perMinute,
	}
}

func (m *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	l, ok := m.limiters[key]
	if !ok {
		l = rate.NewLimiter(m.limit, m.burst)
		m.limiters[key] = l
	}
	m.mu.Unlock()

	return l.Allow(), nil
}

// RedisLimiter is a fixed-window counter shared by every instance pointing at the same Redis.
type RedisLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
	prefix string
	now    func() time.Time
}

func NewRedisLimiter(client *redis.Client, perMinute int) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		limit:  int64(perMinute),
		window: time.Minute,
		prefix: "ratelimit:generate:",
		now:    time.Now,
	}
}

func (r *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	bucket := r.now().UnixNano() / int64(r.window)
	redisKey := r.prefix + key + ":" + strconv.FormatInt(bucket, 10)

	var incr *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		pipe.Expire(ctx, redisKey, r.window)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("rate limit counter: %w", err)
	}
	return incr.Val() <= r.limit, nil
}

// Middleware rejects requests over the limit with 429. The key is the authenticated user,
// falling back to the client IP. Limiter failures let the request through.
func Middleware(limiter Limiter, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetString("userID")
		if key == "" {
			key = "ip:" + c.ClientIP()
		}

		allowed, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			log.Warn("rate limiter unavailable", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error_kind": ErrorKind,
				"error":      "too many requests, please slow down",
			})
			return
		}
		c.Next()
	}
}
