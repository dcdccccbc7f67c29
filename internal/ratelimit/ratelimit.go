package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter answers whether a caller may proceed inside the current fixed
// window. Implementations are injected so a single-instance in-memory
// limiter can be swapped for the shared Redis one without touching
// callers.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RedisLimiter counts requests per key in a fixed window shared across
// instances.
type RedisLimiter struct {
	client *redis.Client
	window time.Duration
	max    int
}

func NewRedisLimiter(client *redis.Client, window time.Duration, max int) *RedisLimiter {
	return &RedisLimiter{client: client, window: window, max: max}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := fmt.Sprintf("ratelimit:%s", key)

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, fmt.Errorf("incr: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return false, fmt.Errorf("expire: %w", err)
		}
	}
	return count <= int64(l.max), nil
}

type windowRecord struct {
	count   int
	resetAt time.Time
}

// MemoryLimiter is the single-process fallback. Expired windows reset
// lazily on the next request for that key.
type MemoryLimiter struct {
	mu      sync.Mutex
	records map[string]windowRecord
	window  time.Duration
	max     int
	now     func() time.Time
}

func NewMemoryLimiter(window time.Duration, max int) *MemoryLimiter {
	return &MemoryLimiter{
		records: make(map[string]windowRecord),
		window:  window,
		max:     max,
		now:     time.Now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	record, ok := l.records[key]
	if !ok || now.After(record.resetAt) {
		l.records[key] = windowRecord{count: 1, resetAt: now.Add(l.window)}
		return true, nil
	}

	if record.count >= l.max {
		return false, nil
	}

	record.count++
	l.records[key] = record
	return true, nil
}
