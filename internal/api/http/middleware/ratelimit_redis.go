package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var _ Limiter = (*RedisLimiter)(nil)

// RedisLimiter is a fixed-window limiter shared across instances. Each key
// counts within a bucket that expires with the window.
type RedisLimiter struct {
	client *redis.Client
}

// NewRedisLimiter creates a limiter backed by the given client.
func NewRedisLimiter(client *redis.Client) *RedisLimiter {
	return &RedisLimiter{client: client}
}

// Allow implements Limiter with INCR plus a window-scoped expiry.
func (l *RedisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	bucket := fmt.Sprintf("ratelimit:%s:%d", key, time.Now().UnixNano()/int64(window))

	count, err := l.client.Incr(ctx, bucket).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment rate limit bucket: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, bucket, window).Err(); err != nil {
			return false, fmt.Errorf("failed to expire rate limit bucket: %w", err)
		}
	}

	return count <= int64(limit), nil
}
