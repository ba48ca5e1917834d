package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore backs the limiter with a shared Redis counter so multiple
// processes enforce one budget. The key's TTL is the window; Redis expiry
// replaces the lazy reset the memory store performs.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

var _ Store = (*RedisStore)(nil)

// Incr reads the current count and TTL in one round trip, then increments
// only when the request is admitted, keeping rejection idempotent.
func (s *RedisStore) Incr(ctx context.Context, key string, limit int, window time.Duration) (int, bool, error) {
	pipe := s.client.Pipeline()
	getCmd := pipe.Get(ctx, key)
	ttlCmd := pipe.TTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return 0, false, fmt.Errorf("rate limit read for %q: %w", key, err)
	}

	count, err := getCmd.Int()
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, false, fmt.Errorf("rate limit count for %q: %w", key, err)
	}

	if count >= limit {
		return count, false, nil
	}

	n, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, false, fmt.Errorf("rate limit increment for %q: %w", key, err)
	}

	// A fresh key (or one that lost its TTL) starts a new window.
	if ttl, ttlErr := ttlCmd.Result(); n == 1 || ttlErr != nil || ttl < 0 {
		if err := s.client.Expire(ctx, key, window).Err(); err != nil {
			return int(n), true, fmt.Errorf("rate limit expire for %q: %w", key, err)
		}
	}

	if int(n) > limit {
		return int(n), false, nil
	}
	return int(n), true, nil
}
