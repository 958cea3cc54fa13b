package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore counts requests with an atomic Redis INCR, so the count is
// shared across all server instances pointing at the same Redis.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisStore creates a Redis-backed counter
func NewRedisStore(client *redis.Client, keyPrefix string) *RedisStore {
	return &RedisStore{client: client, keyPrefix: keyPrefix}
}

// Incr atomically increments the counter for key. The increment that starts
// a window (count == 1) also sets the key to expire after the window, so the
// counter resets by TTL.
func (s *RedisStore) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	redisKey := fmt.Sprintf("%s:%s", s.keyPrefix, key)

	count, err := s.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}

	if count == 1 {
		s.client.Expire(ctx, redisKey, window)
	}

	return count, nil
}
