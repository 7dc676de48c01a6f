// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/bloglist/internal/platform/constants"
)

// RedisThrottle implements [Throttle] with a fixed-window counter per key.
type RedisThrottle struct {
	client      *redis.Client
	maxFailures int64
	window      time.Duration
}

// NewRedisThrottle creates a Redis-backed throttle.
func NewRedisThrottle(client *redis.Client, maxFailures int, window time.Duration) *RedisThrottle {
	return &RedisThrottle{
		client:      client,
		maxFailures: int64(maxFailures),
		window:      window,
	}
}

func (throttle *RedisThrottle) key(clientKey string) string {
	return constants.RedisPrefixLoginFailures + clientKey
}

/*
Blocked reports whether the failure counter for clientKey has reached the limit.

Returns:
  - time.Duration: TTL of the current window when blocked
  - bool: Whether the client is blocked
  - error: Connectivity errors
*/
func (throttle *RedisThrottle) Blocked(ctx context.Context, clientKey string) (time.Duration, bool, error) {
	key := throttle.key(clientKey)

	count, err := throttle.client.Get(ctx, key).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("redis_login_throttle_get_failed: %w", err)
	}

	if count < throttle.maxFailures {
		return 0, false, nil
	}

	ttl, err := throttle.client.TTL(ctx, key).Result()
	if err != nil {
		return 0, true, fmt.Errorf("redis_login_throttle_ttl_failed: %w", err)
	}
	if ttl < 0 {
		ttl = throttle.window
	}

	return ttl, true, nil
}

// RecordFailure increments the counter and, in the same MULTI block, starts
// the window when the key has no expiry yet.
func (throttle *RedisThrottle) RecordFailure(ctx context.Context, clientKey string) error {
	key := throttle.key(clientKey)

	_, err := throttle.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, throttle.window)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis_login_throttle_record_failed: %w", err)
	}

	return nil
}

// Reset deletes the counter for clientKey.
func (throttle *RedisThrottle) Reset(ctx context.Context, clientKey string) error {
	if err := throttle.client.Del(ctx, throttle.key(clientKey)).Err(); err != nil {
		return fmt.Errorf("redis_login_throttle_delete_failed: %w", err)
	}
	return nil
}
