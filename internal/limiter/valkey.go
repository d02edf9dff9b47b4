// Copyright (c) 2026 StorySlip Inc. <engineering@storyslip.io>
// All rights reserved. See LICENSE for details.

package limiter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// limiterKeyPrefix namespaces rate-limit counters in Valkey.
const limiterKeyPrefix = "ratelimit:"

// ValkeyLimiter is a fixed-window limiter with counters shared across
// all instances through Valkey. INCR is atomic, so concurrent requests
// cannot lose updates.
type ValkeyLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

// NewValkeyLimiter creates a shared fixed-window limiter.
func NewValkeyLimiter(client *redis.Client, limit int, window time.Duration) *ValkeyLimiter {
	return &ValkeyLimiter{client: client, limit: limit, window: window}
}

// Allow implements Limiter. The first request in a window creates the
// counter and sets its expiry; the window resets when the counter key
// expires.
func (l *ValkeyLimiter) Allow(ctx context.Context, key string) (Result, error) {
	counterKey := limiterKeyPrefix + key

	count, err := l.client.Incr(ctx, counterKey).Result()
	if err != nil {
		return Result{}, fmt.Errorf("ratelimit incr: %w", err)
	}

	if count == 1 {
		if err := l.client.Expire(ctx, counterKey, l.window).Err(); err != nil {
			return Result{}, fmt.Errorf("ratelimit expire: %w", err)
		}
	}

	ttl, err := l.client.TTL(ctx, counterKey).Result()
	if err != nil || ttl < 0 {
		// Counter exists without expiry (e.g. a crash between INCR
		// and EXPIRE). Re-arm it so the window cannot stick forever.
		l.client.Expire(ctx, counterKey, l.window)
		ttl = l.window
	}
	resetAt := time.Now().Add(ttl)

	remaining := l.limit - int(count)
	if remaining < 0 {
		remaining = 0
	}

	return Result{
		Allowed:   count <= int64(l.limit),
		Remaining: remaining,
		ResetAt:   resetAt,
	}, nil
}
