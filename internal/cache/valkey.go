// Copyright (c) 2026 StorySlip Inc. <engineering@storyslip.io>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// ConnectValkey creates a Valkey client and verifies the connection
// with a ping.
func ConnectValkey(addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("valkey ping: %w", err)
	}

	slog.Info("valkey connected", "addr", addr)
	return client, nil
}

// ValkeyStore is a Store backed by Valkey. Entries are shared across
// instances, so an invalidation issued on one instance is observed by
// all of them.
type ValkeyStore struct {
	client *redis.Client
}

// NewValkeyStore creates a Store over the given Valkey client.
func NewValkeyStore(client *redis.Client) *ValkeyStore {
	return &ValkeyStore{client: client}
}

// Get implements Store. Valkey expires entries server-side, so a
// TTL-elapsed entry is already absent.
func (s *ValkeyStore) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("valkey cache get error", "key", key, "error", err)
		return nil, false
	}
	return val, true
}

// Set implements Store.
func (s *ValkeyStore) Set(ctx context.Context, key string, val []byte, ttl time.Duration) {
	if err := s.client.Set(ctx, key, val, ttl).Err(); err != nil {
		slog.Warn("valkey cache set error", "key", key, "error", err)
	}
}

// InvalidatePrefix implements Store by scanning for matching keys and
// deleting them in batches.
func (s *ValkeyStore) InvalidatePrefix(ctx context.Context, prefix string) int {
	var cursor uint64
	deleted := 0
	for {
		keys, nextCursor, err := s.client.Scan(ctx, cursor, prefix+"*", 100).Result()
		if err != nil {
			slog.Warn("valkey cache scan error", "prefix", prefix, "error", err)
			return deleted
		}
		if len(keys) > 0 {
			if err := s.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("valkey cache bulk delete error", "error", err)
			} else {
				deleted += len(keys)
			}
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	return deleted
}
