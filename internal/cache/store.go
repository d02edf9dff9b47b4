// Copyright (c) 2026 StorySlip Inc. <engineering@storyslip.io>
// All rights reserved. See LICENSE for details.

// Package cache provides the widget delivery cache: a byte store
// interface with process-local and Valkey-backed implementations, a
// typed layer for rendered widget bundles, and a best-effort output
// minifier.
//
// The cache is a pure performance optimization, never a source of
// truth — it may be dropped and rebuilt at any time.
package cache

import (
	"context"
	"time"
)

// Store is the byte-level cache contract. The in-memory implementation
// is the default and test double; the Valkey implementation shares
// entries across instances.
type Store interface {
	// Get returns the value for key, or ok=false when the key is
	// missing or its TTL has elapsed. Expired entries read identically
	// to absent ones.
	Get(ctx context.Context, key string) (val []byte, ok bool)
	// Set stores a value with a per-entry TTL, overwriting any
	// existing entry for the same key.
	Set(ctx context.Context, key string, val []byte, ttl time.Duration)
	// InvalidatePrefix removes every entry whose key starts with
	// prefix and returns how many were removed.
	InvalidatePrefix(ctx context.Context, prefix string) int
}
