// Copyright (c) 2026 StorySlip Inc. <engineering@storyslip.io>
// All rights reserved. See LICENSE for details.

// Package limiter provides per-key request rate limiting behind a
// small interface, with a process-local sliding-window implementation
// and a Valkey-backed fixed-window implementation for multi-instance
// deployments.
package limiter

import (
	"context"
	"time"
)

// Result reports the outcome of a rate-limit check. Remaining is
// advisory (never negative) so clients can back off; ResetAt is the
// wall-clock time the window rolls over.
type Result struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// Limiter is the per-key rate limit contract. Implementations must be
// safe under concurrent Allow calls for the same key — lost updates
// would silently raise the effective quota.
type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}
