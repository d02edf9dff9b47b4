// Copyright (c) 2026 StorySlip Inc. <engineering@storyslip.io>
// All rights reserved. See LICENSE for details.

package limiter

import (
	"context"
	"sync"
	"time"
)

// clientEntry tracks request timestamps for a single key.
type clientEntry struct {
	mu         sync.Mutex
	timestamps []time.Time
}

// MemoryLimiter is a process-local sliding-window limiter. The window
// state lives in this process only, so under multi-instance deployment
// a key's effective quota is multiplied by the instance count; use the
// ValkeyLimiter when strict limits are required.
type MemoryLimiter struct {
	mu      sync.RWMutex
	clients map[string]*clientEntry
	limit   int
	window  time.Duration
	stopCh  chan struct{}
}

// NewMemoryLimiter creates a limiter that allows limit requests per
// window per key. It starts a background goroutine to clean up idle
// entries; call Stop to terminate it.
func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	l := &MemoryLimiter{
		clients: make(map[string]*clientEntry),
		limit:   limit,
		window:  window,
		stopCh:  make(chan struct{}),
	}

	// Periodic cleanup of idle entries.
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				l.cleanup()
			case <-l.stopCh:
				return
			}
		}
	}()

	return l
}

// Stop terminates the background cleanup goroutine.
func (l *MemoryLimiter) Stop() {
	close(l.stopCh)
}

// Allow implements Limiter.
func (l *MemoryLimiter) Allow(_ context.Context, key string) (Result, error) {
	l.mu.RLock()
	entry, exists := l.clients[key]
	l.mu.RUnlock()

	if !exists {
		l.mu.Lock()
		// Double-check after acquiring write lock.
		entry, exists = l.clients[key]
		if !exists {
			entry = &clientEntry{}
			l.clients[key] = entry
		}
		l.mu.Unlock()
	}

	now := time.Now()
	cutoff := now.Add(-l.window)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	// Drop timestamps that slid out of the window.
	valid := entry.timestamps[:0]
	for _, ts := range entry.timestamps {
		if ts.After(cutoff) {
			valid = append(valid, ts)
		}
	}
	entry.timestamps = valid

	if len(entry.timestamps) >= l.limit {
		// Window rolls over when the oldest counted request expires.
		return Result{
			Allowed:   false,
			Remaining: 0,
			ResetAt:   entry.timestamps[0].Add(l.window),
		}, nil
	}

	entry.timestamps = append(entry.timestamps, now)
	resetAt := entry.timestamps[0].Add(l.window)
	return Result{
		Allowed:   true,
		Remaining: l.limit - len(entry.timestamps),
		ResetAt:   resetAt,
	}, nil
}

// cleanup removes entries with no timestamps inside the window.
func (l *MemoryLimiter) cleanup() {
	cutoff := time.Now().Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	for key, entry := range l.clients {
		entry.mu.Lock()
		hasRecent := false
		for _, ts := range entry.timestamps {
			if ts.After(cutoff) {
				hasRecent = true
				break
			}
		}
		entry.mu.Unlock()

		if !hasRecent {
			delete(l.clients, key)
		}
	}
}
