// Copyright (c) 2026 StorySlip Inc. <engineering@storyslip.io>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// memoryEntry is a cached value with its expiry deadline.
type memoryEntry struct {
	val       []byte
	expiresAt time.Time
}

// MemoryStore is a process-local Store. Expired entries are purged on
// read (not merely skipped) and a background janitor sweeps the rest,
// so memory stays bounded by live entries.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	stopCh  chan struct{}
}

// NewMemoryStore creates an empty in-memory store and starts its
// janitor goroutine. Call Stop to terminate the janitor.
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]memoryEntry),
		stopCh:  make(chan struct{}),
	}

	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.sweep()
			case <-s.stopCh:
				return
			}
		}
	}()

	return s
}

// Stop terminates the janitor goroutine.
func (s *MemoryStore) Stop() {
	close(s.stopCh)
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		// Purge so expired entries do not linger until the next sweep.
		s.mu.Lock()
		if cur, still := s.entries[key]; still && time.Now().After(cur.expiresAt) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return nil, false
	}
	return entry.val, true
}

// Set implements Store.
func (s *MemoryStore) Set(_ context.Context, key string, val []byte, ttl time.Duration) {
	s.mu.Lock()
	s.entries[key] = memoryEntry{val: val, expiresAt: time.Now().Add(ttl)}
	s.mu.Unlock()
}

// InvalidatePrefix implements Store.
func (s *MemoryStore) InvalidatePrefix(_ context.Context, prefix string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of live and not-yet-swept entries.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// sweep removes all expired entries.
func (s *MemoryStore) sweep() {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, key)
		}
	}
}
