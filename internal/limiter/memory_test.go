package limiter

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestMemoryLimiterBoundary(t *testing.T) {
	l := NewMemoryLimiter(3, 1*time.Second)
	defer l.Stop()

	ctx := context.Background()

	// Requests 1..N succeed with decreasing Remaining.
	for i := 0; i < 3; i++ {
		res, err := l.Allow(ctx, "key-1")
		if err != nil {
			t.Fatalf("Allow: %v", err)
		}
		if !res.Allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
		if want := 3 - (i + 1); res.Remaining != want {
			t.Errorf("request %d: remaining = %d, want %d", i+1, res.Remaining, want)
		}
	}

	// Request N+1 is denied with a non-negative Remaining and a reset
	// time in the future.
	res, err := l.Allow(ctx, "key-1")
	if err != nil {
		t.Fatalf("Allow: %v", err)
	}
	if res.Allowed {
		t.Error("request over quota should be denied")
	}
	if res.Remaining != 0 {
		t.Errorf("remaining after exhaustion: got %d, want 0", res.Remaining)
	}
	if !res.ResetAt.After(time.Now()) {
		t.Error("ResetAt should be in the future")
	}

	// A different key is unaffected.
	res, _ = l.Allow(ctx, "key-2")
	if !res.Allowed {
		t.Error("different key should be allowed")
	}
}

func TestMemoryLimiterWindowExpiry(t *testing.T) {
	l := NewMemoryLimiter(2, 100*time.Millisecond)
	defer l.Stop()

	ctx := context.Background()

	l.Allow(ctx, "key")
	l.Allow(ctx, "key")

	if res, _ := l.Allow(ctx, "key"); res.Allowed {
		t.Error("should be rate-limited")
	}

	time.Sleep(150 * time.Millisecond)

	if res, _ := l.Allow(ctx, "key"); !res.Allowed {
		t.Error("should be allowed after window expires")
	}
}

// TestMemoryLimiterConcurrent verifies that concurrent increments for
// the same key never admit more than the quota.
func TestMemoryLimiterConcurrent(t *testing.T) {
	const limit = 50
	l := NewMemoryLimiter(limit, 10*time.Second)
	defer l.Stop()

	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0

	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := l.Allow(ctx, "shared")
			if err != nil {
				t.Errorf("Allow: %v", err)
				return
			}
			if res.Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if allowed != limit {
		t.Errorf("allowed %d concurrent requests, want exactly %d", allowed, limit)
	}
}

func TestMemoryLimiterCleanup(t *testing.T) {
	l := NewMemoryLimiter(5, 50*time.Millisecond)
	defer l.Stop()

	ctx := context.Background()
	l.Allow(ctx, "idle-1")
	l.Allow(ctx, "idle-2")

	time.Sleep(100 * time.Millisecond)
	l.cleanup()

	l.mu.RLock()
	count := len(l.clients)
	l.mu.RUnlock()

	if count != 0 {
		t.Errorf("cleanup should remove idle entries, got %d", count)
	}
}
