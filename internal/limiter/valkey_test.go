package limiter

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testValkeyClient returns a Redis client for tests on DB 15.
// Skips if Valkey is unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, limiterKeyPrefix+"*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

func TestValkeyLimiterBoundary(t *testing.T) {
	client := testValkeyClient(t)
	l := NewValkeyLimiter(client, 3, 2*time.Second)

	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res, err := l.Allow(ctx, "vk-key")
		if err != nil {
			t.Fatalf("Allow: %v", err)
		}
		if !res.Allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}

	res, err := l.Allow(ctx, "vk-key")
	if err != nil {
		t.Fatalf("Allow: %v", err)
	}
	if res.Allowed {
		t.Error("request over quota should be denied")
	}
	if res.Remaining != 0 {
		t.Errorf("remaining: got %d, want 0", res.Remaining)
	}
}

func TestValkeyLimiterWindowReset(t *testing.T) {
	client := testValkeyClient(t)
	l := NewValkeyLimiter(client, 1, 1*time.Second)

	ctx := context.Background()

	if res, _ := l.Allow(ctx, "vk-reset"); !res.Allowed {
		t.Fatal("first request should be allowed")
	}
	if res, _ := l.Allow(ctx, "vk-reset"); res.Allowed {
		t.Error("second request in window should be denied")
	}

	time.Sleep(1100 * time.Millisecond)

	if res, _ := l.Allow(ctx, "vk-reset"); !res.Allowed {
		t.Error("request after window expiry should be allowed")
	}
}
