// Copyright (c) 2026 StorySlip Inc. <engineering@storyslip.io>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"storyslip/internal/auth"
	"storyslip/internal/limiter"
	"storyslip/internal/models"
)

// fakeKeySource serves a single stored key by digest.
type fakeKeySource struct {
	key *models.APIKey
}

func (f *fakeKeySource) FindByDigest(_ context.Context, digest string) (*models.APIKey, error) {
	if f.key != nil && f.key.KeyDigest == digest {
		return f.key, nil
	}
	return nil, nil
}

func (f *fakeKeySource) TouchLastUsed(context.Context, uuid.UUID) {}

// testGate returns a gate with one stored read-scoped key and the
// plaintext that resolves to it.
func testGate(t *testing.T, scopes []models.Scope, limit int) (*auth.Gate, string) {
	t.Helper()

	plaintext, digest, prefix, err := auth.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	src := &fakeKeySource{key: &models.APIKey{
		ID:        uuid.New(),
		WidgetID:  uuid.New(),
		KeyDigest: digest,
		KeyPrefix: prefix,
		Scopes:    scopes,
	}}
	lim := limiter.NewMemoryLimiter(limit, time.Minute)
	t.Cleanup(lim.Stop)
	return auth.NewGate(src, lim), plaintext
}

// decodeErrorCode pulls error.code out of a response envelope.
func decodeErrorCode(t *testing.T, body []byte) string {
	t.Helper()

	var envelope struct {
		Success bool `json:"success"`
		Error   struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		t.Fatalf("unmarshal error envelope: %v (%s)", err, body)
	}
	if envelope.Success {
		t.Error("error envelope has success=true")
	}
	return envelope.Error.Code
}

func TestAPIKeyAuth(t *testing.T) {
	gate, plaintext := testGate(t, []models.Scope{models.ScopeRead}, 100)

	var gotKey *models.APIKey
	handler := APIKeyAuth(gate, models.ScopeRead)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = APIKeyFromCtx(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("valid key passes and lands in context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/widgets/x/render", nil)
		req.Header.Set(APIKeyHeader, plaintext)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body)
		}
		if gotKey == nil {
			t.Fatal("handler saw no key in context")
		}
		if rec.Header().Get("X-RateLimit-Remaining") == "" {
			t.Error("missing X-RateLimit-Remaining header")
		}
		if rec.Header().Get("X-RateLimit-Reset") == "" {
			t.Error("missing X-RateLimit-Reset header")
		}
	})

	t.Run("missing key is 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/widgets/x/render", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
		if code := decodeErrorCode(t, rec.Body.Bytes()); code != "INVALID_API_KEY" {
			t.Errorf("error code = %q, want INVALID_API_KEY", code)
		}
	})

	t.Run("unknown key is 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/widgets/x/render", nil)
		req.Header.Set(APIKeyHeader, "ss_0000000000000000000000000000000000000000000000ff")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})
}

func TestAPIKeyAuthScope(t *testing.T) {
	gate, plaintext := testGate(t, []models.Scope{models.ScopeRead}, 100)

	handler := APIKeyAuth(gate, models.ScopeWrite)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/widgets/x/cache/invalidate", nil)
	req.Header.Set(APIKeyHeader, plaintext)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	if code := decodeErrorCode(t, rec.Body.Bytes()); code != "INSUFFICIENT_SCOPE" {
		t.Errorf("error code = %q, want INSUFFICIENT_SCOPE", code)
	}
}

func TestAPIKeyAuthRateLimit(t *testing.T) {
	gate, plaintext := testGate(t, []models.Scope{models.ScopeRead}, 2)

	handler := APIKeyAuth(gate, models.ScopeRead)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/widgets/x/render", nil)
		req.Header.Set(APIKeyHeader, plaintext)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		statuses = append(statuses, rec.Code)

		if i == 2 {
			if rec.Code != http.StatusTooManyRequests {
				t.Fatalf("third request status = %d, want 429", rec.Code)
			}
			if code := decodeErrorCode(t, rec.Body.Bytes()); code != "RATE_LIMITED" {
				t.Errorf("error code = %q, want RATE_LIMITED", code)
			}
			if rec.Header().Get("X-RateLimit-Remaining") != "0" {
				t.Errorf("X-RateLimit-Remaining = %q, want 0", rec.Header().Get("X-RateLimit-Remaining"))
			}
		}
	}
	if statuses[0] != http.StatusOK || statuses[1] != http.StatusOK {
		t.Errorf("first two requests = %v, want 200s", statuses[:2])
	}
}

func TestAPIKeyFromCtxMissing(t *testing.T) {
	if key := APIKeyFromCtx(context.Background()); key != nil {
		t.Errorf("expected nil key, got %+v", key)
	}
}
