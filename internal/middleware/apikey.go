// Copyright (c) 2026 StorySlip Inc. <engineering@storyslip.io>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"storyslip/internal/auth"
	"storyslip/internal/models"
)

// APIKeyHeader is the header key-scoped routes read the secret from.
const APIKeyHeader = "X-API-Key"

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

// apiKeyCtxKey is the context key for the authenticated API key.
const apiKeyCtxKey contextKey = "api_key"

// APIKeyAuth authenticates the request's X-API-Key header against the
// gate and enforces the key's rate limit. The authenticated key is
// stored in the request context for handlers (ownership checks, audit
// attribution).
//
// Failure taxonomy: missing/unknown key → 401, valid key without the
// required scope → 403, over the rate limit → 429. Every authenticated
// response carries X-RateLimit-Remaining and X-RateLimit-Reset.
func APIKeyAuth(gate *auth.Gate, requiredScope models.Scope) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key, err := gate.ValidateKey(r.Context(), r.Header.Get(APIKeyHeader), requiredScope)
			switch {
			case errors.Is(err, auth.ErrInvalidKey):
				writeError(w, http.StatusUnauthorized, "INVALID_API_KEY", "invalid API key")
				return
			case errors.Is(err, auth.ErrScopeMissing):
				writeError(w, http.StatusForbidden, "INSUFFICIENT_SCOPE", "API key lacks required scope")
				return
			case err != nil:
				slog.Error("api key validation failed", "error", err)
				writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
				return
			}

			res, err := gate.CheckLimit(r.Context(), key.ID)
			if err != nil {
				slog.Error("rate limit check failed", "key_prefix", key.KeyPrefix, "error", err)
				writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
				return
			}
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))
			if !res.Allowed {
				writeError(w, http.StatusTooManyRequests, "RATE_LIMITED", "rate limit exceeded")
				return
			}

			ctx := context.WithValue(r.Context(), apiKeyCtxKey, key)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// APIKeyFromCtx extracts the authenticated API key from the request
// context. Returns nil on routes without APIKeyAuth.
func APIKeyFromCtx(ctx context.Context) *models.APIKey {
	key, _ := ctx.Value(apiKeyCtxKey).(*models.APIKey)
	return key
}

// WithAPIKey returns a context carrying the given key, as if APIKeyAuth
// had authenticated it. Intended for handler tests.
func WithAPIKey(ctx context.Context, key *models.APIKey) context.Context {
	return context.WithValue(ctx, apiKeyCtxKey, key)
}

// writeError emits the standard error envelope. Kept local so the
// middleware package does not depend on handlers.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   map[string]string{"code": code, "message": message},
	})
}
