// Copyright (c) 2026 StorySlip Inc. <engineering@storyslip.io>
// All rights reserved. See LICENSE for details.

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"storyslip/internal/limiter"
	"storyslip/internal/models"
)

// Sentinel errors distinguishing the auth failure classes. Handlers
// map ErrInvalidKey to 401 and ErrScopeMissing to 403; the response
// bodies stay generic so the distinction never aids key enumeration.
var (
	ErrInvalidKey   = errors.New("invalid API key")
	ErrScopeMissing = errors.New("API key lacks required scope")
)

// KeySource resolves stored API keys. *store.APIKeyStore satisfies it;
// tests substitute an in-memory fake.
type KeySource interface {
	// FindByDigest returns the key with the given digest, or nil if
	// no such key exists.
	FindByDigest(ctx context.Context, digest string) (*models.APIKey, error)
	// TouchLastUsed records that the key was used. Best-effort.
	TouchLastUsed(ctx context.Context, id uuid.UUID)
}

// Gate validates API keys and enforces per-key rate limits.
type Gate struct {
	keys    KeySource
	limiter limiter.Limiter
}

// NewGate creates a Gate backed by the given key source and limiter.
func NewGate(keys KeySource, lim limiter.Limiter) *Gate {
	return &Gate{keys: keys, limiter: lim}
}

// ValidateKey checks a presented key string and, when requiredScope is
// non-empty, that the key carries that scope. On success it returns
// the stored key record for downstream authorization (ownership
// checks). Unknown and malformed keys fail identically with
// ErrInvalidKey.
func (g *Gate) ValidateKey(ctx context.Context, raw string, requiredScope models.Scope) (*models.APIKey, error) {
	if !plausibleKey(raw) {
		return nil, ErrInvalidKey
	}

	key, err := g.keys.FindByDigest(ctx, Digest(raw))
	if err != nil {
		return nil, fmt.Errorf("key lookup: %w", err)
	}
	if key == nil {
		return nil, ErrInvalidKey
	}

	if requiredScope != "" && !key.HasScope(requiredScope) {
		slog.Debug("api key scope mismatch",
			"key_prefix", key.KeyPrefix,
			"required", requiredScope,
		)
		return nil, ErrScopeMissing
	}

	g.keys.TouchLastUsed(ctx, key.ID)
	return key, nil
}

// CheckLimit consumes one request from the key's rate-limit window and
// reports whether it was allowed, how many requests remain, and when
// the window resets.
func (g *Gate) CheckLimit(ctx context.Context, keyID uuid.UUID) (limiter.Result, error) {
	return g.limiter.Allow(ctx, keyID.String())
}
