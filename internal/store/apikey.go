// Copyright (c) 2026 StorySlip Inc. <engineering@storyslip.io>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"storyslip/internal/models"
)

// APIKeyStore handles API key database operations. It satisfies
// auth.KeySource.
type APIKeyStore struct {
	db *sql.DB
}

// NewAPIKeyStore creates a new APIKeyStore with the given database
// connection.
func NewAPIKeyStore(db *sql.DB) *APIKeyStore {
	return &APIKeyStore{db: db}
}

// Create inserts a new API key record. The caller generates the
// digest and prefix (auth.GenerateKey) and is responsible for showing
// the plaintext to the user exactly once.
func (s *APIKeyStore) Create(ctx context.Context, k *models.APIKey) (*models.APIKey, error) {
	result := &models.APIKey{}
	var scopes []string
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO api_keys (widget_id, label, key_digest, key_prefix, scopes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, widget_id, label, key_digest, key_prefix, scopes,
		          created_at, last_used_at
	`, k.WidgetID, k.Label, k.KeyDigest, k.KeyPrefix, scopeStrings(k.Scopes),
	).Scan(
		&result.ID, &result.WidgetID, &result.Label, &result.KeyDigest,
		&result.KeyPrefix, (*scopeScanner)(&scopes), &result.CreatedAt, &result.LastUsedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create api key: %w", err)
	}
	result.Scopes = toScopes(scopes)
	return result, nil
}

// FindByDigest retrieves a key by its stored digest. Returns nil if no
// such key exists.
func (s *APIKeyStore) FindByDigest(ctx context.Context, digest string) (*models.APIKey, error) {
	k := &models.APIKey{}
	var scopes []string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, widget_id, label, key_digest, key_prefix, scopes,
		       created_at, last_used_at
		FROM api_keys WHERE key_digest = $1
	`, digest).Scan(
		&k.ID, &k.WidgetID, &k.Label, &k.KeyDigest, &k.KeyPrefix,
		(*scopeScanner)(&scopes), &k.CreatedAt, &k.LastUsedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find api key by digest: %w", err)
	}
	k.Scopes = toScopes(scopes)
	return k, nil
}

// TouchLastUsed records key usage. Best-effort: a failed update is
// logged, never surfaced, because it must not fail the request.
func (s *APIKeyStore) TouchLastUsed(ctx context.Context, id uuid.UUID) {
	_, err := s.db.ExecContext(ctx, `
		UPDATE api_keys SET last_used_at = NOW() WHERE id = $1
	`, id)
	if err != nil {
		slog.Warn("touch api key last_used_at failed", "key_id", id, "error", err)
	}
}

// Delete removes an API key by ID (revocation).
func (s *APIKeyStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM api_keys WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete api key: %w", err)
	}
	return nil
}

// scopeStrings converts model scopes to a text[] parameter.
func scopeStrings(scopes []models.Scope) []string {
	out := make([]string, len(scopes))
	for i, s := range scopes {
		out[i] = string(s)
	}
	return out
}

// toScopes converts scanned text[] values back into model scopes.
func toScopes(scopes []string) []models.Scope {
	out := make([]models.Scope, len(scopes))
	for i, s := range scopes {
		out[i] = models.Scope(s)
	}
	return out
}
