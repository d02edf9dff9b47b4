// Copyright (c) 2026 StorySlip Inc. <engineering@storyslip.io>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Scope is a capability tag restricting what an authenticated API key
// may do.
type Scope string

const (
	ScopeRead  Scope = "read"
	ScopeWrite Scope = "write"
)

// APIKey grants programmatic access to a single widget. The plaintext
// secret is shown exactly once at generation; only its SHA-256 digest
// is persisted, alongside a short prefix for display in key listings.
type APIKey struct {
	ID         uuid.UUID  `json:"id"`
	WidgetID   uuid.UUID  `json:"widget_id"`
	Label      string     `json:"label"`
	KeyDigest  string     `json:"-"`
	KeyPrefix  string     `json:"key_prefix"`
	Scopes     []Scope    `json:"scopes"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
}

// HasScope reports whether the key carries the given scope.
func (k *APIKey) HasScope(s Scope) bool {
	for _, have := range k.Scopes {
		if have == s {
			return true
		}
	}
	return false
}
