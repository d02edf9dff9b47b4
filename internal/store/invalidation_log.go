// Copyright (c) 2026 StorySlip Inc. <engineering@storyslip.io>
// All rights reserved. See LICENSE for details.

// invalidation_log.go records widget cache invalidations in the
// database for audit and debugging. Each entry captures which widget
// was purged, why, and who asked.
package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// InvalidationLogStore handles cache invalidation log operations.
type InvalidationLogStore struct {
	db *sql.DB
}

// NewInvalidationLogStore creates a new InvalidationLogStore.
func NewInvalidationLogStore(db *sql.DB) *InvalidationLogStore {
	return &InvalidationLogStore{db: db}
}

// Log records a cache invalidation event. Best-effort: a failed write
// is logged, never surfaced, because audit logging must not fail the
// invalidation itself.
func (s *InvalidationLogStore) Log(widgetID uuid.UUID, action, requestedBy string) {
	_, err := s.db.Exec(`
		INSERT INTO cache_invalidations (widget_id, action, requested_by)
		VALUES ($1, $2, $3)
	`, widgetID, action, requestedBy)
	if err != nil {
		slog.Warn("failed to log cache invalidation",
			"widget_id", widgetID,
			"action", action,
			"error", err,
		)
		return
	}
	slog.Debug("cache invalidation logged",
		"widget_id", widgetID,
		"action", action,
		"requested_by", requestedBy,
	)
}

// InvalidationEntry is a single cache invalidation audit record.
type InvalidationEntry struct {
	ID            int64
	WidgetID      uuid.UUID
	Action        string
	RequestedBy   string
	InvalidatedAt time.Time
}

// RecentEntries returns the most recent invalidation events for
// debugging, limited to the specified count.
func (s *InvalidationLogStore) RecentEntries(limit int) ([]InvalidationEntry, error) {
	rows, err := s.db.Query(`
		SELECT id, widget_id, action, requested_by, invalidated_at
		FROM cache_invalidations
		ORDER BY invalidated_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query invalidation log: %w", err)
	}
	defer rows.Close()

	var entries []InvalidationEntry
	for rows.Next() {
		var e InvalidationEntry
		if err := rows.Scan(&e.ID, &e.WidgetID, &e.Action, &e.RequestedBy, &e.InvalidatedAt); err != nil {
			return nil, fmt.Errorf("scan invalidation log: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
