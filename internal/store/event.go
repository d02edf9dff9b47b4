// Copyright (c) 2026 StorySlip Inc. <engineering@storyslip.io>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"storyslip/internal/models"
)

// EventStore handles widget analytics event persistence. Events are
// insert-only from the delivery service's perspective; aggregation
// happens elsewhere.
type EventStore struct {
	db *sql.DB
}

// NewEventStore creates a new EventStore with the given database
// connection.
func NewEventStore(db *sql.DB) *EventStore {
	return &EventStore{db: db}
}

// Record inserts an analytics event.
func (s *EventStore) Record(ctx context.Context, e models.WidgetEvent) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO widget_events (widget_id, event_type, url, referrer, user_agent, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, e.WidgetID, e.EventType, e.URL, e.Referrer, e.UserAgent, e.OccurredAt)
	if err != nil {
		return fmt.Errorf("record widget event: %w", err)
	}
	return nil
}

// CountByWidget returns how many events a widget has accumulated.
// Used by tests and debugging endpoints.
func (s *EventStore) CountByWidget(ctx context.Context, widgetID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM widget_events WHERE widget_id = $1
	`, widgetID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count widget events: %w", err)
	}
	return count, nil
}
