// Copyright (c) 2026 StorySlip Inc. <engineering@storyslip.io>
// All rights reserved. See LICENSE for details.

// Package store contains all PostgreSQL data access for the delivery
// service. Stores return (nil, nil) for not-found so callers can map
// missing rows to their own error taxonomy.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"storyslip/internal/models"
)

// WidgetStore handles widget-related database operations.
type WidgetStore struct {
	db *sql.DB
}

// NewWidgetStore creates a new WidgetStore with the given database
// connection.
func NewWidgetStore(db *sql.DB) *WidgetStore {
	return &WidgetStore{db: db}
}

// FindByID retrieves a widget by its UUID regardless of publication
// state. Returns nil if not found; the caller decides whether an
// unpublished widget is visible.
func (s *WidgetStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Widget, error) {
	w := &models.Widget{}
	var settings []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT id, website_id, title, description, type, settings,
		       is_published, created_at, updated_at
		FROM widgets WHERE id = $1
	`, id).Scan(
		&w.ID, &w.WebsiteID, &w.Title, &w.Description, &w.Type,
		&settings, &w.IsPublished, &w.CreatedAt, &w.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find widget by id: %w", err)
	}
	w.Settings = json.RawMessage(settings)
	return w, nil
}

// ListByWebsite returns all widgets owned by a website, newest first.
func (s *WidgetStore) ListByWebsite(ctx context.Context, websiteID uuid.UUID) ([]models.Widget, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, website_id, title, description, type, settings,
		       is_published, created_at, updated_at
		FROM widgets
		WHERE website_id = $1
		ORDER BY created_at DESC
	`, websiteID)
	if err != nil {
		return nil, fmt.Errorf("list widgets: %w", err)
	}
	defer rows.Close()

	var widgets []models.Widget
	for rows.Next() {
		var w models.Widget
		var settings []byte
		if err := rows.Scan(
			&w.ID, &w.WebsiteID, &w.Title, &w.Description, &w.Type,
			&settings, &w.IsPublished, &w.CreatedAt, &w.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan widget: %w", err)
		}
		w.Settings = json.RawMessage(settings)
		widgets = append(widgets, w)
	}
	return widgets, rows.Err()
}

// Create inserts a new widget. Settings are validated against the
// widget type before the row is written, keeping the malformed-blob
// case out of the render path.
func (s *WidgetStore) Create(ctx context.Context, w *models.Widget) (*models.Widget, error) {
	if _, err := models.ParseSettings(w.Type, w.Settings); err != nil {
		return nil, fmt.Errorf("widget settings: %w", err)
	}
	if len(w.Settings) == 0 {
		w.Settings = json.RawMessage(`{}`)
	}

	result := &models.Widget{}
	var settings []byte
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO widgets (website_id, title, description, type, settings, is_published)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, website_id, title, description, type, settings,
		          is_published, created_at, updated_at
	`, w.WebsiteID, w.Title, w.Description, w.Type, []byte(w.Settings), w.IsPublished,
	).Scan(
		&result.ID, &result.WebsiteID, &result.Title, &result.Description,
		&result.Type, &settings, &result.IsPublished,
		&result.CreatedAt, &result.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create widget: %w", err)
	}
	result.Settings = json.RawMessage(settings)
	return result, nil
}

// SetPublished toggles a widget's publication state.
func (s *WidgetStore) SetPublished(ctx context.Context, id uuid.UUID, published bool) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE widgets SET is_published = $1, updated_at = NOW() WHERE id = $2
	`, published, id)
	if err != nil {
		return fmt.Errorf("set widget published: %w", err)
	}
	return nil
}

// Delete removes a widget by ID. Cascades take its API keys and
// events with it.
func (s *WidgetStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM widgets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete widget: %w", err)
	}
	return nil
}
