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

// ListOptions select which page of published content a widget render
// pulls. Search matches title and body case-insensitively; Category is
// honored when non-empty (category feed widgets).
type ListOptions struct {
	Page     int
	PerPage  int
	Search   string
	Category string
}

// normalize clamps paging values to sane bounds.
func (o *ListOptions) normalize() {
	if o.Page < 1 {
		o.Page = 1
	}
	if o.PerPage < 1 {
		o.PerPage = models.DefaultItemsPerPage
	}
	if o.PerPage > 50 {
		o.PerPage = 50
	}
}

// ContentStore handles content-related database operations for the
// delivery path. It only ever reads; content is written by the
// dashboard application.
type ContentStore struct {
	db *sql.DB
}

// NewContentStore creates a new ContentStore with the given database
// connection.
func NewContentStore(db *sql.DB) *ContentStore {
	return &ContentStore{db: db}
}

// ListPublished returns the requested page of publicly visible content
// for a website (published status, publish date in the past), newest
// first, along with the total count of matching rows.
func (s *ContentStore) ListPublished(ctx context.Context, websiteID uuid.UUID, opts ListOptions) ([]models.ContentItem, int, error) {
	opts.normalize()

	where := `website_id = $1 AND status = 'published' AND published_at <= NOW()`
	args := []any{websiteID}

	if opts.Category != "" {
		args = append(args, opts.Category)
		where += fmt.Sprintf(` AND category = $%d`, len(args))
	}

	if opts.Search != "" {
		args = append(args, "%"+opts.Search+"%")
		where += fmt.Sprintf(` AND (title ILIKE $%d OR body ILIKE $%d)`, len(args), len(args))
	}

	var total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM content WHERE `+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count published content: %w", err)
	}

	args = append(args, opts.PerPage, (opts.Page-1)*opts.PerPage)
	query := fmt.Sprintf(`
		SELECT id, website_id, title, slug, body, excerpt, category, status,
		       published_at, view_count, created_at, updated_at
		FROM content
		WHERE %s
		ORDER BY published_at DESC, id
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list published content: %w", err)
	}
	defer rows.Close()

	var items []models.ContentItem
	for rows.Next() {
		var c models.ContentItem
		if err := rows.Scan(
			&c.ID, &c.WebsiteID, &c.Title, &c.Slug, &c.Body, &c.Excerpt,
			&c.Category, &c.Status, &c.PublishedAt, &c.ViewCount, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan content: %w", err)
		}
		items = append(items, c)
	}
	return items, total, rows.Err()
}

// FindByID retrieves a content item by its UUID. Returns nil if not
// found.
func (s *ContentStore) FindByID(ctx context.Context, id uuid.UUID) (*models.ContentItem, error) {
	c := &models.ContentItem{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, website_id, title, slug, body, excerpt, category, status,
		       published_at, view_count, created_at, updated_at
		FROM content WHERE id = $1
	`, id).Scan(
		&c.ID, &c.WebsiteID, &c.Title, &c.Slug, &c.Body, &c.Excerpt,
		&c.Category, &c.Status, &c.PublishedAt, &c.ViewCount, &c.CreatedAt, &c.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find content by id: %w", err)
	}
	return c, nil
}

// IncrementViews bumps a content item's view counter. Best-effort;
// analytics aggregation tolerates missed increments.
func (s *ContentStore) IncrementViews(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE content SET view_count = view_count + 1 WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	return nil
}
