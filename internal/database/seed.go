// Copyright (c) 2026 StorySlip Inc. <engineering@storyslip.io>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"storyslip/internal/auth"
)

// Seed populates development data: a demo website with a mix of
// published, draft, and scheduled content, a published and an
// unpublished widget, and one API key whose plaintext is logged once.
// It is a no-op when the demo website already exists.
func Seed(db *sql.DB) error {
	var exists bool
	err := db.QueryRow(`SELECT EXISTS (SELECT 1 FROM websites WHERE domain = 'demo.storyslip.local')`).Scan(&exists)
	if err != nil {
		return fmt.Errorf("seed check: %w", err)
	}
	if exists {
		slog.Debug("seed skipped — demo website already present")
		return nil
	}

	var websiteID uuid.UUID
	err = db.QueryRow(`
		INSERT INTO websites (name, domain)
		VALUES ('StorySlip Demo', 'demo.storyslip.local')
		RETURNING id
	`).Scan(&websiteID)
	if err != nil {
		return fmt.Errorf("seed website: %w", err)
	}

	now := time.Now().UTC()
	content := []struct {
		title, slug, body, excerpt, category, status string
		publishedAt                                  *time.Time
	}{
		{
			title:    "Welcome to StorySlip",
			slug:     "welcome",
			body:     "StorySlip turns your content into **embeddable widgets**.\n\nDrop a snippet on any page and your latest posts appear there.",
			excerpt:  "Turn your content into embeddable widgets.",
			category: "announcements",
			status:   "published", publishedAt: timePtr(now.Add(-72 * time.Hour)),
		},
		{
			title:    "Styling widgets with themes",
			slug:     "styling-widgets",
			body:     "Every widget ships with four themes: light, dark, minimal, and modern.\n\nPick one in the widget settings, or override it per embed with `?theme=`.",
			category: "guides",
			status:   "published", publishedAt: timePtr(now.Add(-48 * time.Hour)),
		},
		{
			title:    "Tracking widget engagement",
			slug:     "tracking-engagement",
			body:     "Impressions, clicks, and searches are tracked automatically by the embed script.",
			category: "guides",
			status:   "published", publishedAt: timePtr(now.Add(-24 * time.Hour)),
		},
		{
			title: "Roadmap draft",
			slug:  "roadmap-draft",
			body:  "Not ready yet.",
			// Never visible through public rendering.
			status: "draft",
		},
		{
			title:  "Scheduled launch post",
			slug:   "scheduled-launch",
			body:   "Goes live next week.",
			status: "published", publishedAt: timePtr(now.Add(7 * 24 * time.Hour)),
		},
	}

	for _, c := range content {
		var excerpt any
		if c.excerpt != "" {
			excerpt = c.excerpt
		}
		_, err := db.Exec(`
			INSERT INTO content (website_id, title, slug, body, excerpt, category, status, published_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, websiteID, c.title, c.slug, c.body, excerpt, c.category, c.status, c.publishedAt)
		if err != nil {
			return fmt.Errorf("seed content %q: %w", c.slug, err)
		}
	}

	var widgetID uuid.UUID
	err = db.QueryRow(`
		INSERT INTO widgets (website_id, title, description, type, settings, is_published)
		VALUES ($1, 'Latest from the demo blog', 'Homepage content feed', 'content',
		        '{"theme": "light", "layout": "list", "show_excerpts": true, "show_dates": true}', TRUE)
		RETURNING id
	`, websiteID).Scan(&widgetID)
	if err != nil {
		return fmt.Errorf("seed widget: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO widgets (website_id, title, type, settings, is_published)
		VALUES ($1, 'Guides search (unreleased)', 'search',
		        '{"placeholder": "Search the guides…", "min_query_length": 2}', FALSE)
	`, websiteID)
	if err != nil {
		return fmt.Errorf("seed draft widget: %w", err)
	}

	plaintext, digest, prefix, err := auth.GenerateKey()
	if err != nil {
		return fmt.Errorf("seed api key: %w", err)
	}
	_, err = db.Exec(`
		INSERT INTO api_keys (widget_id, label, key_digest, key_prefix, scopes)
		VALUES ($1, 'dev key', $2, $3, $4)
	`, widgetID, digest, prefix, []string{"read", "write"})
	if err != nil {
		return fmt.Errorf("seed api key insert: %w", err)
	}

	slog.Info("database seeded",
		"website_id", websiteID,
		"widget_id", widgetID,
	)
	// The plaintext is recoverable only here. Development convenience.
	slog.Info("dev api key generated — store it now, it is not shown again",
		"api_key", plaintext,
	)
	return nil
}

func timePtr(t time.Time) *time.Time { return &t }
