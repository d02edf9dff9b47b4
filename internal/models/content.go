// Copyright (c) 2026 StorySlip Inc. <engineering@storyslip.io>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// ContentStatus represents the publishing state of a content item.
type ContentStatus string

const (
	ContentStatusDraft     ContentStatus = "draft"
	ContentStatusPublished ContentStatus = "published"
	ContentStatusScheduled ContentStatus = "scheduled"
	ContentStatusArchived  ContentStatus = "archived"
)

// ContentItem is a single piece of content belonging to a website.
// Bodies are stored as Markdown source and converted at render time.
type ContentItem struct {
	ID          uuid.UUID     `json:"id"`
	WebsiteID   uuid.UUID     `json:"website_id"`
	Title       string        `json:"title"`
	Slug        string        `json:"slug"`
	Body        string        `json:"body"`
	Excerpt     *string       `json:"excerpt,omitempty"`
	Category    string        `json:"category,omitempty"`
	Status      ContentStatus `json:"status"`
	PublishedAt *time.Time    `json:"published_at,omitempty"`
	ViewCount   int64         `json:"view_count"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// IsPublic reports whether the item is eligible for public widget
// rendering: published status with a publish date that has passed.
func (c *ContentItem) IsPublic(now time.Time) bool {
	if c.Status != ContentStatusPublished {
		return false
	}
	return c.PublishedAt != nil && !c.PublishedAt.After(now)
}
