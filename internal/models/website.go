// Copyright (c) 2026 StorySlip Inc. <engineering@storyslip.io>
// All rights reserved. See LICENSE for details.

// Package models defines the domain types shared across the delivery
// service: websites, content, widgets, API keys, and analytics events.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Website is a tenant. Every widget and content item belongs to
// exactly one website, and a widget only ever renders content from its
// own website.
type Website struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Domain    string    `json:"domain"`
	CreatedAt time.Time `json:"created_at"`
}
