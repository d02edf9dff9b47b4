// Copyright (c) 2026 StorySlip Inc. <engineering@storyslip.io>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// WidgetType selects which settings variant a widget carries and how
// the renderer lays out its content.
type WidgetType string

const (
	WidgetTypeContent  WidgetType = "content"
	WidgetTypeCategory WidgetType = "category"
	WidgetTypeSearch   WidgetType = "search"
)

// Valid reports whether the widget type is one of the known variants.
func (t WidgetType) Valid() bool {
	switch t {
	case WidgetTypeContent, WidgetTypeCategory, WidgetTypeSearch:
		return true
	}
	return false
}

// Widget is a configured, embeddable rendering of a website's content.
// Settings is the raw JSONB blob as stored; ParsedSettings decodes it
// into the typed variant matching Type.
//
// An unpublished widget is invisible to the public render path — it
// serves "not found", never "forbidden", so its existence is not
// leaked.
type Widget struct {
	ID          uuid.UUID       `json:"id"`
	WebsiteID   uuid.UUID       `json:"website_id"`
	Title       string          `json:"title"`
	Description *string         `json:"description,omitempty"`
	Type        WidgetType      `json:"type"`
	Settings    json.RawMessage `json:"settings"`
	IsPublished bool            `json:"is_published"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ParsedSettings decodes the stored settings blob into the typed
// variant for the widget's type. Settings are validated when written,
// so a decode failure here means the stored row is corrupt.
func (w *Widget) ParsedSettings() (WidgetSettings, error) {
	return ParseSettings(w.Type, w.Settings)
}
