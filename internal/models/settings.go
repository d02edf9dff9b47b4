// Copyright (c) 2026 StorySlip Inc. <engineering@storyslip.io>
// All rights reserved. See LICENSE for details.

// settings.go models widget settings as a tagged variant per widget
// type instead of a free-form configuration bag. Each variant embeds
// the shared DisplayOptions and is validated at write time, so the
// renderer can switch exhaustively on the concrete type.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Known themes and layouts accepted by the renderer.
const (
	ThemeLight   = "light"
	ThemeDark    = "dark"
	ThemeMinimal = "minimal"
	ThemeModern  = "modern"

	LayoutList  = "list"
	LayoutGrid  = "grid"
	LayoutCards = "cards"
)

// DefaultItemsPerPage is used when a widget does not set a page size.
const DefaultItemsPerPage = 10

// maxItemsPerPage bounds how much content a single render may pull.
const maxItemsPerPage = 50

// DisplayOptions are the presentation settings shared by every widget
// type.
type DisplayOptions struct {
	Theme        string `json:"theme"`
	Layout       string `json:"layout"`
	ItemsPerPage int    `json:"items_per_page"`
	ShowExcerpts bool   `json:"show_excerpts"`
	ShowDates    bool   `json:"show_dates"`
}

// normalize fills unset fields with defaults.
func (d *DisplayOptions) normalize() {
	if d.Theme == "" {
		d.Theme = ThemeLight
	}
	if d.Layout == "" {
		d.Layout = LayoutList
	}
	if d.ItemsPerPage == 0 {
		d.ItemsPerPage = DefaultItemsPerPage
	}
}

func (d *DisplayOptions) validate() error {
	switch d.Theme {
	case ThemeLight, ThemeDark, ThemeMinimal, ThemeModern:
	default:
		return fmt.Errorf("unknown theme %q", d.Theme)
	}
	switch d.Layout {
	case LayoutList, LayoutGrid, LayoutCards:
	default:
		return fmt.Errorf("unknown layout %q", d.Layout)
	}
	if d.ItemsPerPage < 1 || d.ItemsPerPage > maxItemsPerPage {
		return fmt.Errorf("items_per_page must be between 1 and %d", maxItemsPerPage)
	}
	return nil
}

// WidgetSettings is the tagged variant interface implemented by the
// per-type settings structs.
type WidgetSettings interface {
	// Display returns the shared presentation options.
	Display() DisplayOptions
	// Validate checks variant-specific constraints.
	Validate() error
}

// ContentListSettings configures a plain published-content listing.
type ContentListSettings struct {
	DisplayOptions
}

// Display implements WidgetSettings.
func (s ContentListSettings) Display() DisplayOptions { return s.DisplayOptions }

// Validate implements WidgetSettings.
func (s ContentListSettings) Validate() error { return s.DisplayOptions.validate() }

// CategoryFeedSettings configures a listing filtered to one category.
type CategoryFeedSettings struct {
	DisplayOptions
	Category string `json:"category"`
}

// Display implements WidgetSettings.
func (s CategoryFeedSettings) Display() DisplayOptions { return s.DisplayOptions }

// Validate implements WidgetSettings.
func (s CategoryFeedSettings) Validate() error {
	if s.Category == "" {
		return fmt.Errorf("category is required")
	}
	return s.DisplayOptions.validate()
}

// SearchBoxSettings configures a searchable listing with a query box.
type SearchBoxSettings struct {
	DisplayOptions
	Placeholder    string `json:"placeholder"`
	MinQueryLength int    `json:"min_query_length"`
}

// Display implements WidgetSettings.
func (s SearchBoxSettings) Display() DisplayOptions { return s.DisplayOptions }

// Validate implements WidgetSettings.
func (s SearchBoxSettings) Validate() error {
	if s.MinQueryLength < 0 || s.MinQueryLength > 64 {
		return fmt.Errorf("min_query_length must be between 0 and 64")
	}
	return s.DisplayOptions.validate()
}

// ParseSettings decodes a settings blob into the variant matching the
// widget type, applies defaults, and validates it. An empty blob is
// treated as all-defaults for types with no required fields.
func ParseSettings(t WidgetType, raw json.RawMessage) (WidgetSettings, error) {
	if len(raw) == 0 {
		raw = json.RawMessage(`{}`)
	}

	dec := func(v any) error {
		d := json.NewDecoder(bytes.NewReader(raw))
		d.DisallowUnknownFields()
		return d.Decode(v)
	}

	switch t {
	case WidgetTypeContent:
		var s ContentListSettings
		if err := dec(&s); err != nil {
			return nil, fmt.Errorf("parse content settings: %w", err)
		}
		s.normalize()
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("validate content settings: %w", err)
		}
		return s, nil
	case WidgetTypeCategory:
		var s CategoryFeedSettings
		if err := dec(&s); err != nil {
			return nil, fmt.Errorf("parse category settings: %w", err)
		}
		s.normalize()
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("validate category settings: %w", err)
		}
		return s, nil
	case WidgetTypeSearch:
		var s SearchBoxSettings
		if err := dec(&s); err != nil {
			return nil, fmt.Errorf("parse search settings: %w", err)
		}
		s.normalize()
		if s.Placeholder == "" {
			s.Placeholder = "Search…"
		}
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("validate search settings: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown widget type %q", t)
	}
}
