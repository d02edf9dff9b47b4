// Copyright (c) 2026 StorySlip Inc. <engineering@storyslip.io>
// All rights reserved. See LICENSE for details.

// Package renderer turns a widget configuration and a page of content
// items into an embeddable HTML fragment, a stylesheet, and an
// optional JS bootstrap snippet. Rendering is a pure function of its
// inputs: the same widget, items, and options always produce
// byte-identical output, which makes cached bundles and ETags safe.
package renderer

import "fmt"

// MetaTag is a single Open Graph property/content pair. Tags are held
// in a slice, not a map, so their order is stable.
type MetaTag struct {
	Property string `json:"property"`
	Content  string `json:"content"`
}

// Metadata describes the rendered widget for host pages: a title and
// Open Graph tags derived from the widget and its first content item.
type Metadata struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	OGTags      []MetaTag `json:"og_tags"`
}

// Bundle is a complete widget render: fragment, stylesheet, optional
// bootstrap JS, and page metadata. A bundle is always complete — the
// renderer never emits a truncated fragment.
type Bundle struct {
	HTML string   `json:"html"`
	CSS  string   `json:"css"`
	JS   string   `json:"js,omitempty"`
	Meta Metadata `json:"meta"`
}

// RenderError is a typed render failure. It distinguishes a bad
// widget configuration (corrupt stored settings, template execution
// failure) from a process fault; the delivery endpoint maps it to a
// 500 RENDER_ERROR response without leaking internals.
type RenderError struct {
	WidgetID string
	Reason   string
	Err      error
}

// Error implements error.
func (e *RenderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("render widget %s: %s: %v", e.WidgetID, e.Reason, e.Err)
	}
	return fmt.Sprintf("render widget %s: %s", e.WidgetID, e.Reason)
}

// Unwrap exposes the underlying cause for errors.Is/As.
func (e *RenderError) Unwrap() error { return e.Err }
