// Copyright (c) 2026 StorySlip Inc. <engineering@storyslip.io>
// All rights reserved. See LICENSE for details.

// widget.go is the typed layer over Store for rendered widget bundles:
// deterministic cache key derivation, JSON encoding of bundles, and
// per-widget prefix invalidation.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/google/uuid"

	"storyslip/internal/renderer"
)

const (
	// renderKeyPrefix namespaces rendered bundle entries.
	renderKeyPrefix = "widget:"

	// DefaultRenderTTL is how long a rendered bundle stays cached.
	DefaultRenderTTL = 5 * time.Minute

	// ScriptTTL is the cache lifetime for static assets such as the
	// embed bootstrap script.
	ScriptTTL = 24 * time.Hour
)

// WidgetCache stores rendered widget bundles in a Store with a
// configurable TTL.
type WidgetCache struct {
	store Store
	ttl   time.Duration
}

// NewWidgetCache creates a bundle cache over the given store.
func NewWidgetCache(store Store, ttl time.Duration) *WidgetCache {
	if ttl == 0 {
		ttl = DefaultRenderTTL
	}
	return &WidgetCache{store: store, ttl: ttl}
}

// RenderKey derives the cache key for a render request. The key is a
// deterministic function of the widget id and every render-affecting
// parameter, and is prefixed by the widget id so InvalidateWidget can
// purge all of a widget's entries at once.
func RenderKey(widgetID uuid.UUID, format string, page int, search, theme string) string {
	return fmt.Sprintf("%s%s:f=%s:p=%d:q=%s:t=%s",
		renderKeyPrefix, widgetID, format, page, url.QueryEscape(search), theme)
}

// GetBundle retrieves a cached bundle. Returns ok=false on miss or
// when a stored entry cannot be decoded (treated as a miss — the entry
// is overwritten on the subsequent Set).
func (c *WidgetCache) GetBundle(ctx context.Context, key string) (*renderer.Bundle, bool) {
	raw, ok := c.store.Get(ctx, key)
	if !ok {
		return nil, false
	}

	var bundle renderer.Bundle
	if err := json.Unmarshal(raw, &bundle); err != nil {
		slog.Warn("widget cache decode error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("widget cache hit", "key", key)
	return &bundle, true
}

// SetBundle stores a rendered bundle under the given key.
func (c *WidgetCache) SetBundle(ctx context.Context, key string, bundle *renderer.Bundle) {
	raw, err := json.Marshal(bundle)
	if err != nil {
		slog.Warn("widget cache encode error", "key", key, "error", err)
		return
	}
	c.store.Set(ctx, key, raw, c.ttl)
}

// InvalidateWidget removes every cached entry for the widget,
// whichever format, page, search, or theme produced it. Called when a
// widget's configuration or its content set changes so stale renders
// are never served indefinitely.
func (c *WidgetCache) InvalidateWidget(ctx context.Context, widgetID uuid.UUID) int {
	removed := c.store.InvalidatePrefix(ctx, renderKeyPrefix+widgetID.String()+":")
	slog.Debug("widget cache invalidated", "widget_id", widgetID, "removed", removed)
	return removed
}
