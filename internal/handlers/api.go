// Copyright (c) 2026 StorySlip Inc. <engineering@storyslip.io>
// All rights reserved. See LICENSE for details.

// api.go holds the key-scoped routes. The APIKeyAuth middleware has
// already authenticated the key and charged its rate limit before these
// handlers run; they only enforce that the key owns the widget in the
// URL. An ownership mismatch answers the same 404 as a missing widget
// so keys cannot probe for other tenants' widget ids.
package handlers

import (
	"net/http"

	"storyslip/internal/middleware"
	"storyslip/internal/models"
)

// APIRender serves GET /api/v1/widgets/{widgetID}/render (read scope).
// Unlike the public route it renders unpublished widgets too, which is
// how integrations preview drafts.
func (h *Widgets) APIRender(w http.ResponseWriter, r *http.Request) {
	widget := h.resolveOwned(w, r)
	if widget == nil {
		return
	}

	params, err := parseRenderParams(r)
	if err != nil {
		respondFieldError(w, http.StatusBadRequest, CodeValidationError, err.Error(), "format")
		return
	}

	if widget.IsPublished {
		bundle, err := h.renderBundle(r.Context(), widget, params)
		if err != nil {
			h.renderFailure(w, widget.ID, params, err)
			return
		}
		h.respondBundle(w, r, bundle, params.format)
		return
	}

	// Draft previews stay out of the shared bundle cache.
	bundle, err := h.renderFresh(r.Context(), widget, params)
	if err != nil {
		h.renderFailure(w, widget.ID, params, err)
		return
	}
	h.respondBundle(w, r, bundle, params.format)
}

// InvalidateCache serves POST /api/v1/widgets/{widgetID}/cache/invalidate
// (write scope). It purges every cached render for the widget and
// records an audit row attributing the purge to the key.
func (h *Widgets) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	widget := h.resolveOwned(w, r)
	if widget == nil {
		return
	}

	removed := h.cache.InvalidateWidget(r.Context(), widget.ID)

	if h.audit != nil {
		requestedBy := "system"
		if key := middleware.APIKeyFromCtx(r.Context()); key != nil {
			requestedBy = "key:" + key.KeyPrefix
		}
		h.audit.Log(widget.ID, "invalidate", requestedBy)
	}

	respondData(w, http.StatusOK, map[string]int{"invalidated": removed})
}

// resolveOwned looks up the widget in the URL and checks the
// authenticated key owns it. On failure it writes the 404 envelope and
// returns nil.
func (h *Widgets) resolveOwned(w http.ResponseWriter, r *http.Request) *models.Widget {
	widget := h.resolveAny(w, r)
	if widget == nil {
		return nil
	}

	key := middleware.APIKeyFromCtx(r.Context())
	if key == nil || key.WidgetID != widget.ID {
		respondError(w, http.StatusNotFound, CodeWidgetNotFound, "widget not found")
		return nil
	}
	return widget
}
