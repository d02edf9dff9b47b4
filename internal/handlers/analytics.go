// Copyright (c) 2026 StorySlip Inc. <engineering@storyslip.io>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"storyslip/internal/models"
)

// analyticsTimeout bounds the background event insert.
const analyticsTimeout = 5 * time.Second

// trackRequest is the analytics event payload posted by embedded
// widgets.
type trackRequest struct {
	Type      string     `json:"type"`
	URL       string     `json:"url"`
	Referrer  string     `json:"referrer"`
	UserAgent string     `json:"user_agent"`
	Timestamp *time.Time `json:"timestamp"`
}

// Track serves POST /widgets/{widgetID}/analytics/track. The event is
// validated synchronously but persisted in the background: tracking is
// fire-and-forget and must never block or fail the render path.
func (h *Widgets) Track(w http.ResponseWriter, r *http.Request) {
	widget := h.resolveAny(w, r)
	if widget == nil {
		return
	}

	var req trackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, CodeValidationError, "invalid JSON body")
		return
	}
	if req.Type == "" {
		respondFieldError(w, http.StatusBadRequest, CodeValidationError, "type is required", "type")
		return
	}
	if !validEventURL(req.URL) {
		respondFieldError(w, http.StatusBadRequest, CodeValidationError, "url must be an absolute http(s) URL", "url")
		return
	}

	event := models.WidgetEvent{
		WidgetID:   widget.ID,
		EventType:  req.Type,
		URL:        req.URL,
		Referrer:   req.Referrer,
		UserAgent:  req.UserAgent,
		OccurredAt: time.Now().UTC(),
	}
	if event.UserAgent == "" {
		event.UserAgent = r.UserAgent()
	}
	if event.Referrer == "" {
		event.Referrer = r.Referer()
	}
	if req.Timestamp != nil {
		event.OccurredAt = req.Timestamp.UTC()
	}

	// Detach from the request context so a client disconnect does not
	// abort the insert.
	go func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), analyticsTimeout)
		defer cancel()
		if err := h.events.Record(ctx, event); err != nil {
			slog.Warn("record widget event failed",
				"widget_id", event.WidgetID,
				"event_type", event.EventType,
				"error", err,
			)
		}
	}()

	respondData(w, http.StatusOK, map[string]bool{"tracked": true})
}

// validEventURL accepts absolute http(s) URLs only.
func validEventURL(raw string) bool {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
