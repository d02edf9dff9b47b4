// Copyright (c) 2026 StorySlip Inc. <engineering@storyslip.io>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"html"
	"net/http"
)

// Embed serves GET /widgets/embed/{widgetID}?type={javascript|iframe|amp}.
// It produces only the snippet a site owner pastes into their page; the
// snippet itself fetches the rendered widget.
func (h *Widgets) Embed(w http.ResponseWriter, r *http.Request) {
	widget := h.resolvePublic(w, r)
	if widget == nil {
		return
	}

	embedType := r.URL.Query().Get("type")
	if embedType == "" {
		embedType = "javascript"
	}

	var snippet string
	switch embedType {
	case "javascript":
		snippet = fmt.Sprintf(
			"<div data-storyslip-widget=%q></div>\n<script src=%q async></script>\n",
			widget.ID, h.publicBaseURL+"/widgets/script.js",
		)
	case "iframe":
		snippet = fmt.Sprintf(
			"<iframe src=%q title=%q loading=\"lazy\" style=\"width:100%%;border:0;\"></iframe>\n",
			h.renderURL(widget.ID.String()), html.EscapeString(widget.Title),
		)
	case "amp":
		snippet = fmt.Sprintf(
			"<amp-iframe src=%q width=\"600\" height=\"400\" layout=\"responsive\" sandbox=\"allow-scripts allow-same-origin\" frameborder=\"0\"></amp-iframe>\n",
			h.renderURL(widget.ID.String()),
		)
	default:
		respondFieldError(w, http.StatusBadRequest, CodeValidationError,
			"type must be javascript, iframe, or amp", "type")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write([]byte(snippet))
}

// renderURL is the absolute format=html render URL used by frame-based
// embeds.
func (h *Widgets) renderURL(widgetID string) string {
	return fmt.Sprintf("%s/widgets/public/%s/render?format=html", h.publicBaseURL, widgetID)
}
