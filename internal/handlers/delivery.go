// Copyright (c) 2026 StorySlip Inc. <engineering@storyslip.io>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"storyslip/internal/cache"
	"storyslip/internal/models"
	"storyslip/internal/renderer"
	"storyslip/internal/store"
)

// WidgetSource resolves widgets. *store.WidgetStore satisfies it; tests
// substitute an in-memory fake.
type WidgetSource interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Widget, error)
}

// ContentSource lists the published content a render pulls.
// *store.ContentStore satisfies it.
type ContentSource interface {
	ListPublished(ctx context.Context, websiteID uuid.UUID, opts store.ListOptions) ([]models.ContentItem, int, error)
}

// EventSink records analytics events. *store.EventStore satisfies it.
type EventSink interface {
	Record(ctx context.Context, e models.WidgetEvent) error
}

// InvalidationAudit records cache purges. *store.InvalidationLogStore
// satisfies it.
type InvalidationAudit interface {
	Log(widgetID uuid.UUID, action, requestedBy string)
}

// Widgets groups the delivery handlers. It orchestrates the per-request
// state machine: resolve widget, check publication, consult the cache,
// render on miss, respond with conditional-request semantics.
type Widgets struct {
	widgets  WidgetSource
	content  ContentSource
	events   EventSink
	audit    InvalidationAudit
	renderer *renderer.Renderer
	cache    *cache.WidgetCache

	// publicBaseURL is the externally visible origin used in embed
	// snippets, e.g. "https://widgets.storyslip.io".
	publicBaseURL string

	// renderMaxAge is the Cache-Control max-age (seconds) on render
	// responses, aligned with the cache TTL.
	renderMaxAge int

	// flight coalesces concurrent renders of the same cache key so a
	// thundering herd on a cold key performs one render, not N.
	flight singleflight.Group
}

// NewWidgets creates the delivery handler group. audit may be nil when
// no audit sink is configured (tests).
func NewWidgets(
	widgets WidgetSource,
	content ContentSource,
	events EventSink,
	audit InvalidationAudit,
	rend *renderer.Renderer,
	bundleCache *cache.WidgetCache,
	publicBaseURL string,
	renderTTL time.Duration,
) *Widgets {
	if renderTTL <= 0 {
		renderTTL = cache.DefaultRenderTTL
	}
	return &Widgets{
		widgets:       widgets,
		content:       content,
		events:        events,
		audit:         audit,
		renderer:      rend,
		cache:         bundleCache,
		publicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
		renderMaxAge:  int(renderTTL.Seconds()),
	}
}

// renderParams are the render-affecting query parameters, parsed and
// normalized once per request.
type renderParams struct {
	format string
	page   int
	search string
	theme  string
}

// parseRenderParams validates the format parameter and normalizes the
// rest. An out-of-range page clamps to 1; an unknown theme is carried
// through and ignored by the renderer.
func parseRenderParams(r *http.Request) (renderParams, error) {
	q := r.URL.Query()

	p := renderParams{
		format: q.Get("format"),
		search: q.Get("search"),
		theme:  q.Get("theme"),
	}
	if p.format == "" {
		p.format = "json"
	}
	if p.format != "json" && p.format != "html" {
		return p, fmt.Errorf("format must be json or html")
	}

	p.page = 1
	if raw := q.Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 1 {
			p.page = n
		}
	}
	return p, nil
}

// Render serves GET /widgets/public/{widgetID}/render. Unknown,
// malformed, and unpublished widget ids all answer an identical 404 so
// the endpoint leaks no existence information.
func (h *Widgets) Render(w http.ResponseWriter, r *http.Request) {
	widget := h.resolvePublic(w, r)
	if widget == nil {
		return
	}

	params, err := parseRenderParams(r)
	if err != nil {
		respondFieldError(w, http.StatusBadRequest, CodeValidationError, err.Error(), "format")
		return
	}

	bundle, err := h.renderBundle(r.Context(), widget, params)
	if err != nil {
		h.renderFailure(w, widget.ID, params, err)
		return
	}

	h.respondBundle(w, r, bundle, params.format)
}

// resolvePublic looks up the widget in the URL and enforces public
// visibility. On failure it writes the 404 envelope and returns nil.
func (h *Widgets) resolvePublic(w http.ResponseWriter, r *http.Request) *models.Widget {
	widget := h.resolveAny(w, r)
	if widget == nil {
		return nil
	}
	if !widget.IsPublished {
		respondError(w, http.StatusNotFound, CodeWidgetNotFound, "widget not found")
		return nil
	}
	return widget
}

// resolveAny looks up the widget in the URL regardless of publication
// state. On failure it writes the 404 envelope and returns nil.
func (h *Widgets) resolveAny(w http.ResponseWriter, r *http.Request) *models.Widget {
	id, err := uuid.Parse(chi.URLParam(r, "widgetID"))
	if err != nil {
		respondError(w, http.StatusNotFound, CodeWidgetNotFound, "widget not found")
		return nil
	}

	widget, err := h.widgets.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("widget lookup failed", "widget_id", id, "error", err)
		respondError(w, http.StatusInternalServerError, CodeInternalError, "internal server error")
		return nil
	}
	if widget == nil {
		respondError(w, http.StatusNotFound, CodeWidgetNotFound, "widget not found")
		return nil
	}
	return widget
}

// renderBundle returns the bundle for the request, from cache when
// possible. Concurrent misses for the same key share one render.
func (h *Widgets) renderBundle(ctx context.Context, widget *models.Widget, p renderParams) (*renderer.Bundle, error) {
	key := cache.RenderKey(widget.ID, p.format, p.page, p.search, p.theme)

	if bundle, ok := h.cache.GetBundle(ctx, key); ok {
		return bundle, nil
	}

	v, err, _ := h.flight.Do(key, func() (any, error) {
		// A coalesced waiter may arrive after the leader already
		// populated the cache.
		if bundle, ok := h.cache.GetBundle(ctx, key); ok {
			return bundle, nil
		}

		bundle, err := h.renderFresh(ctx, widget, p)
		if err != nil {
			return nil, err
		}
		h.cache.SetBundle(ctx, key, bundle)
		return bundle, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*renderer.Bundle), nil
}

// renderFresh queries content and runs the full render + optimize
// pipeline, bypassing the cache.
func (h *Widgets) renderFresh(ctx context.Context, widget *models.Widget, p renderParams) (*renderer.Bundle, error) {
	settings, err := widget.ParsedSettings()
	if err != nil {
		return nil, &renderer.RenderError{
			WidgetID: widget.ID.String(),
			Reason:   "malformed widget settings",
			Err:      err,
		}
	}
	display := settings.Display()

	opts := store.ListOptions{
		Page:    p.page,
		PerPage: display.ItemsPerPage,
		Search:  p.search,
	}
	if cf, ok := settings.(models.CategoryFeedSettings); ok {
		opts.Category = cf.Category
	}
	if sb, ok := settings.(models.SearchBoxSettings); ok {
		// Queries below the configured minimum behave like no query.
		if len([]rune(p.search)) < sb.MinQueryLength {
			opts.Search = ""
		}
	}

	items, _, err := h.content.ListPublished(ctx, widget.WebsiteID, opts)
	if err != nil {
		return nil, fmt.Errorf("list content for widget %s: %w", widget.ID, err)
	}

	bundle, err := h.renderer.Render(widget, items, renderer.Options{
		Page:   p.page,
		Search: p.search,
		Theme:  p.theme,
	})
	if err != nil {
		return nil, err
	}

	optimized, applied := cache.Optimize(bundle)
	slog.Debug("widget rendered",
		"widget_id", widget.ID,
		"items", len(items),
		"optimizations", applied,
	)
	return optimized, nil
}

// renderFailure maps pipeline errors to the 500 RENDER_ERROR response,
// logging enough context to reproduce without leaking internals.
func (h *Widgets) renderFailure(w http.ResponseWriter, widgetID uuid.UUID, p renderParams, err error) {
	var rerr *renderer.RenderError
	if errors.As(err, &rerr) {
		slog.Error("widget render failed",
			"widget_id", widgetID,
			"reason", rerr.Reason,
			"error", err,
		)
	} else {
		slog.Error("widget render failed",
			"widget_id", widgetID,
			"format", p.format,
			"page", p.page,
			"error", err,
		)
	}
	respondError(w, http.StatusInternalServerError, CodeRenderError, "widget render failed")
}

// respondBundle writes the bundle in the requested format with ETag and
// Cache-Control headers, answering 304 on a matching If-None-Match.
// The ETag is computed from the final payload so the conditional law
// holds across a miss-then-render.
func (h *Widgets) respondBundle(w http.ResponseWriter, r *http.Request, bundle *renderer.Bundle, format string) {
	var (
		body        []byte
		contentType string
		err         error
	)
	switch format {
	case "html":
		body, err = htmlDocument(bundle)
		contentType = "text/html; charset=utf-8"
	default:
		body, err = json.Marshal(envelope{Success: true, Data: bundle})
		contentType = "application/json; charset=utf-8"
	}
	if err != nil {
		slog.Error("encode render response failed", "error", err)
		respondError(w, http.StatusInternalServerError, CodeInternalError, "internal server error")
		return
	}

	etag := bodyETag(body)
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", h.renderMaxAge))

	if etagMatches(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Write(body)
}

// bodyETag derives a strong ETag from the response payload.
func bodyETag(body []byte) string {
	sum := sha256.Sum256(body)
	return `"` + hex.EncodeToString(sum[:16]) + `"`
}

// etagMatches reports whether an If-None-Match header value matches the
// given ETag. Weak validators compare by opaque value; "*" matches any
// representation.
func etagMatches(header, etag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		candidate = strings.TrimPrefix(candidate, "W/")
		if candidate == "*" || candidate == etag {
			return true
		}
	}
	return false
}

// docView adapts a bundle for the full-document template. The typed
// fields keep html/template from re-escaping content the renderer
// already produced.
type docView struct {
	Title  string
	Meta   renderer.Metadata
	CSS    template.CSS
	Body   template.HTML
	Script template.JS
}

var docTmpl = template.Must(template.New("document").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
{{range .Meta.OGTags}}<meta property="{{.Property}}" content="{{.Content}}">
{{end}}<style>{{.CSS}}</style>
</head>
<body>
{{.Body}}{{if .Script}}<script>{{.Script}}</script>
{{end}}</body>
</html>
`))

// htmlDocument wraps a bundle in a complete standalone page, used by
// iframe embeds and the format=html render path.
func htmlDocument(bundle *renderer.Bundle) ([]byte, error) {
	var buf bytes.Buffer
	err := docTmpl.Execute(&buf, docView{
		Title:  bundle.Meta.Title,
		Meta:   bundle.Meta,
		CSS:    template.CSS(bundle.CSS),
		Body:   template.HTML(bundle.HTML),
		Script: template.JS(bundle.JS),
	})
	if err != nil {
		return nil, fmt.Errorf("execute document template: %w", err)
	}
	return buf.Bytes(), nil
}
