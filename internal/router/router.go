// Copyright (c) 2026 StorySlip Inc. <engineering@storyslip.io>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// widget delivery service. It organizes routes into public and
// key-scoped groups with appropriate middleware stacks.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"storyslip/internal/auth"
	"storyslip/internal/handlers"
	"storyslip/internal/middleware"
	"storyslip/internal/models"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(gate *auth.Gate, widgets *handlers.Widgets) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.CORS)

	// Health check — no auth.
	r.Get("/health", healthHandler)

	// Public widget routes — unauthenticated, embed-facing.
	r.Route("/widgets", func(r chi.Router) {
		r.Get("/script.js", widgets.Script)
		r.Get("/public/{widgetID}/render", widgets.Render)
		r.Get("/embed/{widgetID}", widgets.Embed)
		r.Post("/{widgetID}/analytics/track", widgets.Track)
	})

	// Key-scoped routes — X-API-Key validated, per-key rate limited.
	r.Route("/api/v1/widgets/{widgetID}", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.APIKeyAuth(gate, models.ScopeRead))
			r.Get("/render", widgets.APIRender)
		})
		r.Group(func(r chi.Router) {
			r.Use(middleware.APIKeyAuth(gate, models.ScopeWrite))
			r.Post("/cache/invalidate", widgets.InvalidateCache)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
