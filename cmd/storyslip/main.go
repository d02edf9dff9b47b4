// Copyright (c) 2026 StorySlip Inc. <engineering@storyslip.io>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the StorySlip widget delivery
// server. It loads configuration, connects to services, sets up
// routing, and starts the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storyslip/internal/auth"
	"storyslip/internal/cache"
	"storyslip/internal/config"
	"storyslip/internal/database"
	"storyslip/internal/handlers"
	"storyslip/internal/limiter"
	"storyslip/internal/renderer"
	"storyslip/internal/router"
	"storyslip/internal/store"
)

func main() {
	// Structured logger — text output; swap the handler for JSON when a
	// log pipeline wants it.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"public_base_url", cfg.PublicBaseURL,
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Cache and rate-limit backends. Valkey is optional: without it the
	// service runs with process-local state, which is fine for a single
	// instance and leaves multi-instance deployments with the documented
	// staleness/quota multiplication caveats.
	var (
		cacheStore cache.Store
		rateLim    limiter.Limiter
	)
	if addr := cfg.ValkeyAddr(); addr != "" {
		valkeyClient, err := cache.ConnectValkey(addr, cfg.ValkeyPassword)
		if err != nil {
			slog.Error("failed to connect to valkey", "error", err)
			os.Exit(1)
		}
		defer valkeyClient.Close()

		cacheStore = cache.NewValkeyStore(valkeyClient)
		rateLim = limiter.NewValkeyLimiter(valkeyClient, cfg.RateLimit, cfg.RateWindow)
	} else {
		slog.Warn("valkey not configured — using process-local cache and rate limits")
		memStore := cache.NewMemoryStore()
		defer memStore.Stop()
		memLim := limiter.NewMemoryLimiter(cfg.RateLimit, cfg.RateWindow)
		defer memLim.Stop()

		cacheStore = memStore
		rateLim = memLim
	}

	// Initialize data stores.
	widgetStore := store.NewWidgetStore(db)
	contentStore := store.NewContentStore(db)
	apiKeyStore := store.NewAPIKeyStore(db)
	eventStore := store.NewEventStore(db)
	invalidationLog := store.NewInvalidationLogStore(db)

	// Auth gate: API key validation plus per-key rate limiting.
	gate := auth.NewGate(apiKeyStore, rateLim)

	// Delivery pipeline: renderer + bundle cache + handler group.
	widgetHandlers := handlers.NewWidgets(
		widgetStore,
		contentStore,
		eventStore,
		invalidationLog,
		renderer.New(),
		cache.NewWidgetCache(cacheStore, cfg.RenderCacheTTL),
		cfg.PublicBaseURL,
		cfg.RenderCacheTTL,
	)

	// Set up the Chi router with all middleware and routes.
	r := router.New(gate, widgetHandlers)

	// Create the HTTP server with sensible timeouts. Renders are cheap,
	// so the write timeout stays short.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
