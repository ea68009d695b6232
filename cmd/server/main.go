// Package main is the entry point for the kavim server.
package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/kavim-app/kavim/internal/api"
	"github.com/kavim-app/kavim/internal/config"
	"github.com/kavim-app/kavim/internal/enrich"
	"github.com/kavim-app/kavim/internal/gtfs"
	"github.com/kavim-app/kavim/internal/metrics"
	"github.com/kavim-app/kavim/internal/places"
	"github.com/kavim-app/kavim/internal/realtime"
	"github.com/kavim-app/kavim/internal/routing"
)

func main() {
	// Load .env into environment (ignore if missing)
	_ = godotenv.Load()

	cfg := config.Load()
	logger := newLogger(cfg)

	if err := cfg.Validate(); err != nil {
		logger.Error("configuration error", "error", err)
		os.Exit(1)
	}

	collector := metrics.NewCollector()

	directions := routing.NewService(cfg.GoogleAPIKey, cfg.DirectionsTimeout)
	cities := places.NewService(cfg.GoogleAPIKey, cfg.PlacesTimeout, logger)
	stops := gtfs.NewStopService(cfg.RegistryTimeout, logger)
	feed := realtime.NewFeedService(cfg.RealtimeTimeout)

	enricher := enrich.New(directions, cities, stops, feed, logger, collector, enrich.Options{
		MaxRoutes:          cfg.MaxRoutes,
		StopLookupDeadline: cfg.StopLookupDeadline,
		RealtimeDeadline:   cfg.RealtimeDeadline,
	})

	router := api.NewRouter(enricher, collector, logger)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: api.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("kavim server starting", "port", cfg.Port, "env", cfg.Env, "max_routes", cfg.MaxRoutes)

	if err := server.ListenAndServe(); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	if cfg.IsDevelopment() {
		return slog.New(slog.NewTextHandler(os.Stdout, nil))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, nil))
}
