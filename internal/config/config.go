// Package config handles application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds all application configuration.
//
// The timeout defaults mirror the latency budget of each upstream: the
// registry dump is large (5s), the real-time feed must stay snappy (2s fetch
// inside a 3s deadline) and the whole stop-code resolution is capped at 8s.
type Config struct {
	Port string
	Env  string

	GoogleAPIKey string `validate:"required"`
	MaxRoutes    int    `validate:"min=1"`

	DirectionsTimeout  time.Duration
	PlacesTimeout      time.Duration
	RegistryTimeout    time.Duration
	RealtimeTimeout    time.Duration
	RealtimeDeadline   time.Duration
	StopLookupDeadline time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "3000"),
		Env:          getEnv("ENV", "development"),
		GoogleAPIKey: getEnv("GOOGLE_API_KEY", ""),
		MaxRoutes:    getIntEnv("MAX_ROUTES", 2),

		DirectionsTimeout:  getDurationEnv("DIRECTIONS_TIMEOUT_SECONDS", 10),
		PlacesTimeout:      getDurationEnv("PLACES_TIMEOUT_SECONDS", 5),
		RegistryTimeout:    getDurationEnv("GTFS_TIMEOUT_SECONDS", 5),
		RealtimeTimeout:    getDurationEnv("REALTIME_TIMEOUT_SECONDS", 2),
		RealtimeDeadline:   getDurationEnv("REALTIME_DEADLINE_SECONDS", 3),
		StopLookupDeadline: getDurationEnv("STOP_LOOKUP_DEADLINE_SECONDS", 8),
	}
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Validate checks that required configuration is present. A missing API key is
// fatal: the service cannot place a single upstream call without it.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultSeconds int) time.Duration {
	if value := os.Getenv(key); value != "" {
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return time.Duration(defaultSeconds) * time.Second
}
