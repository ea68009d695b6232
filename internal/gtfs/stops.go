// Package gtfs looks up stop codes in the national GTFS stop registry.
//
// The routing API reports stops by free-text name while the real-time feed is
// keyed by stop code; this package bridges the two through the stride registry,
// which is indexed by city.
package gtfs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kavim-app/kavim/internal/models"
)

const (
	defaultRegistryURL = "https://open-bus-stride-api.hasadna.org.il"
	registryPageLimit  = 500000
)

// StopService fetches a city's stop registry and resolves stop names to codes.
type StopService struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
	now     func() time.Time
}

// NewStopService creates a stop service with the given registry fetch timeout.
func NewStopService(timeout time.Duration, logger *slog.Logger) *StopService {
	return &StopService{
		baseURL: defaultRegistryURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
		now:     time.Now,
	}
}

// Lookup resolves a stop name to its feed stop code within a city's registry.
// Registry fetch failures are logged and reported as not-found: stop resolution
// feeds an optional enrichment and must not fail the enclosing request.
func (s *StopService) Lookup(ctx context.Context, city, stopName string) (string, bool) {
	stops, err := s.fetchStops(ctx, city)
	if err != nil {
		s.logger.Warn("fetching gtfs stops failed", "city", city, "error", err)
		return "", false
	}
	return FindStopCode(stops, stopName)
}

// fetchStops lists every stop the registry knows for a city on the reference
// date (the most recent full service week, anchored to a Thursday).
func (s *StopService) fetchStops(ctx context.Context, city string) ([]models.StopRecord, error) {
	date := ReferenceDate(s.now())

	params := url.Values{}
	params.Set("city", city)
	params.Set("date_from", date)
	params.Set("date_to", date)
	params.Set("get_count", "false")
	params.Set("limit", fmt.Sprintf("%d", registryPageLimit))

	reqURL := s.baseURL + "/gtfs_stops/list?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building registry request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching registry: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("registry returned status %d", resp.StatusCode)
	}

	var stops []models.StopRecord
	if err := json.NewDecoder(resp.Body).Decode(&stops); err != nil {
		return nil, fmt.Errorf("parsing registry response: %w", err)
	}

	return stops, nil
}

// FindStopCode resolves a human-readable stop name to a stop code with a
// three-tier match: exact name, name contained in a registry name, registry
// name contained in the query. Routing API stop names are often embedded in
// longer registry descriptions ("Central Station/Platform 16"), so substring
// matching runs in both directions; tier order favors precision over recall.
func FindStopCode(stops []models.StopRecord, stopName string) (string, bool) {
	name := strings.ToLower(strings.TrimSpace(stopName))

	for _, stop := range stops {
		if stop.Name != "" && strings.ToLower(strings.TrimSpace(stop.Name)) == name {
			return stop.Code.String(), true
		}
	}

	for _, stop := range stops {
		if stop.Name != "" && strings.Contains(strings.ToLower(stop.Name), name) {
			return stop.Code.String(), true
		}
	}

	for _, stop := range stops {
		if stop.Name != "" && strings.Contains(name, strings.ToLower(stop.Name)) {
			return stop.Code.String(), true
		}
	}

	return "", false
}

// ReferenceDate returns the registry query date for a given day: the most
// recent Thursday, or seven days back when the day is itself a Thursday.
// Thursday is the last full weekday of the Israeli work week, so it captures
// a complete reference schedule.
func ReferenceDate(today time.Time) string {
	// Monday=0 .. Sunday=6
	weekday := (int(today.Weekday()) + 6) % 7

	var daysBack int
	switch {
	case weekday == 3:
		daysBack = 7
	case weekday > 3:
		daysBack = weekday - 3
	default:
		daysBack = weekday + 4
	}

	return today.AddDate(0, 0, -daysBack).Format("2006-01-02")
}
