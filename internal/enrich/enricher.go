// Package enrich builds the final route response: it walks the directions
// reply, extracts transit segments and attaches real-time arrivals.
package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kavim-app/kavim/internal/metrics"
	"github.com/kavim-app/kavim/internal/models"
	"github.com/kavim-app/kavim/internal/routing"
)

// DirectionsProvider abstracts the routing API client for testability.
type DirectionsProvider interface {
	ComputeRoutes(ctx context.Context, origin, destination string) (*routing.ComputeRoutesResponse, error)
}

// CityResolver abstracts the places lookup.
type CityResolver interface {
	ResolveCity(ctx context.Context, placeID string) (string, bool)
}

// StopResolver abstracts the GTFS registry lookup.
type StopResolver interface {
	Lookup(ctx context.Context, city, stopName string) (string, bool)
}

// ArrivalsProvider abstracts the real-time feed.
type ArrivalsProvider interface {
	GetArrivals(ctx context.Context, stopCode, routeFilter string) (*models.RealTimeInfo, error)
}

// Options tunes the enricher. Zero values fall back to defaults.
type Options struct {
	// MaxRoutes caps how many alternative routes are processed.
	MaxRoutes int
	// StopLookupDeadline bounds registry fetch plus name matching.
	StopLookupDeadline time.Duration
	// RealtimeDeadline bounds the feed fetch, on top of the feed client's own timeout.
	RealtimeDeadline time.Duration
}

const (
	defaultMaxRoutes          = 2
	defaultStopLookupDeadline = 8 * time.Second
	defaultRealtimeDeadline   = 3 * time.Second
)

// Enricher orchestrates the directions call and per-route real-time lookups.
type Enricher struct {
	directions DirectionsProvider
	cities     CityResolver
	stops      StopResolver
	feed       ArrivalsProvider
	logger     *slog.Logger
	collector  *metrics.Collector
	opts       Options
}

// New creates an enricher. collector may be nil.
func New(directions DirectionsProvider, cities CityResolver, stops StopResolver, feed ArrivalsProvider,
	logger *slog.Logger, collector *metrics.Collector, opts Options) *Enricher {
	if opts.MaxRoutes <= 0 {
		opts.MaxRoutes = defaultMaxRoutes
	}
	if opts.StopLookupDeadline <= 0 {
		opts.StopLookupDeadline = defaultStopLookupDeadline
	}
	if opts.RealtimeDeadline <= 0 {
		opts.RealtimeDeadline = defaultRealtimeDeadline
	}
	return &Enricher{
		directions: directions,
		cities:     cities,
		stops:      stops,
		feed:       feed,
		logger:     logger,
		collector:  collector,
		opts:       opts,
	}
}

// GetRoute returns transit routes between two addresses, enriched with live
// arrivals. The directions call is mandatory and its failure propagates; a
// malformed directions payload yields an empty result instead, and every
// real-time failure degrades to a no_realtime sentinel on the segment.
func (e *Enricher) GetRoute(ctx context.Context, origin, destination string) (*models.RouteResult, error) {
	resp, err := e.directions.ComputeRoutes(ctx, origin, destination)
	if err != nil {
		if errors.Is(err, routing.ErrMalformed) {
			e.logger.Error("directions response malformed", "error", err)
			return &models.RouteResult{Routes: [][]models.TransitSegment{}}, nil
		}
		return nil, fmt.Errorf("computing routes: %w", err)
	}

	// One city resolution shared across all routes: the registry is keyed by
	// city and every departure stop of interest is near the origin.
	originCity, cityOK := e.cities.ResolveCity(ctx, resp.GeocodingResults.Origin.PlaceID)

	rawRoutes := resp.Routes
	if len(rawRoutes) > e.opts.MaxRoutes {
		rawRoutes = rawRoutes[:e.opts.MaxRoutes]
	}
	e.logger.Info("processing routes", "count", len(rawRoutes), "max", e.opts.MaxRoutes, "city", originCity)

	result := &models.RouteResult{Routes: [][]models.TransitSegment{}}

	for i, rawRoute := range rawRoutes {
		var route routing.Route
		if err := json.Unmarshal(rawRoute, &route); err != nil {
			e.logger.Warn("skipping malformed route", "index", i, "error", err)
			continue
		}

		segments := e.buildRouteSegments(ctx, route, originCity, cityOK)
		if len(segments) > 0 {
			result.Routes = append(result.Routes, segments)
		}
	}

	return result, nil
}

// buildRouteSegments walks one route's legs and steps in travel order. Only the
// first transit step gets a real-time lookup; enriching every segment would
// multiply feed and registry calls well past the latency budget.
func (e *Enricher) buildRouteSegments(ctx context.Context, route routing.Route, originCity string, cityOK bool) []models.TransitSegment {
	var segments []models.TransitSegment
	firstTransitStep := true

	for i, rawLeg := range route.Legs {
		var leg routing.Leg
		if err := json.Unmarshal(rawLeg, &leg); err != nil {
			e.logger.Warn("skipping malformed leg", "index", i, "error", err)
			continue
		}

		for j, rawStep := range leg.Steps {
			var step routing.Step
			if err := json.Unmarshal(rawStep, &step); err != nil {
				e.logger.Warn("skipping malformed step", "index", j, "error", err)
				continue
			}
			if step.TransitDetails == nil {
				continue
			}

			segment := buildSegment(*step.TransitDetails)
			if firstTransitStep {
				segment.RealTime = e.lookupRealtime(ctx, originCity, cityOK, segment.DepartureStop, segment.RouteNumber)
			}
			firstTransitStep = false

			segments = append(segments, segment)
		}
	}

	return segments
}

func buildSegment(d routing.TransitDetails) models.TransitSegment {
	return models.TransitSegment{
		Operator:      d.TransitLine.Operator(),
		RouteNumber:   d.TransitLine.NameShort,
		DepartureStop: d.StopDetails.DepartureStop.Name,
		ArrivalStop:   d.StopDetails.ArrivalStop.Name,
		DepartureTime: d.DepartureDisplay(),
		ArrivalTime:   d.ArrivalDisplay(),
	}
}

// lookupRealtime resolves the departure stop to a feed stop code and fetches
// live arrivals, degrading to a no_realtime sentinel on every failure path.
func (e *Enricher) lookupRealtime(ctx context.Context, city string, cityOK bool, stopName, routeNumber string) *models.RealTimeInfo {
	info := e.doLookupRealtime(ctx, city, cityOK, stopName, routeNumber)
	e.collector.IncEnrichment(info.Status)
	return info
}

func (e *Enricher) doLookupRealtime(ctx context.Context, city string, cityOK bool, stopName, routeNumber string) *models.RealTimeInfo {
	if !cityOK {
		return models.NoRealtime("No city information available")
	}

	lookupCtx, cancel := context.WithTimeout(ctx, e.opts.StopLookupDeadline)
	defer cancel()

	stopCode, ok := e.stops.Lookup(lookupCtx, city, stopName)
	if !ok {
		if lookupCtx.Err() != nil {
			return models.NoRealtime("curlbus timeout")
		}
		return models.NoRealtime("Stop not found in GTFS data for " + stopName)
	}

	feedCtx, cancel := context.WithTimeout(ctx, e.opts.RealtimeDeadline)
	defer cancel()

	info, err := e.feed.GetArrivals(feedCtx, stopCode, routeNumber)
	if err != nil {
		if feedCtx.Err() != nil {
			return models.NoRealtime("curlbus timeout")
		}
		e.logger.Warn("fetching realtime arrivals failed", "stop_code", stopCode, "route", routeNumber, "error", err)
		return models.NoRealtime(err.Error())
	}
	return info
}
