// Package models defines shared data types
package models

import "encoding/json"

// Real-time lookup status values.
const (
	StatusSuccess    = "success"
	StatusNoRealtime = "no_realtime"
)

// RealTimeInfo holds live arrival data for a transit segment.
// Arrivals are display strings ("now", "13 min" or "17:45"), de-duplicated
// in first-seen order and capped at five entries.
type RealTimeInfo struct {
	Status      string   `json:"status"`
	Reason      string   `json:"reason,omitempty"`
	Arrivals    []string `json:"arrivals,omitempty"`
	NextArrival string   `json:"next_arrival,omitempty"`
}

// NoRealtime builds the sentinel returned when live data could not be fetched.
func NoRealtime(reason string) *RealTimeInfo {
	return &RealTimeInfo{Status: StatusNoRealtime, Reason: reason}
}

// TransitSegment is one ride on one route between two stops within a journey.
// Times are display text (HH:MM preferred, ISO-8601 timestamp as fallback).
type TransitSegment struct {
	Operator      string        `json:"operator"`
	RouteNumber   string        `json:"route_number"`
	DepartureStop string        `json:"departure_stop"`
	ArrivalStop   string        `json:"arrival_stop"`
	DepartureTime string        `json:"departure_time"`
	ArrivalTime   string        `json:"arrival_time"`
	RealTime      *RealTimeInfo `json:"real_time_data,omitempty"`
}

// RouteResult groups transit segments per alternative route, in the order the
// routing API returned them. Routes with no transit segments are never included.
type RouteResult struct {
	Routes [][]TransitSegment `json:"routes"`
}

// StopRecord is one entry of the GTFS stop registry. The registry carries more
// fields; only name and code matter here. Code arrives as a JSON number from
// the registry but is treated as an opaque string everywhere else.
type StopRecord struct {
	Name string      `json:"name"`
	Code json.Number `json:"code"`
	City string      `json:"city,omitempty"`
}
