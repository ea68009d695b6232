package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kavim-app/kavim/internal/api"
	"github.com/kavim-app/kavim/internal/metrics"
	"github.com/kavim-app/kavim/internal/models"
)

// ---------------------------------------------------------------------------
// Mock provider
// ---------------------------------------------------------------------------

type mockRouteProvider struct {
	result *models.RouteResult
	err    error
}

func (m *mockRouteProvider) GetRoute(ctx context.Context, origin, destination string) (*models.RouteResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

func newTestServer(t *testing.T, provider *mockRouteProvider) *httptest.Server {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)
	router := api.NewRouter(provider, metrics.NewCollector(), logger)
	return httptest.NewServer(router)
}

func defaultProvider() *mockRouteProvider {
	return &mockRouteProvider{
		result: &models.RouteResult{
			Routes: [][]models.TransitSegment{
				{
					{
						Operator:      "Egged",
						RouteNumber:   "405",
						DepartureStop: "Jerusalem Central Station",
						ArrivalStop:   "Tel Aviv Arlozorov",
						DepartureTime: "08:00",
						ArrivalTime:   "09:05",
						RealTime: &models.RealTimeInfo{
							Status:      models.StatusSuccess,
							Arrivals:    []string{"now", "13 min"},
							NextArrival: "now",
						},
					},
				},
			},
		},
	}
}

func get(t *testing.T, server *httptest.Server, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(server.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var m map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
	return m
}

func assertStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		t.Errorf("status = %d, want %d", resp.StatusCode, want)
	}
}

func assertField(t *testing.T, body map[string]any, field string) {
	t.Helper()
	if _, ok := body[field]; !ok {
		t.Errorf("missing field %q in response: %v", field, body)
	}
}

// ---------------------------------------------------------------------------
// Health & root
// ---------------------------------------------------------------------------

func TestHealth(t *testing.T) {
	srv := newTestServer(t, defaultProvider())
	defer srv.Close()

	resp := get(t, srv, "/health")
	assertStatus(t, resp, http.StatusOK)

	body := decodeBody(t, resp)
	assertField(t, body, "status")
	assertField(t, body, "uptime")

	if body["status"] != "OK" {
		t.Errorf("status = %v, want OK", body["status"])
	}
}

func TestRoot(t *testing.T) {
	srv := newTestServer(t, defaultProvider())
	defer srv.Close()

	resp := get(t, srv, "/")
	assertStatus(t, resp, http.StatusOK)

	body := decodeBody(t, resp)
	assertField(t, body, "endpoints")
}

func TestNotFound(t *testing.T) {
	srv := newTestServer(t, defaultProvider())
	defer srv.Close()

	resp := get(t, srv, "/no/such/route")
	assertStatus(t, resp, http.StatusNotFound)
}

// ---------------------------------------------------------------------------
// Routes endpoint
// ---------------------------------------------------------------------------

func TestRoutesParamValidation(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"both params", "/routes?origin=Jerusalem&destination=Tel+Aviv", http.StatusOK},
		{"missing origin", "/routes?destination=Tel+Aviv", http.StatusBadRequest},
		{"missing destination", "/routes?origin=Jerusalem", http.StatusBadRequest},
		{"no params", "/routes", http.StatusBadRequest},
	}

	srv := newTestServer(t, defaultProvider())
	defer srv.Close()

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := get(t, srv, tc.path)
			assertStatus(t, resp, tc.status)
		})
	}
}

func TestRoutesResponse(t *testing.T) {
	srv := newTestServer(t, defaultProvider())
	defer srv.Close()

	resp := get(t, srv, "/routes?origin=Jerusalem&destination=Tel+Aviv")
	assertStatus(t, resp, http.StatusOK)

	body := decodeBody(t, resp)
	if body["success"] != true {
		t.Errorf("expected success=true, body: %v", body)
	}
	assertField(t, body, "routes")
	assertField(t, body, "count")

	routes, ok := body["routes"].([]any)
	if !ok || len(routes) != 1 {
		t.Fatalf("routes = %v, want one route group", body["routes"])
	}

	segments, ok := routes[0].([]any)
	if !ok || len(segments) != 1 {
		t.Fatalf("segments = %v, want one segment", routes[0])
	}

	segment := segments[0].(map[string]any)
	if segment["route_number"] != "405" {
		t.Errorf("route_number = %v, want 405", segment["route_number"])
	}
	realTime, ok := segment["real_time_data"].(map[string]any)
	if !ok {
		t.Fatalf("missing real_time_data: %v", segment)
	}
	if realTime["next_arrival"] != "now" {
		t.Errorf("next_arrival = %v, want now", realTime["next_arrival"])
	}
}

func TestRoutesEmptyResult(t *testing.T) {
	provider := &mockRouteProvider{result: &models.RouteResult{Routes: [][]models.TransitSegment{}}}
	srv := newTestServer(t, provider)
	defer srv.Close()

	resp := get(t, srv, "/routes?origin=a&destination=b")
	assertStatus(t, resp, http.StatusOK)

	body := decodeBody(t, resp)
	if count, _ := body["count"].(float64); count != 0 {
		t.Errorf("count = %v, want 0", body["count"])
	}
}

func TestRoutesUpstreamError(t *testing.T) {
	provider := &mockRouteProvider{err: errors.New("directions API returned status 403")}
	srv := newTestServer(t, provider)
	defer srv.Close()

	resp := get(t, srv, "/routes?origin=a&destination=b")
	assertStatus(t, resp, http.StatusInternalServerError)

	body := decodeBody(t, resp)
	assertField(t, body, "error")
	assertField(t, body, "message")
}

// ---------------------------------------------------------------------------
// Metrics
// ---------------------------------------------------------------------------

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, defaultProvider())
	defer srv.Close()

	// Generate one measured request first.
	get(t, srv, "/routes?origin=a&destination=b").Body.Close()

	resp := get(t, srv, "/metrics")
	assertStatus(t, resp, http.StatusOK)

	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read metrics body: %v", err)
	}
	if !strings.Contains(string(raw), "kavim_request_duration_seconds") {
		t.Error("expected request duration metric in /metrics output")
	}
}
