package handlers

import (
	"net/http"

	"github.com/kavim-app/kavim/internal/metrics"
)

type RoutesHandler struct {
	provider  RouteProvider
	collector *metrics.Collector
}

func NewRoutesHandler(provider RouteProvider, collector *metrics.Collector) *RoutesHandler {
	return &RoutesHandler{provider: provider, collector: collector}
}

// GetRoutes returns transit routes between two free-text addresses, enriched
// with real-time arrivals where available.
func (h *RoutesHandler) GetRoutes(w http.ResponseWriter, r *http.Request) {
	origin := r.URL.Query().Get("origin")
	destination := r.URL.Query().Get("destination")

	if origin == "" || destination == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error": "origin and destination query parameters are required",
		})
		return
	}

	result, err := h.provider.GetRoute(r.Context(), origin, destination)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error":   "Failed to compute routes",
			"message": err.Error(),
		})
		return
	}

	h.collector.ObserveRoutes(len(result.Routes))

	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"origin":      origin,
		"destination": destination,
		"routes":      result.Routes,
		"count":       len(result.Routes),
	})
}
