package handlers

import (
	"net/http"
)

type RootHandler struct{}

func NewRootHandler() *RootHandler {
	return &RootHandler{}
}

func (h *RootHandler) Index(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":        "kavim",
		"description": "Real-time transit routes for Israel",
		"version":     "1.0.0",
		"endpoints": map[string]string{
			"GET /":        "API information",
			"GET /health":  "Health check",
			"GET /metrics": "Prometheus metrics",
			"GET /routes":  "Transit routes (origin, destination query parameters)",
		},
	})
}

func (h *RootHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]any{
		"error":   "Route not found",
		"message": "Check the root endpoint (/) for available routes",
	})
}
