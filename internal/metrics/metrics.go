// Package metrics exposes prometheus instrumentation for the service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector bundles the service's prometheus metrics behind one registry.
type Collector struct {
	reg *prometheus.Registry

	RequestDuration *prometheus.HistogramVec
	RoutesReturned  prometheus.Histogram
	Enrichment      *prometheus.CounterVec
}

// NewCollector builds the registry and all metrics.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "kavim_request_duration_seconds",
			Help:    "HTTP request latency by path and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"path", "status"}),
		RoutesReturned: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "kavim_routes_returned",
			Help:    "Number of routes in each successful response.",
			Buckets: []float64{0, 1, 2, 3, 4, 5},
		}),
		Enrichment: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kavim_realtime_enrichment_total",
			Help: "Real-time enrichment outcomes by status.",
		}, []string{"status"}),
	}

	reg.MustRegister(c.RequestDuration, c.RoutesReturned, c.Enrichment)
	return c
}

// ObserveRequest records one served HTTP request.
func (c *Collector) ObserveRequest(path, status string, d time.Duration) {
	if c == nil {
		return
	}
	c.RequestDuration.WithLabelValues(path, status).Observe(d.Seconds())
}

// ObserveRoutes records the route count of one successful response.
func (c *Collector) ObserveRoutes(n int) {
	if c == nil {
		return
	}
	c.RoutesReturned.Observe(float64(n))
}

// IncEnrichment records one real-time enrichment outcome.
func (c *Collector) IncEnrichment(status string) {
	if c == nil {
		return
	}
	c.Enrichment.WithLabelValues(status).Inc()
}

// Handler serves the /metrics endpoint for this registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}
