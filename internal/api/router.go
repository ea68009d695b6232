package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/kavim-app/kavim/internal/api/handlers"
	"github.com/kavim-app/kavim/internal/metrics"
)

// RequestTimeout bounds one whole request: the mandatory directions call plus
// the capped stop-code and feed deadlines for each retained route.
const RequestTimeout = 30 * time.Second

// NewRouter creates and configures the HTTP router with all routes and middleware
func NewRouter(
	routes handlers.RouteProvider,
	collector *metrics.Collector,
	logger *slog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	rootHandler := handlers.NewRootHandler()
	routesHandler := handlers.NewRoutesHandler(routes, collector)

	mux.HandleFunc("GET /{$}", rootHandler.Index)
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.HandleFunc("GET /routes", routesHandler.GetRoutes)
	if collector != nil {
		mux.Handle("GET /metrics", collector.Handler())
	}
	mux.HandleFunc("/", rootHandler.NotFound)

	// Apply middleware stack
	handler := Chain(mux,
		Recovery(logger),
		Logging(logger),
		Instrument(collector),
		CORS,
		Timeout(RequestTimeout),
	)

	return handler
}
