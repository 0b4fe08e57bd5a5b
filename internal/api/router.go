package api

import (
	"fuel-route-service/internal/api/handlers"
	"fuel-route-service/internal/metrics"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterDeps struct {
	Planner  handlers.TripPlanner
	DB       handlers.Pinger     // Optional; health check pings it.
	Gatherer prometheus.Gatherer // Serves /metrics when set.
	Metrics  *metrics.Metrics    // Optional; records HTTP durations.
	Logger   *slog.Logger
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(deps RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(handlers.NotFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(handlers.MethodNotAllowed)

	if deps.Metrics != nil {
		router.Use(metricsMiddleware(deps.Metrics))
	}

	healthHandler := &handlers.HealthHandler{DB: deps.DB}
	optimizeHandler := &handlers.OptimizeHandler{Planner: deps.Planner}

	router.HandleFunc("/health", healthHandler.Health).Methods(http.MethodGet)
	router.HandleFunc("/optimize-fuel", optimizeHandler.Optimize).Methods(http.MethodPost)

	if deps.Gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	return loggingMiddleware(logger, router)
}
