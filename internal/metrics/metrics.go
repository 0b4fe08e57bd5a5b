package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the collectors exported on /metrics.
type Metrics struct {
	Optimizations       *prometheus.CounterVec
	PlanStops           prometheus.Histogram
	CacheLookups        *prometheus.CounterVec
	RouteRequestSeconds *prometheus.HistogramVec
	HTTPRequestSeconds  *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		Optimizations: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "fuel_optimizations_total",
			Help: "Total number of trip optimizations by outcome.",
		}, []string{"outcome"}),
		PlanStops: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "fuel_plan_stops",
			Help:    "Number of refueling stops per successful plan.",
			Buckets: []float64{1, 2, 3, 4, 5, 6, 8, 10, 15},
		}),
		CacheLookups: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "fuel_result_cache_lookups_total",
			Help: "Result cache lookups by result (hit, miss, error).",
		}, []string{"result"}),
		RouteRequestSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "route_provider_request_duration_seconds",
			Help:    "Duration of requests to the route provider API.",
			Buckets: prometheus.DefBuckets,
		}, []string{"status"}),
		HTTPRequestSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests served by the API.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
	}
}
