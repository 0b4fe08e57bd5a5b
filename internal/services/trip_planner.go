package services

import (
	"context"
	"errors"
	"fmt"
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/metrics"
	"fuel-route-service/internal/platform/obs"
	"fuel-route-service/internal/ports"
	"math"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/singleflight"
)

// TripRequest carries raw "lon, lat" strings as received from a caller.
type TripRequest struct {
	Start string
	End   string
}

// TripPlanner resolves a route for a start/end pair, runs the optimizer and
// keeps results in an optional cache. Concurrent identical requests share one
// upstream route lookup.
type TripPlanner struct {
	routes    ports.RouteProvider
	optimizer *FuelOptimizer
	cache     ports.ResultCache
	metrics   *metrics.Metrics
	group     singleflight.Group

	flightTimeout time.Duration // Bounds one shared route lookup and optimization.
}

// DefaultFlightTimeout stays below the HTTP server write timeout.
const DefaultFlightTimeout = 90 * time.Second

// NewTripPlanner wires a planner. cache and m may be nil.
func NewTripPlanner(
	routes ports.RouteProvider,
	optimizer *FuelOptimizer,
	cache ports.ResultCache,
	m *metrics.Metrics,
) (*TripPlanner, error) {
	if routes == nil {
		return nil, errors.New("new trip planner: route provider must be non-nil")
	}
	if optimizer == nil {
		return nil, errors.New("new trip planner: optimizer must be non-nil")
	}

	return &TripPlanner{
		routes:        routes,
		optimizer:     optimizer,
		cache:         cache,
		metrics:       m,
		flightTimeout: DefaultFlightTimeout,
	}, nil
}

// normalizeCoords strips every whitespace character from a coordinate string.
func normalizeCoords(s string) string {
	return strings.Join(strings.Fields(s), "")
}

// CacheKey derives a stable result cache key from normalized start/end strings.
func CacheKey(start, end string) string {
	raw := normalizeCoords(start) + "-" + normalizeCoords(end)
	return fmt.Sprintf("routing_result_%016x", xxhash.Sum64String(raw))
}

// MetersToMiles converts a provider distance and rounds it to two decimals.
func MetersToMiles(meters float64) float64 {
	return math.Round(meters/domain.MetersPerMile*100) / 100
}

// Plan returns the fuel plan for req.
func (p *TripPlanner) Plan(ctx context.Context, req TripRequest) (_ *ports.TripPlan, err error) {
	defer obs.Time(ctx, "trip.Plan")(&err)

	start, err := domain.ParseGeoPoint(req.Start)
	if err != nil {
		p.observe("invalid_input")
		return nil, &domain.InvalidInputError{Field: "start", Reason: err.Error()}
	}
	end, err := domain.ParseGeoPoint(req.End)
	if err != nil {
		p.observe("invalid_input")
		return nil, &domain.InvalidInputError{Field: "end", Reason: err.Error()}
	}

	key := CacheKey(req.Start, req.End)
	if cached := p.lookup(ctx, key); cached != nil {
		p.observe("cache_hit")
		return cached, nil
	}

	// The shared lookup outlives any single caller; each caller only waits
	// until its own context is done.
	flight := p.group.DoChan(key, func() (any, error) {
		flightCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.flightTimeout)
		defer cancel()
		return p.plan(flightCtx, start, end)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		p.observe(outcome(ctx.Err()))
		return nil, fmt.Errorf("plan trip: %w", ctx.Err())
	case res = <-flight:
	}
	if res.Err != nil {
		p.observe(outcome(res.Err))
		return nil, res.Err
	}
	if res.Shared {
		obs.Logger(ctx).DebugContext(ctx, "trip plan shared with concurrent request",
			"req_id", obs.RequestID(ctx), "key", key)
	}

	trip := res.Val.(*ports.TripPlan)
	p.observe("ok")
	if p.metrics != nil {
		p.metrics.PlanStops.Observe(float64(len(trip.Plan.Stops)))
	}

	if p.cache != nil {
		if err := p.cache.Set(ctx, key, trip); err != nil {
			obs.Logger(ctx).WarnContext(ctx, "result cache write failed",
				"req_id", obs.RequestID(ctx), "key", key, "error", err)
		}
	}

	return trip, nil
}

func (p *TripPlanner) plan(ctx context.Context, start, end domain.GeoPoint) (*ports.TripPlan, error) {
	route, err := p.routes.GetRoute(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("plan trip: get route: %w", err)
	}

	miles := MetersToMiles(route.DistanceMeters)

	plan, err := p.optimizer.Optimize(ctx, route.Points, start, miles)
	if err != nil {
		return nil, fmt.Errorf("plan trip: optimize: %w", err)
	}

	return &ports.TripPlan{
		DistanceMiles: miles,
		Segments:      SegmentRoute(miles, p.optimizer.Options().MaxRangeMiles),
		Plan:          plan,
	}, nil
}

// lookup treats cache failures as misses.
func (p *TripPlanner) lookup(ctx context.Context, key string) *ports.TripPlan {
	if p.cache == nil {
		return nil
	}

	cached, err := p.cache.Get(ctx, key)
	switch {
	case err != nil:
		p.cacheLookup("error")
		obs.Logger(ctx).WarnContext(ctx, "result cache read failed",
			"req_id", obs.RequestID(ctx), "key", key, "error", err)
		return nil
	case cached == nil:
		p.cacheLookup("miss")
		return nil
	default:
		p.cacheLookup("hit")
		return cached
	}
}

func (p *TripPlanner) observe(outcome string) {
	if p.metrics != nil {
		p.metrics.Optimizations.WithLabelValues(outcome).Inc()
	}
}

func (p *TripPlanner) cacheLookup(result string) {
	if p.metrics != nil {
		p.metrics.CacheLookups.WithLabelValues(result).Inc()
	}
}

func outcome(err error) string {
	var (
		noStop  *domain.NoReachableStopError
		invalid *domain.InvalidInputError
		corpus  *domain.CorpusUnavailableError
	)
	switch {
	case errors.As(err, &noStop):
		return "no_reachable_stop"
	case errors.As(err, &invalid):
		return "invalid_input"
	case errors.As(err, &corpus):
		return "corpus_unavailable"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "route_error"
	}
}
