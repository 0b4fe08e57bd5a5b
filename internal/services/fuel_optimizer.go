package services

import (
	"context"
	"errors"
	"fmt"
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/platform/obs"
	"fuel-route-service/internal/ports"
	"math"
)

// FuelOptimizer composes corridor discovery, stop selection and cost
// accumulation into a single call. It holds no mutable state and is safe for
// concurrent use as long as the corpus is not mutated during a call.
type FuelOptimizer struct {
	corpus   ports.StopCorpus
	selector StopSelector
	opts     Options
}

func NewFuelOptimizer(corpus ports.StopCorpus, selector StopSelector, opts Options) (*FuelOptimizer, error) {
	if corpus == nil {
		return nil, errors.New("new fuel optimizer: corpus must be non-nil")
	}
	if selector == nil {
		selector = GreedyHalfWindow{}
	}
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("new fuel optimizer: %w", err)
	}

	return &FuelOptimizer{corpus: corpus, selector: selector, opts: opts}, nil
}

// Options returns the configuration the optimizer was built with.
func (f *FuelOptimizer) Options() Options { return f.opts }

// Optimize plans refueling stops along routePoints.
//
// NoReachableStopError and CorpusUnavailableError are returned unchanged;
// malformed input is rejected with InvalidInputError before any corpus query.
func (f *FuelOptimizer) Optimize(
	ctx context.Context,
	routePoints []domain.GeoPoint,
	start domain.GeoPoint,
	totalDistanceMiles float64,
) (_ domain.FuelPlan, err error) {
	defer obs.Time(ctx, "fuel.Optimize")(&err)

	if err := validateTrip(routePoints, start, totalDistanceMiles); err != nil {
		return domain.FuelPlan{}, err
	}

	candidates, err := Candidates(ctx, routePoints, start, f.corpus, f.opts.SampleStride, f.opts.CorridorRadiusMiles)
	if err != nil {
		return domain.FuelPlan{}, err
	}

	obs.Logger(ctx).DebugContext(ctx, "corridor candidates found",
		"req_id", obs.RequestID(ctx), "count", len(candidates), "route_points", len(routePoints))

	total, stops, err := f.selector.Select(candidates, totalDistanceMiles, f.opts)
	if err != nil {
		return domain.FuelPlan{}, err
	}

	return domain.FuelPlan{
		Strategy:           f.selector.Name(),
		TotalDistanceMiles: totalDistanceMiles,
		TotalCost:          total,
		Stops:              stops,
	}, nil
}

func validateTrip(routePoints []domain.GeoPoint, start domain.GeoPoint, totalDistanceMiles float64) error {
	if len(routePoints) == 0 {
		return &domain.InvalidInputError{Field: "route", Reason: "must contain at least one point"}
	}
	if err := start.Validate(); err != nil {
		return &domain.InvalidInputError{Field: "start", Reason: err.Error()}
	}
	for i, p := range routePoints {
		if err := p.Validate(); err != nil {
			return &domain.InvalidInputError{Field: fmt.Sprintf("route[%d]", i), Reason: err.Error()}
		}
	}
	if !(totalDistanceMiles > 0) || math.IsInf(totalDistanceMiles, 0) {
		return &domain.InvalidInputError{
			Field:  "total_distance",
			Reason: fmt.Sprintf("must be a positive number of miles, got %v", totalDistanceMiles),
		}
	}
	return nil
}
