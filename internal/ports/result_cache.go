package ports

import (
	"context"
	"fuel-route-service/internal/domain"
)

// Cached outcome of a full trip planning request.
type TripPlan struct {
	DistanceMiles float64
	Segments      []float64
	Plan          domain.FuelPlan
}

// Optional key -> TripPlan store consulted by the trip planner.
// A miss is reported as (nil, nil).
type ResultCache interface {
	Get(ctx context.Context, key string) (*TripPlan, error)
	Set(ctx context.Context, key string, plan *TripPlan) error
}
