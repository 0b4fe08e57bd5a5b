package ports

import (
	"context"
	"fuel-route-service/internal/domain"
)

// Port: a read-only corpus of priced stops answering radius queries.
// Implementations must present a stable snapshot for the duration of one call.
type StopCorpus interface {
	// Return every stop whose great-circle distance from center is at most radiusMiles.
	StopsWithinRadius(ctx context.Context, center domain.GeoPoint, radiusMiles float64) ([]domain.PricedStop, error)
}
