package ports

import (
	"context"
	"fuel-route-service/internal/domain"
)

// Decoded route geometry and total driving distance between two points.
type Route struct {
	Points         []domain.GeoPoint
	DistanceMeters float64
}

// Contract for retrieving driving directions between two points.
type RouteProvider interface {
	GetRoute(ctx context.Context, start, end domain.GeoPoint) (Route, error)
}
