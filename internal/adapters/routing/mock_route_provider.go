package routing

import (
	"context"
	"fmt"
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/ports"
)

type MockRoute struct {
	Start, End domain.GeoPoint
	Route      ports.Route
}

// MockRouteProvider serves fixed routes keyed by start/end coordinates.
type MockRouteProvider struct {
	m map[string]ports.Route
}

func NewMockRouteProvider(routes []MockRoute) *MockRouteProvider {
	m := make(map[string]ports.Route, len(routes))
	for _, r := range routes {
		m[r.Start.Key()+"|"+r.End.Key()] = r.Route
	}
	return &MockRouteProvider{m: m}
}

func (p *MockRouteProvider) GetRoute(ctx context.Context, start, end domain.GeoPoint) (ports.Route, error) {
	r, ok := p.m[start.Key()+"|"+end.Key()]
	if !ok {
		return ports.Route{}, fmt.Errorf("mock route %s -> %s: %w", start.Key(), end.Key(), domain.ErrRouteNotFound)
	}

	return r, nil
}
