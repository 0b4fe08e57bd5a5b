package services

import (
	"context"
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/ports"
	"sync"
	"sync/atomic"

	"github.com/shopspring/decimal"
)

// sliceCorpus answers radius queries by brute force over a fixed slice.
type sliceCorpus struct {
	stops []domain.PricedStop
	err   error
	calls atomic.Int32
}

func (c *sliceCorpus) StopsWithinRadius(_ context.Context, center domain.GeoPoint, radiusMiles float64) ([]domain.PricedStop, error) {
	c.calls.Add(1)
	if c.err != nil {
		return nil, c.err
	}

	var out []domain.PricedStop
	for _, s := range c.stops {
		if domain.HaversineMiles(center, s.Location) <= radiusMiles {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeRoutes struct {
	route ports.Route
	err   error
	calls atomic.Int32
}

func (f *fakeRoutes) GetRoute(_ context.Context, _, _ domain.GeoPoint) (ports.Route, error) {
	f.calls.Add(1)
	if f.err != nil {
		return ports.Route{}, f.err
	}
	return f.route, nil
}

// gatedRoutes blocks every lookup until release is closed or the lookup
// context is done.
type gatedRoutes struct {
	route   ports.Route
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newGatedRoutes(route ports.Route) *gatedRoutes {
	return &gatedRoutes{route: route, entered: make(chan struct{}), release: make(chan struct{})}
}

func (g *gatedRoutes) GetRoute(ctx context.Context, _, _ domain.GeoPoint) (ports.Route, error) {
	g.once.Do(func() { close(g.entered) })

	select {
	case <-ctx.Done():
		return ports.Route{}, ctx.Err()
	case <-g.release:
		return g.route, nil
	}
}

type memCache struct {
	mu     sync.Mutex
	items  map[string]*ports.TripPlan
	getErr error
	setErr error
}

func newMemCache() *memCache {
	return &memCache{items: make(map[string]*ports.TripPlan)}
}

func (c *memCache) Get(_ context.Context, key string) (*ports.TripPlan, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.items[key], nil
}

func (c *memCache) Set(_ context.Context, key string, plan *ports.TripPlan) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.setErr != nil {
		return c.setErr
	}
	c.items[key] = plan
	return nil
}

func (c *memCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// equatorRoute returns points every 0.05 degrees of longitude along the
// equator, roughly 3.45 miles apart.
func equatorRoute(n int) []domain.GeoPoint {
	points := make([]domain.GeoPoint, n)
	for i := range points {
		points[i] = domain.GeoPoint{Lon: float64(i) * 0.05, Lat: 0}
	}
	return points
}

func pricedStop(id string, lon, lat float64, price string) domain.PricedStop {
	return domain.PricedStop{
		ID:          id,
		Name:        "Stop " + id,
		City:        "Nowhere",
		State:       "KS",
		RetailPrice: decimal.RequireFromString(price),
		Location:    domain.GeoPoint{Lon: lon, Lat: lat},
	}
}

// equatorStops mirrors the 600-mile regression fixture on real coordinates.
func equatorStops() []domain.PricedStop {
	return []domain.PricedStop{
		pricedStop("a", 1.45, 0, "3.00"),
		pricedStop("b", 3.75, 0, "2.50"),
		pricedStop("c", 6.95, 0, "2.80"),
		pricedStop("d", 7.95, 0, "2.60"),
	}
}
