package cache

import (
	"context"
	"errors"
	"fmt"
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/platform/db"
	"fuel-route-service/internal/platform/obs"
	"fuel-route-service/internal/ports"

	"github.com/jackc/pgx/v5"
)

const (
	getRouteQuery = `
	SELECT distance_meters, geometry
	FROM route_cache
	WHERE start_key = $1
		AND end_key = $2;
	`

	putRouteQuery = `
	INSERT INTO route_cache (start_key, end_key, distance_meters, geometry)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (start_key, end_key) DO UPDATE
	SET distance_meters = EXCLUDED.distance_meters,
		geometry = EXCLUDED.geometry,
		created_at = now();
	`
)

// SQLRouteCache is a Postgres-backed cache for start->end route geometry.
// Geometry is stored as an encoded polyline.
type SQLRouteCache struct {
	DB db.Database
}

func NewSQLRouteCache(database db.Database) *SQLRouteCache {
	return &SQLRouteCache{DB: database}
}

// Get reports ok=false on a miss.
func (s *SQLRouteCache) Get(
	ctx context.Context,
	start, end domain.GeoPoint,
) (_ ports.Route, ok bool, err error) {
	defer obs.Time(ctx, "route.cache.Get")(&err)

	if s.DB == nil {
		return ports.Route{}, false, errors.New("route cache: db is nil")
	}

	var (
		meters   float64
		geometry string
	)
	err = s.DB.QueryRow(ctx, getRouteQuery, start.Key(), end.Key()).Scan(&meters, &geometry)
	if errors.Is(err, pgx.ErrNoRows) {
		return ports.Route{}, false, nil
	}
	if err != nil {
		return ports.Route{}, false, fmt.Errorf("get route cache: query route_cache table: %w", err)
	}

	points, err := domain.DecodePolyline(geometry)
	if err != nil {
		return ports.Route{}, false, fmt.Errorf("get route cache: %w", err)
	}

	return ports.Route{Points: points, DistanceMeters: meters}, true, nil
}

// Put stores or refreshes the route for start->end.
func (s *SQLRouteCache) Put(
	ctx context.Context,
	start, end domain.GeoPoint,
	route ports.Route,
) error {
	if s.DB == nil {
		return errors.New("route cache: db is nil")
	}

	if len(route.Points) == 0 {
		return errors.New("insert route cache: route has no points")
	}

	_, err := s.DB.Exec(ctx, putRouteQuery,
		start.Key(), end.Key(), route.DistanceMeters, domain.EncodePolyline(route.Points))
	if err != nil {
		return fmt.Errorf("insert route cache %s -> %s: %w", start.Key(), end.Key(), err)
	}

	return nil
}
