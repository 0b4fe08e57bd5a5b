package repositories

import (
	"context"
	"errors"
	"fmt"
	"fuel-route-service/internal/platform/db"
)

const (
	createTruckStopsQuery = `
	CREATE TABLE IF NOT EXISTS truck_stops (
		id BIGSERIAL PRIMARY KEY,
		opis_id TEXT NOT NULL,
		name TEXT NOT NULL,
		address TEXT NOT NULL,
		city TEXT NOT NULL,
		state CHAR(2) NOT NULL,
		rack_id TEXT NOT NULL,
		retail_price NUMERIC(6, 3) NOT NULL,
		lat DOUBLE PRECISION NOT NULL,
		lon DOUBLE PRECISION NOT NULL
	);
	`

	createOpisIndexQuery = `
	CREATE INDEX IF NOT EXISTS idx_truck_stops_opis_id
	ON truck_stops(opis_id);
	`

	createPriceIndexQuery = `
	CREATE INDEX IF NOT EXISTS idx_truck_stops_retail_price
	ON truck_stops(retail_price);
	`

	createLocationIndexQuery = `
	CREATE INDEX IF NOT EXISTS idx_truck_stops_lat_lon
	ON truck_stops(lat, lon);
	`

	createRouteCacheQuery = `
	CREATE TABLE IF NOT EXISTS route_cache (
		start_key TEXT NOT NULL,
		end_key TEXT NOT NULL,
		distance_meters DOUBLE PRECISION NOT NULL,
		geometry TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (start_key, end_key)
	);
	`
)

// InitSchema creates the corpus and route cache tables in one transaction.
func InitSchema(ctx context.Context, database db.Database) error {
	if database == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := database.Begin(ctx)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	statements := []string{
		createTruckStopsQuery,
		createOpisIndexQuery,
		createPriceIndexQuery,
		createLocationIndexQuery,
		createRouteCacheQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
