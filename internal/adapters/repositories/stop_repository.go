package repositories

import (
	"context"
	"errors"
	"fmt"
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/platform/db"
	"fuel-route-service/internal/platform/obs"
	"log/slog"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

const (
	stopColumns = `id, opis_id, name, address, city, state, rack_id, retail_price, lat, lon`

	stopsWithinBoxQuery = `
	SELECT ` + stopColumns + `
	FROM truck_stops
	WHERE lat BETWEEN $1 AND $2
		AND lon BETWEEN $3 AND $4
	ORDER BY id;
	`

	listStopsQuery = `
	SELECT ` + stopColumns + `
	FROM truck_stops
	ORDER BY id;
	`

	countStopsQuery = `SELECT count(*) FROM truck_stops;`

	truncateStopsQuery = `TRUNCATE truck_stops RESTART IDENTITY;`
)

var truckStopsTable = pgx.Identifier{"truck_stops"}

var copyColumns = []string{"opis_id", "name", "address", "city", "state", "rack_id", "retail_price", "lat", "lon"}

// PgStopRepository stores the priced stop corpus in Postgres. It also serves
// radius queries directly, which keeps every request on the latest prices at
// the cost of one query per sampled route point.
type PgStopRepository struct {
	DB  db.Database
	log *slog.Logger
}

func NewPgStopRepository(database db.Database, log *slog.Logger) *PgStopRepository {
	return &PgStopRepository{DB: database, log: log}
}

// StopsWithinRadius implements ports.StopCorpus. A lat/lon bounding box is
// resolved by the (lat, lon) index, then refined by great-circle distance.
func (r *PgStopRepository) StopsWithinRadius(
	ctx context.Context,
	center domain.GeoPoint,
	radiusMiles float64,
) (_ []domain.PricedStop, err error) {
	defer obs.Time(ctx, "stops.StopsWithinRadius")(&err)

	if r.DB == nil {
		return nil, errors.New("stop repository: DB is nil")
	}
	if err := center.Validate(); err != nil {
		return nil, fmt.Errorf("stops within radius: %w", err)
	}

	// Boxes are disjoint, so no stop is returned twice.
	var out []domain.PricedStop
	for _, box := range domain.BoundingBoxes(center, radiusMiles) {
		boxed, err := r.queryStops(ctx, stopsWithinBoxQuery, box.Min.Lat, box.Max.Lat, box.Min.Lon, box.Max.Lon)
		if err != nil {
			return nil, fmt.Errorf("stops within radius: %w", err)
		}

		for _, s := range boxed {
			if domain.HaversineMiles(center, s.Location) <= radiusMiles {
				out = append(out, s)
			}
		}
	}

	return out, nil
}

// ListStops returns the whole corpus ordered by id.
func (r *PgStopRepository) ListStops(ctx context.Context) (_ []domain.PricedStop, err error) {
	defer obs.Time(ctx, "stops.ListStops")(&err)

	if r.DB == nil {
		return nil, errors.New("stop repository: DB is nil")
	}

	stops, err := r.queryStops(ctx, listStopsQuery)
	if err != nil {
		return nil, fmt.Errorf("list stops: %w", err)
	}

	r.log.DebugContext(ctx, "Corpus snapshot loaded", "stops", len(stops))
	return stops, nil
}

func (r *PgStopRepository) CountStops(ctx context.Context) (int64, error) {
	if r.DB == nil {
		return 0, errors.New("stop repository: DB is nil")
	}

	var n int64
	if err := r.DB.QueryRow(ctx, countStopsQuery).Scan(&n); err != nil {
		return 0, fmt.Errorf("count stops: %w", err)
	}
	return n, nil
}

// InsertStops bulk-loads stops with COPY. Stop IDs are ignored; the database
// assigns new ones.
func (r *PgStopRepository) InsertStops(ctx context.Context, stops []domain.PricedStop) (int64, error) {
	if r.DB == nil {
		return 0, errors.New("stop repository: DB is nil")
	}

	n, err := copyStops(ctx, r.DB, stops)
	if err != nil {
		return 0, fmt.Errorf("insert stops: %w", err)
	}
	return n, nil
}

// ReplaceStops swaps the whole corpus in one transaction.
func (r *PgStopRepository) ReplaceStops(ctx context.Context, stops []domain.PricedStop) (int64, error) {
	if r.DB == nil {
		return 0, errors.New("stop repository: DB is nil")
	}

	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("replace stops: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, truncateStopsQuery); err != nil {
		return 0, fmt.Errorf("replace stops: truncate: %w", err)
	}

	n, err := copyStops(ctx, tx, stops)
	if err != nil {
		return 0, fmt.Errorf("replace stops: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("replace stops: commit tx: %w", err)
	}
	return n, nil
}

type copier interface {
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

func copyStops(ctx context.Context, c copier, stops []domain.PricedStop) (int64, error) {
	if len(stops) == 0 {
		return 0, nil
	}

	n, err := c.CopyFrom(ctx, truckStopsTable, copyColumns, pgx.CopyFromSlice(len(stops), func(i int) ([]any, error) {
		s := stops[i]
		return []any{
			s.OpisID, s.Name, s.Address, s.City, s.State, s.RackID,
			toNumeric(s.RetailPrice), s.Location.Lat, s.Location.Lon,
		}, nil
	}))
	if err != nil {
		return 0, fmt.Errorf("copy truck_stops: %w", err)
	}
	return n, nil
}

func (r *PgStopRepository) queryStops(ctx context.Context, query string, args ...any) ([]domain.PricedStop, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query truck_stops table: %w", err)
	}
	defer rows.Close()

	stops := make([]domain.PricedStop, 0, 64)
	for rows.Next() {
		var (
			id    int64
			s     domain.PricedStop
			price pgtype.Numeric
		)
		if err := rows.Scan(
			&id, &s.OpisID, &s.Name, &s.Address, &s.City, &s.State, &s.RackID,
			&price, &s.Location.Lat, &s.Location.Lon,
		); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		s.ID = strconv.FormatInt(id, 10)
		s.RetailPrice, err = fromNumeric(price)
		if err != nil {
			return nil, fmt.Errorf("stop %d: %w", id, err)
		}
		stops = append(stops, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration: %w", err)
	}

	return stops, nil
}

func toNumeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}

func fromNumeric(n pgtype.Numeric) (decimal.Decimal, error) {
	if !n.Valid || n.NaN || n.InfinityModifier != pgtype.Finite || n.Int == nil {
		return decimal.Zero, errors.New("retail price is not a finite number")
	}
	return decimal.NewFromBigInt(n.Int, n.Exp), nil
}
