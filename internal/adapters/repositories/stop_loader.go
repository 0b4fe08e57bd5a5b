package repositories

import (
	"context"
	"fmt"
	"fuel-route-service/internal/domain"
)

// StopStore is the write side of the stop repository used by corpus loads.
type StopStore interface {
	CountStops(ctx context.Context) (int64, error)
	InsertStops(ctx context.Context, stops []domain.PricedStop) (int64, error)
	ReplaceStops(ctx context.Context, stops []domain.PricedStop) (int64, error)
}

type LoadOutcome string

const (
	LoadInserted LoadOutcome = "inserted"
	LoadReplaced LoadOutcome = "replaced"
	LoadSkipped  LoadOutcome = "skipped"
)

// LoadResult reports what a corpus load did. For a skipped load Rows is the
// number of stops already present.
type LoadResult struct {
	Outcome LoadOutcome
	Rows    int64
}

// LoadCorpus writes stops into an empty store. A populated store is left
// untouched unless replace is set, in which case its contents are swapped.
func LoadCorpus(ctx context.Context, store StopStore, stops []domain.PricedStop, replace bool) (LoadResult, error) {
	if replace {
		n, err := store.ReplaceStops(ctx, stops)
		if err != nil {
			return LoadResult{}, fmt.Errorf("load corpus: %w", err)
		}
		return LoadResult{Outcome: LoadReplaced, Rows: n}, nil
	}

	existing, err := store.CountStops(ctx)
	if err != nil {
		return LoadResult{}, fmt.Errorf("load corpus: %w", err)
	}
	if existing > 0 {
		return LoadResult{Outcome: LoadSkipped, Rows: existing}, nil
	}

	n, err := store.InsertStops(ctx, stops)
	if err != nil {
		return LoadResult{}, fmt.Errorf("load corpus: %w", err)
	}
	return LoadResult{Outcome: LoadInserted, Rows: n}, nil
}
