package spatial_test

import (
	"context"
	"fmt"
	"testing"

	"fuel-route-service/internal/adapters/spatial"
	"fuel-route-service/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stopAt(id string, lon, lat float64) domain.PricedStop {
	return domain.PricedStop{
		ID:          id,
		Name:        "Stop " + id,
		State:       "KS",
		RetailPrice: decimal.RequireFromString("3.199"),
		Location:    domain.GeoPoint{Lon: lon, Lat: lat},
	}
}

func TestRTreeCorpusStopsWithinRadius(t *testing.T) {
	center := domain.GeoPoint{Lon: -98.0, Lat: 38.0}
	// 0.05 degrees of latitude is ~3.45 miles, 0.1 is ~6.9 miles.
	stops := []domain.PricedStop{
		stopAt("near-north", -98.0, 38.05),
		stopAt("near-south", -98.0, 37.95),
		stopAt("far-north", -98.0, 38.1),
		stopAt("box-corner", -98.07, 38.07),
		stopAt("elsewhere", -90.0, 30.0),
	}

	corpus, err := spatial.NewRTreeCorpus(stops)
	require.NoError(t, err)
	assert.Equal(t, 5, corpus.Size())

	got, err := corpus.StopsWithinRadius(context.Background(), center, 5)
	require.NoError(t, err)

	ids := make([]string, 0, len(got))
	for _, s := range got {
		ids = append(ids, s.ID)
	}
	// box-corner is inside the bounding box but ~6 miles away.
	assert.Equal(t, []string{"near-north", "near-south"}, ids)
}

func TestRTreeCorpusEmptyResult(t *testing.T) {
	corpus, err := spatial.NewRTreeCorpus([]domain.PricedStop{stopAt("a", 10, 10)})
	require.NoError(t, err)

	got, err := corpus.StopsWithinRadius(context.Background(), domain.GeoPoint{Lon: -10, Lat: -10}, 5)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRTreeCorpusEmptySnapshot(t *testing.T) {
	corpus, err := spatial.NewRTreeCorpus(nil)
	require.NoError(t, err)

	got, err := corpus.StopsWithinRadius(context.Background(), domain.GeoPoint{Lon: 0, Lat: 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRTreeCorpusRejectsInvalidStop(t *testing.T) {
	_, err := spatial.NewRTreeCorpus([]domain.PricedStop{stopAt("bad", 200, 10)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `stop "bad"`)
}

func TestRTreeCorpusCancelledContext(t *testing.T) {
	corpus, err := spatial.NewRTreeCorpus([]domain.PricedStop{stopAt("a", 0, 0)})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = corpus.StopsWithinRadius(ctx, domain.GeoPoint{}, 5)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRTreeCorpusManyStops(t *testing.T) {
	stops := make([]domain.PricedStop, 0, 1000)
	for i := 0; i < 1000; i++ {
		// One stop every 0.01 degrees of latitude (~0.69 miles) along a meridian.
		stops = append(stops, stopAt(fmt.Sprintf("s%04d", i), -100, 30+float64(i)*0.01))
	}
	corpus, err := spatial.NewRTreeCorpus(stops)
	require.NoError(t, err)

	got, err := corpus.StopsWithinRadius(context.Background(), domain.GeoPoint{Lon: -100, Lat: 35}, 5)
	require.NoError(t, err)

	// 5 miles is ~0.0724 degrees -> indices 493..507.
	assert.Len(t, got, 15)
	for _, s := range got {
		assert.LessOrEqual(t, domain.HaversineMiles(domain.GeoPoint{Lon: -100, Lat: 35}, s.Location), 5.0)
	}
}

func TestRTreeCorpusAcrossAntimeridian(t *testing.T) {
	corpus, err := spatial.NewRTreeCorpus([]domain.PricedStop{
		stopAt("east", 179.98, -17.0),
		stopAt("west", -179.98, -17.0),
		stopAt("far", -179.5, -17.0),
	})
	require.NoError(t, err)

	got, err := corpus.StopsWithinRadius(context.Background(), domain.GeoPoint{Lon: 179.995, Lat: -17.0}, 5)
	require.NoError(t, err)

	ids := make([]string, 0, len(got))
	for _, s := range got {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"east", "west"}, ids)
}
