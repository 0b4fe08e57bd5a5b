package cache

import (
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/ports"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func samplePlan() *ports.TripPlan {
	return &ports.TripPlan{
		DistanceMiles: 600,
		Segments:      []float64{500, 100},
		Plan: domain.FuelPlan{
			Strategy:           "GreedyHalfWindow",
			TotalDistanceMiles: 600,
			TotalCost:          decimal.RequireFromString("140.4"),
			Stops: []domain.StopDecision{
				{
					StopID:                 "2",
					OpisID:                 "515",
					Name:                   "PILOT TRAVEL CENTER #1",
					City:                   "Joliet",
					State:                  "IL",
					Price:                  decimal.RequireFromString("2.50"),
					DistanceFromStartMiles: 260,
					Gallons:                decimal.NewFromInt(26),
					Cost:                   decimal.RequireFromString("65"),
				},
			},
		},
	}
}

func TestRedisResultCache(t *testing.T) {
	ctx := t.Context()

	t.Run("round trip keeps values and sets ttl", func(t *testing.T) {
		mr, client := newTestRedis(t)
		c := NewRedisResultCache(client, 24*time.Hour)

		require.NoError(t, c.Set(ctx, "routing_result_abc", samplePlan()))

		got, err := c.Get(ctx, "routing_result_abc")
		require.NoError(t, err)
		require.NotNil(t, got)

		want := samplePlan()
		assert.Equal(t, want.DistanceMiles, got.DistanceMiles)
		assert.Equal(t, want.Segments, got.Segments)
		assert.Equal(t, want.Plan.Strategy, got.Plan.Strategy)
		assert.Equal(t, want.Plan.TotalDistanceMiles, got.Plan.TotalDistanceMiles)
		assert.True(t, want.Plan.TotalCost.Equal(got.Plan.TotalCost))
		require.Len(t, got.Plan.Stops, 1)

		ws, gs := want.Plan.Stops[0], got.Plan.Stops[0]
		assert.Equal(t, ws.StopID, gs.StopID)
		assert.Equal(t, ws.OpisID, gs.OpisID)
		assert.Equal(t, ws.Name, gs.Name)
		assert.InDelta(t, ws.DistanceFromStartMiles, gs.DistanceFromStartMiles, 1e-9)
		assert.True(t, ws.Price.Equal(gs.Price))
		assert.True(t, ws.Gallons.Equal(gs.Gallons))
		assert.True(t, ws.Cost.Equal(gs.Cost))

		assert.Equal(t, 24*time.Hour, mr.TTL("routing_result_abc"))
	})

	t.Run("miss", func(t *testing.T) {
		_, client := newTestRedis(t)
		c := NewRedisResultCache(client, time.Hour)

		got, err := c.Get(ctx, "routing_result_missing")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("expired entry is a miss", func(t *testing.T) {
		mr, client := newTestRedis(t)
		c := NewRedisResultCache(client, time.Minute)

		require.NoError(t, c.Set(ctx, "k", samplePlan()))
		mr.FastForward(2 * time.Minute)

		got, err := c.Get(ctx, "k")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("corrupt payload", func(t *testing.T) {
		mr, client := newTestRedis(t)
		c := NewRedisResultCache(client, time.Hour)

		require.NoError(t, mr.Set("k", "not json"))

		_, err := c.Get(ctx, "k")
		require.ErrorContains(t, err, "decode")
	})

	t.Run("server unavailable", func(t *testing.T) {
		mr, client := newTestRedis(t)
		c := NewRedisResultCache(client, time.Hour)
		mr.Close()

		_, err := c.Get(ctx, "k")
		require.Error(t, err)
		require.Error(t, c.Set(ctx, "k", samplePlan()))
	})

	t.Run("nil plan", func(t *testing.T) {
		_, client := newTestRedis(t)
		c := NewRedisResultCache(client, time.Hour)

		require.Error(t, c.Set(ctx, "k", nil))
	})
}
