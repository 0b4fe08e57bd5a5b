package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/platform/obs"
	"fuel-route-service/internal/ports"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// RedisResultCache stores finished trip plans as JSON with a fixed TTL.
type RedisResultCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisResultCache(client redis.Cmdable, ttl time.Duration) *RedisResultCache {
	return &RedisResultCache{client: client, ttl: ttl}
}

type cachedStop struct {
	StopID       string          `json:"stop_id"`
	OpisID       string          `json:"opis_id"`
	Name         string          `json:"name"`
	City         string          `json:"city"`
	State        string          `json:"state"`
	Price        decimal.Decimal `json:"price"`
	DistanceFrom float64         `json:"distance_from_start"`
	Gallons      decimal.Decimal `json:"gallons"`
	Cost         decimal.Decimal `json:"cost"`
}

type cachedPlan struct {
	DistanceMiles float64         `json:"distance_miles"`
	Segments      []float64       `json:"segments_miles"`
	Strategy      string          `json:"strategy"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	Stops         []cachedStop    `json:"stops"`
}

// Get returns (nil, nil) when key is absent or expired.
func (c *RedisResultCache) Get(ctx context.Context, key string) (_ *ports.TripPlan, err error) {
	defer obs.Time(ctx, "result.cache.Get")(&err)

	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get result cache %q: %w", key, err)
	}

	var cp cachedPlan
	if err := json.Unmarshal(raw, &cp); err != nil {
		return nil, fmt.Errorf("get result cache %q: decode: %w", key, err)
	}

	return cp.toTripPlan(), nil
}

func (c *RedisResultCache) Set(ctx context.Context, key string, plan *ports.TripPlan) error {
	if plan == nil {
		return errors.New("set result cache: plan is nil")
	}

	raw, err := json.Marshal(fromTripPlan(plan))
	if err != nil {
		return fmt.Errorf("set result cache %q: encode: %w", key, err)
	}

	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("set result cache %q: %w", key, err)
	}
	return nil
}

func fromTripPlan(p *ports.TripPlan) cachedPlan {
	stops := make([]cachedStop, 0, len(p.Plan.Stops))
	for _, s := range p.Plan.Stops {
		stops = append(stops, cachedStop{
			StopID:       s.StopID,
			OpisID:       s.OpisID,
			Name:         s.Name,
			City:         s.City,
			State:        s.State,
			Price:        s.Price,
			DistanceFrom: s.DistanceFromStartMiles,
			Gallons:      s.Gallons,
			Cost:         s.Cost,
		})
	}

	return cachedPlan{
		DistanceMiles: p.DistanceMiles,
		Segments:      p.Segments,
		Strategy:      p.Plan.Strategy,
		TotalCost:     p.Plan.TotalCost,
		Stops:         stops,
	}
}

func (cp cachedPlan) toTripPlan() *ports.TripPlan {
	stops := make([]domain.StopDecision, 0, len(cp.Stops))
	for _, s := range cp.Stops {
		stops = append(stops, domain.StopDecision{
			StopID:                 s.StopID,
			OpisID:                 s.OpisID,
			Name:                   s.Name,
			City:                   s.City,
			State:                  s.State,
			Price:                  s.Price,
			DistanceFromStartMiles: s.DistanceFrom,
			Gallons:                s.Gallons,
			Cost:                   s.Cost,
		})
	}

	segments := cp.Segments
	if segments == nil {
		segments = []float64{}
	}

	return &ports.TripPlan{
		DistanceMiles: cp.DistanceMiles,
		Segments:      segments,
		Plan: domain.FuelPlan{
			Strategy:           cp.Strategy,
			TotalDistanceMiles: cp.DistanceMiles,
			TotalCost:          cp.TotalCost,
			Stops:              stops,
		},
	}
}
