package dto

import (
	"fuel-route-service/internal/ports"
	"math"

	"github.com/shopspring/decimal"
)

type OptimizeRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type FuelStopResponse struct {
	StopID            string  `json:"stop_id"`
	OpisID            string  `json:"opis_id"`
	Name              string  `json:"name"`
	City              string  `json:"city"`
	State             string  `json:"state"`
	Price             float64 `json:"price"`
	DistanceFromStart float64 `json:"distance_from_start"`
	Gallons           float64 `json:"gallons"`
	Cost              float64 `json:"cost"`
}

type OptimizeResponse struct {
	DistanceMiles float64            `json:"distance_miles"`
	SegmentsMiles []float64          `json:"segments_miles"`
	Strategy      string             `json:"strategy"`
	FuelStops     []FuelStopResponse `json:"fuel_stops"`
	TotalCost     float64            `json:"total_cost"`
}

// NewOptimizeResponse renders a trip plan. Monetary and volume values are
// rounded to cents here and nowhere earlier.
func NewOptimizeResponse(trip *ports.TripPlan) OptimizeResponse {
	stops := make([]FuelStopResponse, 0, len(trip.Plan.Stops))
	for _, s := range trip.Plan.Stops {
		stops = append(stops, FuelStopResponse{
			StopID:            s.StopID,
			OpisID:            s.OpisID,
			Name:              s.Name,
			City:              s.City,
			State:             s.State,
			Price:             s.Price.InexactFloat64(),
			DistanceFromStart: round2(s.DistanceFromStartMiles),
			Gallons:           cents(s.Gallons),
			Cost:              cents(s.Cost),
		})
	}

	segments := make([]float64, 0, len(trip.Segments))
	for _, seg := range trip.Segments {
		segments = append(segments, round2(seg))
	}

	return OptimizeResponse{
		DistanceMiles: trip.DistanceMiles,
		SegmentsMiles: segments,
		Strategy:      trip.Plan.Strategy,
		FuelStops:     stops,
		TotalCost:     cents(trip.Plan.TotalCost),
	}
}

func cents(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
