package services

import (
	"fuel-route-service/internal/domain"

	"github.com/shopspring/decimal"
)

// costAccumulator folds stop decisions into a running total.
// Values are never rounded here; presentation rounds to cents.
type costAccumulator struct {
	milesPerGallon float64
	total          decimal.Decimal
	stops          []domain.StopDecision
}

func newCostAccumulator(milesPerGallon float64) *costAccumulator {
	return &costAccumulator{
		milesPerGallon: milesPerGallon,
		total:          decimal.Zero,
		stops:          []domain.StopDecision{},
	}
}

// add records a purchase at c covering the distance driven from position.
func (a *costAccumulator) add(c domain.RouteCandidate, position float64) domain.StopDecision {
	distance := c.DistanceFromStartMiles - position
	gallons := decimal.NewFromFloat(distance / a.milesPerGallon)
	cost := gallons.Mul(c.Stop.RetailPrice)

	d := domain.StopDecision{
		StopID:                 c.Stop.ID,
		OpisID:                 c.Stop.OpisID,
		Name:                   c.Stop.Name,
		City:                   c.Stop.City,
		State:                  c.Stop.State,
		Price:                  c.Stop.RetailPrice,
		DistanceFromStartMiles: c.DistanceFromStartMiles,
		Gallons:                gallons,
		Cost:                   cost,
	}

	a.total = a.total.Add(cost)
	a.stops = append(a.stops, d)
	return d
}

func (a *costAccumulator) result() (decimal.Decimal, []domain.StopDecision) {
	return a.total, a.stops
}
