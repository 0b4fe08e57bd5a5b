package domain

import "github.com/shopspring/decimal"

// Represents a priced fuel location from the bulk-loaded corpus.
// Stops are read-only to the optimizer; ID is unique within one corpus snapshot.
// OpisID is the price feed identifier and may repeat across locations.
type PricedStop struct {
	ID          string
	OpisID      string
	Name        string
	Address     string
	City        string
	State       string
	RackID      string
	RetailPrice decimal.Decimal
	Location    GeoPoint
}

// A PricedStop annotated with its straight-line distance from the route start.
// Candidates are request-scoped and discarded after an optimization run.
type RouteCandidate struct {
	Stop                   PricedStop
	DistanceFromStartMiles float64
}

// A single refueling decision made by a stop selection strategy.
// Gallons cover the distance driven since the previous decision.
type StopDecision struct {
	StopID                 string
	OpisID                 string
	Name                   string
	City                   string
	State                  string
	Price                  decimal.Decimal
	DistanceFromStartMiles float64
	Gallons                decimal.Decimal
	Cost                   decimal.Decimal
}

// FuelPlan is the output of an optimization run. TotalCost is kept at full
// precision; rounding happens when the plan is presented.
type FuelPlan struct {
	Strategy           string
	TotalDistanceMiles float64
	TotalCost          decimal.Decimal
	Stops              []StopDecision
}
