package services

import (
	"fmt"
	"fuel-route-service/internal/domain"
	"math"
	"slices"
	"sort"

	"github.com/shopspring/decimal"
)

// StrategyGreedyHalfWindow tags plans produced by GreedyHalfWindow.
const StrategyGreedyHalfWindow = "GreedyHalfWindow"

// searchWindowFraction is the share of the reachable window skipped before
// searching; only the far part of the window is scanned.
const searchWindowFraction = 0.5

// StopSelector chooses refueling stops from corridor candidates sorted by
// distance from start. Implementations must be deterministic.
type StopSelector interface {
	Name() string
	Select(
		candidates []domain.RouteCandidate,
		totalDistanceMiles float64,
		opts Options,
	) (decimal.Decimal, []domain.StopDecision, error)
}

// GreedyHalfWindow picks, step by step, the cheapest candidate in the second
// half of the currently reachable window.
//
// It is a local decision policy and is not guaranteed to find the minimum-cost
// stop sequence. Equal prices are broken by smallest distance from start, then
// by stop ID.
type GreedyHalfWindow struct{}

func (GreedyHalfWindow) Name() string { return StrategyGreedyHalfWindow }

func (GreedyHalfWindow) Select(
	candidates []domain.RouteCandidate,
	totalDistanceMiles float64,
	opts Options,
) (decimal.Decimal, []domain.StopDecision, error) {
	if err := opts.validate(); err != nil {
		return decimal.Zero, nil, fmt.Errorf("greedy select: %w", err)
	}
	if !(totalDistanceMiles > 0) || math.IsInf(totalDistanceMiles, 0) {
		return decimal.Zero, nil, &domain.InvalidInputError{
			Field:  "total_distance",
			Reason: fmt.Sprintf("must be a positive number of miles, got %v", totalDistanceMiles),
		}
	}

	if !slices.IsSortedFunc(candidates, compareCandidates) {
		candidates = slices.Clone(candidates)
		slices.SortFunc(candidates, compareCandidates)
	}

	acc := newCostAccumulator(opts.MilesPerGallon)
	position := 0.0

	for position < totalDistanceMiles {
		maxReach, finalLeg := reachLimit(position, totalDistanceMiles, opts.MaxRangeMiles)
		searchFloor := position + (maxReach-position)*searchWindowFraction

		best, ok := cheapestInWindow(candidates, searchFloor, maxReach)
		if !ok {
			return decimal.Zero, nil, &domain.NoReachableStopError{
				PositionMiles:    position,
				SearchFloorMiles: searchFloor,
				MaxReachMiles:    maxReach,
			}
		}

		acc.add(best, position)

		// The destination is within range of a stop picked on the final leg,
		// so the run ends there. The drive from that stop to the destination
		// is not billed; plans only pay for fuel burned up to each stop.
		if finalLeg {
			position = totalDistanceMiles
			break
		}
		position = best.DistanceFromStartMiles
	}

	total, stops := acc.result()
	return total, stops, nil
}

// cheapestInWindow scans candidates with floor < distance <= ceil. Candidates
// must be sorted by compareCandidates so the first minimum found is also the
// nearest one.
func cheapestInWindow(candidates []domain.RouteCandidate, floor, ceil float64) (domain.RouteCandidate, bool) {
	i := sort.Search(len(candidates), func(i int) bool {
		return candidates[i].DistanceFromStartMiles > floor
	})

	var best domain.RouteCandidate
	found := false
	for ; i < len(candidates) && candidates[i].DistanceFromStartMiles <= ceil; i++ {
		c := candidates[i]
		if !found || c.Stop.RetailPrice.LessThan(best.Stop.RetailPrice) {
			best = c
			found = true
		}
	}
	return best, found
}
