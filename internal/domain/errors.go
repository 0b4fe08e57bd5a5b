package domain

import (
	"errors"
	"fmt"
)

// ErrRouteNotFound is returned by route providers when no route connects the endpoints.
var ErrRouteNotFound = errors.New("no route found between start and end")

// NoReachableStopError means the current search window holds no candidate stop.
// It is terminal for the run and is never retried.
type NoReachableStopError struct {
	PositionMiles    float64
	SearchFloorMiles float64
	MaxReachMiles    float64
}

func (e *NoReachableStopError) Error() string {
	return fmt.Sprintf(
		"no reachable fuel stops: position=%.2fmi window=(%.2f, %.2f]",
		e.PositionMiles, e.SearchFloorMiles, e.MaxReachMiles,
	)
}

// InvalidInputError rejects a request before optimization begins.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// CorpusUnavailableError wraps failures of the collaborator supplying priced stops.
type CorpusUnavailableError struct {
	Err error
}

func (e *CorpusUnavailableError) Error() string {
	return fmt.Sprintf("stop corpus unavailable: %v", e.Err)
}

func (e *CorpusUnavailableError) Unwrap() error { return e.Err }
