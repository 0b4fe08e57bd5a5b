package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fuel-route-service/internal/api/dto"
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/platform/obs"
	"fuel-route-service/internal/ports"
	"fuel-route-service/internal/services"
	"io"
	"net/http"
	"strings"
)

// TripPlanner is satisfied by *services.TripPlanner.
type TripPlanner interface {
	Plan(ctx context.Context, req services.TripRequest) (*ports.TripPlan, error)
}

type OptimizeHandler struct {
	Planner TripPlanner
}

// Optimize plans fuel stops between two "lon, lat" points.
func (h *OptimizeHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	var req dto.OptimizeRequest

	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<16))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	if strings.TrimSpace(req.Start) == "" || strings.TrimSpace(req.End) == "" {
		writeError(w, r, http.StatusBadRequest, "start and end are required")
		return
	}

	trip, err := h.Planner.Plan(r.Context(), services.TripRequest{Start: req.Start, End: req.End})
	if err != nil {
		status, msg := statusFor(err)
		if status >= http.StatusInternalServerError {
			obs.Logger(r.Context()).ErrorContext(r.Context(), "optimize failed",
				"req_id", obs.RequestID(r.Context()), "error", err)
		}
		writeError(w, r, status, msg)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewOptimizeResponse(trip))
}

// statusFor maps planner errors to an HTTP status and a client-safe message.
func statusFor(err error) (int, string) {
	var (
		invalid *domain.InvalidInputError
		noStop  *domain.NoReachableStopError
		corpus  *domain.CorpusUnavailableError
	)

	switch {
	case errors.As(err, &invalid):
		return http.StatusBadRequest, invalid.Error()
	case errors.As(err, &noStop):
		return http.StatusUnprocessableEntity, noStop.Error()
	case errors.Is(err, domain.ErrRouteNotFound):
		return http.StatusUnprocessableEntity, "route could not be calculated"
	case errors.As(err, &corpus):
		return http.StatusServiceUnavailable, "fuel price data is unavailable"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusGatewayTimeout, "request timed out"
	default:
		return http.StatusBadGateway, "route provider unavailable"
	}
}
