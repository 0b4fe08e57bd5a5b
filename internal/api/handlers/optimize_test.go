package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/ports"
	"fuel-route-service/internal/services"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPlanner struct {
	trip *ports.TripPlan
	err  error
	got  services.TripRequest
}

func (s *stubPlanner) Plan(_ context.Context, req services.TripRequest) (*ports.TripPlan, error) {
	s.got = req
	return s.trip, s.err
}

func postOptimize(h *OptimizeHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/optimize-fuel", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Optimize(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestOptimizeHandler(t *testing.T) {
	trip := &ports.TripPlan{
		DistanceMiles: 600,
		Segments:      []float64{500, 100},
		Plan: domain.FuelPlan{
			Strategy:  "GreedyHalfWindow",
			TotalCost: decimal.RequireFromString("140.4"),
			Stops: []domain.StopDecision{{
				StopID:                 "2",
				OpisID:                 "515",
				Name:                   "PILOT",
				City:                   "Joliet",
				State:                  "IL",
				Price:                  decimal.RequireFromString("2.599"),
				DistanceFromStartMiles: 259.1234,
				Gallons:                decimal.RequireFromString("25.91234"),
				Cost:                   decimal.RequireFromString("67.347171"),
			}},
		},
	}

	t.Run("success", func(t *testing.T) {
		planner := &stubPlanner{trip: trip}
		rec := postOptimize(&OptimizeHandler{Planner: planner}, `{"start":"-87.6, 41.8","end":"-95.3, 29.7"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.Equal(t, services.TripRequest{Start: "-87.6, 41.8", End: "-95.3, 29.7"}, planner.got)

		var res map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.InDelta(t, 600, res["distance_miles"], 1e-9)
		assert.InDelta(t, 140.4, res["total_cost"], 1e-9)
		assert.Equal(t, "GreedyHalfWindow", res["strategy"])

		stops := res["fuel_stops"].([]any)
		require.Len(t, stops, 1)
		stop := stops[0].(map[string]any)
		assert.Equal(t, "515", stop["opis_id"])
		assert.InDelta(t, 2.599, stop["price"], 1e-9)
		assert.InDelta(t, 259.12, stop["distance_from_start"], 1e-9)
		assert.InDelta(t, 25.91, stop["gallons"], 1e-9)
		assert.InDelta(t, 67.35, stop["cost"], 1e-9)
	})

	t.Run("rejects malformed bodies", func(t *testing.T) {
		tests := []struct {
			name string
			body string
			want string
		}{
			{name: "not json", body: `start=1`, want: "invalid json body"},
			{name: "unknown field", body: `{"start":"1,1","end":"2,2","mpg":7}`, want: "invalid json body"},
			{name: "trailing object", body: `{"start":"1,1","end":"2,2"}{}`, want: "body must contain only one JSON object"},
			{name: "missing end", body: `{"start":"1,1"}`, want: "start and end are required"},
			{name: "blank start", body: `{"start":"  ","end":"2,2"}`, want: "start and end are required"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				planner := &stubPlanner{trip: trip}
				rec := postOptimize(&OptimizeHandler{Planner: planner}, tt.body)

				assert.Equal(t, http.StatusBadRequest, rec.Code)
				assert.Equal(t, tt.want, decodeError(t, rec))
				assert.Empty(t, planner.got.Start)
			})
		}
	})

	t.Run("maps planner errors", func(t *testing.T) {
		tests := []struct {
			name   string
			err    error
			status int
		}{
			{name: "invalid input", err: &domain.InvalidInputError{Field: "start", Reason: "bad"}, status: http.StatusBadRequest},
			{name: "no reachable stop", err: fmt.Errorf("plan trip: optimize: %w", &domain.NoReachableStopError{MaxReachMiles: 500}), status: http.StatusUnprocessableEntity},
			{name: "route not found", err: fmt.Errorf("plan trip: get route: %w", domain.ErrRouteNotFound), status: http.StatusUnprocessableEntity},
			{name: "corpus unavailable", err: &domain.CorpusUnavailableError{Err: errors.New("db down")}, status: http.StatusServiceUnavailable},
			{name: "deadline", err: fmt.Errorf("get route: %w", context.DeadlineExceeded), status: http.StatusGatewayTimeout},
			{name: "provider failure", err: errors.New("status 502: bad gateway"), status: http.StatusBadGateway},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				rec := postOptimize(&OptimizeHandler{Planner: &stubPlanner{err: tt.err}}, `{"start":"1,1","end":"2,2"}`)

				assert.Equal(t, tt.status, rec.Code)
				assert.NotEmpty(t, decodeError(t, rec))
			})
		}
	})

	t.Run("internal details are not leaked", func(t *testing.T) {
		rec := postOptimize(&OptimizeHandler{Planner: &stubPlanner{
			err: &domain.CorpusUnavailableError{Err: errors.New("password authentication failed for user fuel")},
		}}, `{"start":"1,1","end":"2,2"}`)

		assert.NotContains(t, rec.Body.String(), "password")
	})
}

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

func TestHealthHandler(t *testing.T) {
	for _, tt := range []struct {
		name   string
		db     Pinger
		status int
	}{
		{name: "no database", db: nil, status: http.StatusOK},
		{name: "database up", db: stubPinger{}, status: http.StatusOK},
		{name: "database down", db: stubPinger{err: errors.New("refused")}, status: http.StatusServiceUnavailable},
	} {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			(&HealthHandler{DB: tt.db}).Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
