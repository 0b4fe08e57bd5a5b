package handlers

import (
	"context"
	"fuel-route-service/internal/platform/obs"
	"net/http"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	DB Pinger // Optional.
}

// Health provides a liveness check. When a database is configured it must
// answer a ping.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.DB != nil {
		if err := h.DB.Ping(r.Context()); err != nil {
			obs.Logger(r.Context()).WarnContext(r.Context(), "health check failed",
				"req_id", obs.RequestID(r.Context()), "error", err)
			writeJSON(w, r, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "database": "unreachable"})
			return
		}
	}

	res := map[string]string{"status": "ok"}
	writeJSON(w, r, http.StatusOK, res)
}
