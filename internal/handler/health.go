package handler

import (
	"context"
	"net/http"
	"time"
)

// readyTimeout bounds a full readiness probe.
const readyTimeout = 5 * time.Second

// HealthChecker is a named dependency that can be probed.
type HealthChecker interface {
	Name() string
	Ping(ctx context.Context) error
}

// HealthHandler manages health check endpoints.
type HealthHandler struct {
	liveStatus string
	checkers   []HealthChecker
}

// NewHealthHandler creates a new HealthHandler. liveStatus is the status
// string reported by the liveness probe; checkers are probed by Readyz in
// the order given.
func NewHealthHandler(liveStatus string, checkers ...HealthChecker) *HealthHandler {
	return &HealthHandler{
		liveStatus: liveStatus,
		checkers:   checkers,
	}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Healthz is a liveness probe endpoint.
// It returns 200 if the server is running and checks no dependencies.
//
// GET /healthz, GET /api/health
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: h.liveStatus})
}

// Readyz is a readiness probe endpoint.
// It returns 200 only if every dependency answers.
//
// GET /api/ready
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	checks := make(map[string]string, len(h.checkers))
	healthy := true

	for _, c := range h.checkers {
		if err := c.Ping(ctx); err != nil {
			checks[c.Name()] = "error: " + err.Error()
			healthy = false
		} else {
			checks[c.Name()] = "ok"
		}
	}

	status := "ok"
	statusCode := http.StatusOK
	if !healthy {
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	writeJSON(w, statusCode, HealthResponse{
		Status: status,
		Checks: checks,
	})
}
