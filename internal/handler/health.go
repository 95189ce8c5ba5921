package handler

import (
	"context"
	"net/http"
	"time"
)

// Pinger is the connectivity probe shared by the Postgres pool backing
// the note store and the Redis client backing the identity cache.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	deps []dependency
}

type dependency struct {
	name   string
	pinger Pinger
}

// NewHealthHandler wires the readiness probe to the API's two backing
// stores. A nil dependency is reported as not configured rather than
// failing the probe.
func NewHealthHandler(db, cache Pinger) *HealthHandler {
	return &HealthHandler{
		deps: []dependency{
			{name: "postgres", pinger: db},
			{name: "redis", pinger: cache},
		},
	}
}

// HealthResponse is the payload of both probes.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

const readyzTimeout = 5 * time.Second

// Healthz reports that the process is up. No dependency checks, so a
// Redis or Postgres outage never restarts the pod.
//
// GET /healthz
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Readyz pings each backing store and returns 503 when any of them
// fails, pulling the pod from rotation until it recovers.
//
// GET /readyz
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyzTimeout)
	defer cancel()

	checks := make(map[string]string, len(h.deps))
	healthy := true

	for _, dep := range h.deps {
		if dep.pinger == nil {
			checks[dep.name] = "not configured"
			continue
		}
		if err := dep.pinger.Ping(ctx); err != nil {
			checks[dep.name] = "error: " + err.Error()
			healthy = false
			continue
		}
		checks[dep.name] = "ok"
	}

	status := "ok"
	statusCode := http.StatusOK
	if !healthy {
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	writeJSON(w, statusCode, HealthResponse{Status: status, Checks: checks})
}
