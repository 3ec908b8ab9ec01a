// Package handler contains the HTTP handlers for the dashboard API. Each
// handler declares the narrow service interface it needs.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

const healthCheckTimeout = 2 * time.Second

// DependencyCheck pings a single backing dependency by name.
type DependencyCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// HealthHandler serves the health-check endpoint.
type HealthHandler struct {
	logger *slog.Logger
	checks []DependencyCheck
}

// NewHealthHandler creates a HealthHandler that reports the status of the
// given dependencies.
func NewHealthHandler(checks []DependencyCheck, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{logger: logger, checks: checks}
}

// HealthCheck reports overall liveness plus per-dependency reachability.
// Overall status degrades to "degraded" when any dependency ping fails.
// GET /api/health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	status := "ok"
	deps := make(map[string]string, len(h.checks))
	for _, c := range h.checks {
		if err := c.Check(ctx); err != nil {
			h.logger.Warn("health check failed", "dependency", c.Name, "error", err)
			deps[c.Name] = "unreachable"
			status = "degraded"
			continue
		}
		deps[c.Name] = "ok"
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":       status,
		"dependencies": deps,
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
	})
}
