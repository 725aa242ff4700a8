package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/Nexora-Open-Source/rss-feed-frontend/middleware"
	"github.com/Nexora-Open-Source/rss-feed-frontend/types"
)

var startTime = time.Now()

// HandleHealthCheck provides a health check endpoint for monitoring
// @Summary Health check
// @Description Reports the frontend status and whether the RSS backend answers.
// @Tags Health
// @Produce json
// @Success 200 {object} types.HealthStatus "Health report"
// @Router /health [get]
func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	health := types.HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
		Version:   h.Version,
		Services:  make(map[string]string),
		Uptime:    time.Since(startTime).String(),
	}

	if err := h.checkBackend(r.Context()); err != nil {
		health.Status = "degraded"
		health.Services["backend"] = "unhealthy: " + err.Error()
		h.logger(r).WithError(err).Warn("Health check failed for backend")
	} else {
		health.Services["backend"] = "healthy"
	}

	writeJSON(w, http.StatusOK, health)
}

// HandleLivenessCheck provides a simple liveness probe
func (h *Handler) HandleLivenessCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "alive",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(startTime).String(),
	})
}

// HandleReadinessCheck provides a readiness probe. The frontend is ready when the backend answers.
func (h *Handler) HandleReadinessCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.checkBackend(r.Context()); err != nil {
		middleware.RespondServiceUnavailable(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ready",
		"timestamp": time.Now().Format(time.RFC3339),
		"services": map[string]string{
			"backend": "ready",
		},
	})
}

func (h *Handler) checkBackend(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return h.Backend.Ping(ctx)
}
