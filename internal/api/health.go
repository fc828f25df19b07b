package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/ashureev/mathlab/internal/content"
	"github.com/ashureev/mathlab/internal/dilemma"
	"github.com/ashureev/mathlab/internal/staircase"
	"github.com/go-chi/chi/v5"
)

const healthCheckTimeout = 5 * time.Second

// HealthHandler handles health and frontend configuration endpoints.
type HealthHandler struct {
	*Handler
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(base *Handler) *HealthHandler {
	return &HealthHandler{Handler: base}
}

// RegisterRoutes registers the health check and config routes.
func (h *HealthHandler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.Health)
	r.Get("/api/config", h.GetConfig)
}

// Health returns the health status of the API and its dependencies.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	checks := map[string]string{"api": "ok"}
	status := map[string]interface{}{
		"status": "healthy",
		"checks": checks,
		"posts":  h.posts.Len(),
		"games":  h.games.Count(),
	}
	statusCode := http.StatusOK

	if err := h.repo.Ping(ctx); err != nil {
		slog.Error("Health check failed", "error", err)
		status["status"] = "degraded"
		checks["database"] = "unreachable"
		statusCode = http.StatusServiceUnavailable
	} else {
		checks["database"] = "ok"
	}

	JSON(w, statusCode, status)
}

// GetConfig returns the limits and options the frontend needs.
func (h *HealthHandler) GetConfig(w http.ResponseWriter, _ *http.Request) {
	sc := h.cfg.Staircase
	JSON(w, http.StatusOK, map[string]interface{}{
		"games":                     content.KnownGames,
		"default_policy":            dilemma.DefaultPolicy,
		"max_steps":                 sc.MaxSteps,
		"max_count_steps":           staircase.MaxCountSteps,
		"max_display_paths":         sc.MaxDisplayPaths,
		"animation_interval_ms":     sc.AnimationInterval.Milliseconds(),
		"min_animation_interval_ms": sc.MinAnimationInterval.Milliseconds(),
		"canvas":                    staircase.DefaultCanvas,
	})
}
