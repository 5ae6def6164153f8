package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/James-Crockett/Support-Ticket-Auto-Triage/internal/infrastructure/cache"
	"github.com/James-Crockett/Support-Ticket-Auto-Triage/internal/usecase"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	triageUC usecase.TriageUsecase
	cache    cache.PredictionCache
}

// NewHealthHandler creates a new health handler. cache may be nil.
func NewHealthHandler(triageUC usecase.TriageUsecase, pc cache.PredictionCache) *HealthHandler {
	return &HealthHandler{
		triageUC: triageUC,
		cache:    pc,
	}
}

// HealthStatus represents the health check response
type HealthStatus struct {
	Status      string            `json:"status"`
	ModelLoaded bool              `json:"model_loaded"`
	Device      string            `json:"device"`
	Backend     string            `json:"backend,omitempty"`
	Components  map[string]string `json:"components,omitempty"`
}

// Health handles GET /health. It always answers 200; model_loaded tells
// clients whether /predict can succeed.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	out := h.triageUC.Health(ctx)
	status := HealthStatus{
		Status:      out.Status,
		ModelLoaded: out.ModelLoaded,
		Device:      out.Device,
		Backend:     out.Backend,
	}

	// A broken cache degrades latency only, so it is reported but never
	// changes the status code.
	if h.cache != nil {
		name := "cache_" + h.cache.Name()
		if err := h.cache.Ping(ctx); err != nil {
			status.Components = map[string]string{name: "error: " + err.Error()}
		} else {
			status.Components = map[string]string{name: "ok"}
		}
	}

	respondJSON(c, http.StatusOK, status)
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(c *gin.Context) {
	if !h.triageUC.Ready() {
		respondJSON(c, http.StatusServiceUnavailable, gin.H{"status": "not ready", "reason": "model not loaded"})
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"status": "ready"})
}
