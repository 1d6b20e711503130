package handler

import (
	"context"
	"net/http"
	"time"

	"placar/pkg/logger"
)

// HealthChecker is a dependency the health endpoint probes
type HealthChecker interface {
	Health(ctx context.Context) error
}

// HealthHandler handles health check requests
type HealthHandler struct {
	backend string
	store   HealthChecker
	cache   HealthChecker
	logger  *logger.Logger
}

// NewHealthHandler creates a new health handler. cache may be nil when
// Redis is not configured.
func NewHealthHandler(backend string, store HealthChecker, cache HealthChecker, logger *logger.Logger) *HealthHandler {
	return &HealthHandler{
		backend: backend,
		store:   store,
		cache:   cache,
		logger:  logger,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Service   string            `json:"service"`
	Backend   string            `json:"backend"`
	Checks    map[string]string `json:"checks"`
}

// Component states reported under checks
const (
	checkOK       = "ok"
	checkFailed   = "error"
	checkDisabled = "disabled"
)

// Check handles GET /health. A failing store makes the service unhealthy;
// a failing cache only degrades it.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Service:   "placar",
		Backend:   h.backend,
		Checks:    map[string]string{"store": checkOK, "cache": checkDisabled},
	}
	status := http.StatusOK

	if err := h.store.Health(ctx); err != nil {
		h.logger.WithError(err).Error("Store health check failed")
		response.Checks["store"] = checkFailed
		response.Status = "unhealthy"
		status = http.StatusServiceUnavailable
	}

	if h.cache != nil {
		if err := h.cache.Health(ctx); err != nil {
			h.logger.WithError(err).Warn("Cache health check failed")
			response.Checks["cache"] = checkFailed
			if status == http.StatusOK {
				response.Status = "degraded"
			}
		} else {
			response.Checks["cache"] = checkOK
		}
	}

	respondJSON(w, status, response)
}
