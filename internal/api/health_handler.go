package api

import (
	"net/http"

	"github.com/taskforge/task-api/internal/api/shared"
	"github.com/taskforge/task-api/internal/health"
)

// HealthHandler answers liveness queries by running the health evaluator.
type HealthHandler struct {
	evaluator *health.Evaluator
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(evaluator *health.Evaluator) *HealthHandler {
	if evaluator == nil {
		panic("evaluator cannot be nil for HealthHandler")
	}
	return &HealthHandler{evaluator: evaluator}
}

// Check handles GET /health requests. An unhealthy probe answers 503 with
// the underlying cause; the handler itself never fails.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	result := h.evaluator.Check(r.Context())

	status := http.StatusOK
	if !result.Healthy() {
		status = http.StatusServiceUnavailable
	}

	shared.RespondWithJSON(w, r, status, result)
}
