package api

import (
	"log/slog"
	"net/http"

	"github.com/taskforge/task-api/internal/api/shared"
	"github.com/taskforge/task-api/internal/metrics"
	"github.com/taskforge/task-api/internal/platform/logger"
	"github.com/taskforge/task-api/internal/service"
)

// MetricsHandler exposes the collector snapshot for monitoring.
type MetricsHandler struct {
	collector   *metrics.Collector
	taskService service.TaskService
	logger      *slog.Logger
}

// NewMetricsHandler creates a new MetricsHandler
func NewMetricsHandler(collector *metrics.Collector, taskService service.TaskService, log *slog.Logger) *MetricsHandler {
	if collector == nil {
		panic("collector cannot be nil for MetricsHandler")
	}
	if taskService == nil {
		panic("taskService cannot be nil for MetricsHandler")
	}
	if log == nil {
		log = slog.Default()
	}

	return &MetricsHandler{
		collector:   collector,
		taskService: taskService,
		logger:      log.With(slog.String("component", "metrics_handler")),
	}
}

// Snapshot handles GET /metrics requests. The task count is best-effort:
// if the store is unreachable the counters still go out, with total_tasks
// reported as zero.
func (h *MetricsHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	totalTasks, err := h.taskService.CountTasks(r.Context())
	if err != nil {
		log.Warn("failed to count tasks for metrics", slog.String("error", err.Error()))
		totalTasks = 0
	}

	response := MetricsResponse{
		Snapshot:      h.collector.Snapshot(),
		TotalTasks:    totalTasks,
		ServiceStatus: "running",
	}

	shared.RespondWithJSON(w, r, http.StatusOK, response)
}
