package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/taskforge/task-api/internal/api"
	apiMiddleware "github.com/taskforge/task-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware. Metrics recording wraps every route, so each request is
// counted exactly once, including requests whose handlers panic.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.TraceMiddleware)
	r.Use(apiMiddleware.SecurityHeaders)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
	}))
	r.Use(apiMiddleware.MetricsMiddleware(app.collector, api.OutcomeForStatus))
	r.Use(middleware.Recoverer)

	taskHandler := api.NewTaskHandler(app.taskService, app.logger)
	healthHandler := api.NewHealthHandler(app.evaluator)
	metricsHandler := api.NewMetricsHandler(app.collector, app.taskService, app.logger)

	r.Route("/tasks", func(r chi.Router) {
		r.Post("/", taskHandler.CreateTask)
		r.Get("/", taskHandler.ListTasks)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", taskHandler.GetTask)
			r.Patch("/", taskHandler.UpdateTask)
			r.Put("/", taskHandler.UpdateTask) // alias: same partial-update semantics
			r.Delete("/", taskHandler.DeleteTask)
		})
	})

	r.Get("/health", healthHandler.Check)
	r.Get("/metrics", metricsHandler.Snapshot)

	return r
}
