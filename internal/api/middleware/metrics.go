package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/taskforge/task-api/internal/metrics"
)

// statusRecorder captures the response status code written by the handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

// Outcome classification lives with the API error mapping; the middleware
// only needs a status→outcome function so it stays import-cycle free.
type OutcomeFn func(status int) metrics.Outcome

// MetricsMiddleware records every resolved request into the collector
// exactly once, on success and on every error path, including panics
// recovered downstream. The operation label is the chi route pattern
// (e.g. "GET /tasks/{id}") so path parameters don't explode cardinality.
func MetricsMiddleware(collector *metrics.Collector, outcomeFor OutcomeFn) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			defer func() {
				operation := r.Method + " " + routePattern(r)
				collector.Record(operation, outcomeFor(rec.status), time.Since(start))
			}()

			next.ServeHTTP(rec, r)
		})
	}
}

// routePattern returns the matched chi route pattern, falling back to the
// raw path when the router has no match (404s on unknown routes).
func routePattern(r *http.Request) string {
	if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
		if pattern := routeCtx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}
