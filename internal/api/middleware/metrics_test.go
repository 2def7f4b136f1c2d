package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskforge/task-api/internal/metrics"
)

func outcomeByStatus(status int) metrics.Outcome {
	switch {
	case status < 400:
		return metrics.OutcomeSuccess
	case status == http.StatusNotFound:
		return metrics.OutcomeNotFound
	default:
		return metrics.OutcomeInternal
	}
}

func TestMetricsMiddlewareRecordsOncePerRequest(t *testing.T) {
	t.Parallel()

	collector := metrics.NewCollector()

	router := chi.NewRouter()
	router.Use(MetricsMiddleware(collector, outcomeByStatus))
	router.Get("/tasks/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tasks/42", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	snap := collector.Snapshot()
	assert.Equal(t, int64(3), snap.RequestsTotal)
	assert.Equal(t, int64(3), snap.SuccessesTotal)
	assert.Equal(t, int64(0), snap.FailuresTotal)

	// The operation label is the route pattern, not the concrete path.
	stats, ok := snap.Operations["GET /tasks/{id}"]
	require.True(t, ok, "expected route pattern key, got %v", snap.Operations)
	assert.Equal(t, int64(3), stats.Count)
}

func TestMetricsMiddlewareClassifiesErrorStatuses(t *testing.T) {
	t.Parallel()

	collector := metrics.NewCollector()

	router := chi.NewRouter()
	router.Use(MetricsMiddleware(collector, outcomeByStatus))
	router.Get("/missing", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	router.Get("/broken", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/broken", nil))

	snap := collector.Snapshot()
	assert.Equal(t, int64(2), snap.RequestsTotal)
	assert.Equal(t, int64(2), snap.FailuresTotal)
	assert.Equal(t, int64(1), snap.FailuresByKind[string(metrics.OutcomeNotFound)])
	assert.Equal(t, int64(1), snap.FailuresByKind[string(metrics.OutcomeInternal)])
}

func TestMetricsMiddlewareRecordsOnPanic(t *testing.T) {
	t.Parallel()

	collector := metrics.NewCollector()

	router := chi.NewRouter()
	router.Use(MetricsMiddleware(collector, outcomeByStatus))
	router.Get("/panic", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		panic("handler blew up")
	})

	assert.Panics(t, func() {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/panic", nil))
	})

	snap := collector.Snapshot()
	assert.Equal(t, int64(1), snap.RequestsTotal)
	assert.Equal(t, int64(1), snap.FailuresByKind[string(metrics.OutcomeInternal)])
}

func TestSecurityHeaders(t *testing.T) {
	t.Parallel()

	handler := SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tasks", nil))

	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "max-age=31536000; includeSubDomains", rec.Header().Get("Strict-Transport-Security"))
	assert.Equal(t, "default-src 'self'", rec.Header().Get("Content-Security-Policy"))
}
