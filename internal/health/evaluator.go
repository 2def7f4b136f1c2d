// Package health answers whether this instance is serving traffic correctly
// by probing the task store's connectivity.
package health

import (
	"context"
	"log/slog"
	"time"
)

// Status is the binary health verdict.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
)

// Result is the outcome of a health check. Reason is empty when healthy.
type Result struct {
	Status Status `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// Healthy reports whether the result is a passing one.
func (r Result) Healthy() bool {
	return r.Status == StatusHealthy
}

// Pinger is the slice of the task store the evaluator depends on:
// a lightweight connectivity probe independent of task data.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Evaluator runs on-demand liveness probes against the store.
type Evaluator struct {
	pinger  Pinger
	timeout time.Duration
	logger  *slog.Logger
}

// NewEvaluator creates an Evaluator probing the given Pinger. Each probe is
// bounded by timeout; a non-positive timeout falls back to two seconds.
// If logger is nil, a default logger will be used.
func NewEvaluator(pinger Pinger, timeout time.Duration, log *slog.Logger) *Evaluator {
	if pinger == nil {
		panic("pinger cannot be nil")
	}

	if timeout <= 0 {
		timeout = 2 * time.Second
	}

	if log == nil {
		log = slog.Default()
	}

	return &Evaluator{
		pinger:  pinger,
		timeout: timeout,
		logger:  log.With(slog.String("component", "health")),
	}
}

// Check probes the store once. It never returns an error: every failure
// path, including an expired probe deadline, is folded into an Unhealthy
// result carrying the underlying cause.
func (e *Evaluator) Check(ctx context.Context) Result {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	if err := e.pinger.Ping(ctx); err != nil {
		e.logger.Warn("health probe failed", slog.String("error", err.Error()))
		return Result{Status: StatusUnhealthy, Reason: err.Error()}
	}

	return Result{Status: StatusHealthy}
}
