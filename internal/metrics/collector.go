// Package metrics provides process-wide request counters and latency
// aggregates. One Collector is constructed at process start and shared by
// every request; counters reset to zero on restart and are never persisted.
package metrics

import (
	"sync"
	"time"
)

// Outcome classifies how a request resolved, for failure accounting.
type Outcome string

const (
	OutcomeSuccess    Outcome = "success"
	OutcomeValidation Outcome = "validation_error"
	OutcomeNotFound   Outcome = "not_found"
	OutcomeStorage    Outcome = "storage_error"
	OutcomeInternal   Outcome = "internal_error"
)

// OperationStats holds the latency aggregate for a single operation.
type OperationStats struct {
	Count   int64   `json:"count"`
	TotalMs float64 `json:"total_ms"`
	MinMs   float64 `json:"min_ms"`
	MaxMs   float64 `json:"max_ms"`

	minSet bool
}

// Snapshot is a consistent point-in-time copy of the collector's counters.
type Snapshot struct {
	RequestsTotal  int64                     `json:"requests_total"`
	SuccessesTotal int64                     `json:"successes_total"`
	FailuresTotal  int64                     `json:"failures_total"`
	FailuresByKind map[string]int64          `json:"failures_by_kind"`
	Operations     map[string]OperationStats `json:"operations"`
}

// Collector accumulates request counters behind a single mutex so that
// concurrent Record calls never lose an update and Snapshot never observes
// a partially-applied one.
type Collector struct {
	mu             sync.Mutex
	requestsTotal  int64
	successesTotal int64
	failuresTotal  int64
	failuresByKind map[string]int64
	operations     map[string]*OperationStats
}

// NewCollector creates an empty Collector.
func NewCollector() *Collector {
	return &Collector{
		failuresByKind: make(map[string]int64),
		operations:     make(map[string]*OperationStats),
	}
}

// Record registers one resolved request. It is called exactly once per
// request by the metrics middleware, on success and on every error path.
func (c *Collector) Record(operation string, outcome Outcome, d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.requestsTotal++
	if outcome == OutcomeSuccess {
		c.successesTotal++
	} else {
		c.failuresTotal++
		c.failuresByKind[string(outcome)]++
	}

	stats, ok := c.operations[operation]
	if !ok {
		stats = &OperationStats{}
		c.operations[operation] = stats
	}

	ms := float64(d) / float64(time.Millisecond)
	stats.Count++
	stats.TotalMs += ms
	if !stats.minSet || ms < stats.MinMs {
		stats.MinMs = ms
		stats.minSet = true
	}
	if ms > stats.MaxMs {
		stats.MaxMs = ms
	}
}

// Snapshot returns a consistent copy of all counters. The returned maps are
// owned by the caller; later Record calls do not mutate them.
func (c *Collector) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		RequestsTotal:  c.requestsTotal,
		SuccessesTotal: c.successesTotal,
		FailuresTotal:  c.failuresTotal,
		FailuresByKind: make(map[string]int64, len(c.failuresByKind)),
		Operations:     make(map[string]OperationStats, len(c.operations)),
	}

	for kind, n := range c.failuresByKind {
		snap.FailuresByKind[kind] = n
	}
	for op, stats := range c.operations {
		snap.Operations[op] = *stats
	}

	return snap
}
