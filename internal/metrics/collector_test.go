package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAndSnapshot(t *testing.T) {
	t.Parallel()
	c := NewCollector()

	c.Record("POST /tasks", OutcomeSuccess, 10*time.Millisecond)
	c.Record("POST /tasks", OutcomeValidation, 2*time.Millisecond)
	c.Record("GET /tasks/{id}", OutcomeNotFound, 1*time.Millisecond)

	snap := c.Snapshot()
	assert.Equal(t, int64(3), snap.RequestsTotal)
	assert.Equal(t, int64(1), snap.SuccessesTotal)
	assert.Equal(t, int64(2), snap.FailuresTotal)
	assert.Equal(t, int64(1), snap.FailuresByKind[string(OutcomeValidation)])
	assert.Equal(t, int64(1), snap.FailuresByKind[string(OutcomeNotFound)])

	stats, ok := snap.Operations["POST /tasks"]
	require.True(t, ok)
	assert.Equal(t, int64(2), stats.Count)
	assert.InDelta(t, 12.0, stats.TotalMs, 0.001)
	assert.InDelta(t, 2.0, stats.MinMs, 0.001)
	assert.InDelta(t, 10.0, stats.MaxMs, 0.001)
}

func TestMinTracksSmallestObservation(t *testing.T) {
	t.Parallel()
	c := NewCollector()

	// The first observation seeds the minimum even when later ones are larger
	c.Record("GET /tasks", OutcomeSuccess, 5*time.Millisecond)
	c.Record("GET /tasks", OutcomeSuccess, 50*time.Millisecond)
	c.Record("GET /tasks", OutcomeSuccess, 1*time.Millisecond)

	stats := c.Snapshot().Operations["GET /tasks"]
	assert.InDelta(t, 1.0, stats.MinMs, 0.001)
	assert.InDelta(t, 50.0, stats.MaxMs, 0.001)
}

func TestSnapshotIsIsolatedCopy(t *testing.T) {
	t.Parallel()
	c := NewCollector()
	c.Record("GET /health", OutcomeSuccess, time.Millisecond)

	snap := c.Snapshot()
	snap.FailuresByKind["forged"] = 99
	snap.Operations["forged"] = OperationStats{Count: 99}

	fresh := c.Snapshot()
	assert.NotContains(t, fresh.FailuresByKind, "forged")
	assert.NotContains(t, fresh.Operations, "forged")
}

func TestConcurrentRecordLosesNoUpdates(t *testing.T) {
	t.Parallel()
	c := NewCollector()

	const workers = 20
	const perWorker = 500

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				outcome := OutcomeSuccess
				if i%5 == 0 {
					outcome = OutcomeStorage
				}
				c.Record("POST /tasks", outcome, time.Millisecond)

				// Concurrent snapshots must always see internally
				// consistent totals, never a torn update.
				snap := c.Snapshot()
				assert.Equal(t, snap.RequestsTotal, snap.SuccessesTotal+snap.FailuresTotal)
			}
		}(w)
	}
	wg.Wait()

	snap := c.Snapshot()
	assert.Equal(t, int64(workers*perWorker), snap.RequestsTotal)
	assert.Equal(t, int64(workers*perWorker/5), snap.FailuresByKind[string(OutcomeStorage)])
	assert.Equal(t, int64(workers*perWorker), snap.Operations["POST /tasks"].Count)
}

func TestCountersAreMonotonic(t *testing.T) {
	t.Parallel()
	c := NewCollector()

	var prev Snapshot
	for i := 0; i < 100; i++ {
		if i%3 == 0 {
			c.Record("GET /tasks", OutcomeNotFound, time.Millisecond)
		} else {
			c.Record("GET /tasks", OutcomeSuccess, time.Millisecond)
		}

		snap := c.Snapshot()
		assert.GreaterOrEqual(t, snap.RequestsTotal, prev.RequestsTotal)
		assert.GreaterOrEqual(t, snap.SuccessesTotal, prev.SuccessesTotal)
		assert.GreaterOrEqual(t, snap.FailuresTotal, prev.FailuresTotal)
		prev = snap
	}
}
