package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingReconciler struct {
	mu     sync.Mutex
	since  []time.Time
	failAt int
}

func (r *recordingReconciler) Reconcile(ctx context.Context, since time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.since = append(r.since, since)
	if len(r.since) == r.failAt {
		return 0, errors.New("store unavailable")
	}
	return 1, nil
}

func TestSweepAdvancesOnlyAfterSuccess(t *testing.T) {
	start := time.Now().UTC().Add(-initialSweepLookback)
	reconciler := &recordingReconciler{failAt: 2}
	svc := &SchedulerService{reconciler: reconciler, lastSweep: start}

	svc.Sweep()
	require.Len(t, reconciler.since, 1)
	assert.Equal(t, start, reconciler.since[0])

	svc.Sweep()
	require.Len(t, reconciler.since, 2)
	assert.True(t, reconciler.since[1].After(start))

	svc.Sweep()
	require.Len(t, reconciler.since, 3)
	assert.Equal(t, reconciler.since[1], reconciler.since[2])
}
