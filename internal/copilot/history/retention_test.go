package history

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePruner struct {
	mu      sync.Mutex
	cutoffs []time.Time
	err     error
}

func (f *fakePruner) PruneOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cutoffs = append(f.cutoffs, cutoff)
	return 3, f.err
}

func (f *fakePruner) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.cutoffs)
}

func TestRetentionScheduler_RunOnce(t *testing.T) {
	p := &fakePruner{}
	s := NewRetentionScheduler(p, 48*time.Hour, "0 0 3 * * *", nil)
	fixed := time.Date(2026, 3, 10, 3, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	n, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	require.Len(t, p.cutoffs, 1)
	assert.Equal(t, fixed.Add(-48*time.Hour), p.cutoffs[0])
}

func TestRetentionScheduler_RunOnceError(t *testing.T) {
	p := &fakePruner{err: errors.New("db down")}
	s := NewRetentionScheduler(p, time.Hour, "0 0 3 * * *", nil)

	_, err := s.RunOnce(context.Background())
	assert.EqualError(t, err, "db down")
}

func TestRetentionScheduler_InvalidSchedule(t *testing.T) {
	s := NewRetentionScheduler(&fakePruner{}, time.Hour, "every night", nil)
	assert.Error(t, s.Start())
}

func TestRetentionScheduler_Fires(t *testing.T) {
	p := &fakePruner{}
	s := NewRetentionScheduler(p, time.Hour, "* * * * * *", nil)
	require.NoError(t, s.Start())

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	defer s.Stop(ctx)

	assert.Eventually(t, func() bool { return p.calls() > 0 }, 3*time.Second, 50*time.Millisecond)
}

func TestRetentionScheduler_StopWithoutStart(t *testing.T) {
	s := NewRetentionScheduler(&fakePruner{}, time.Hour, "0 0 3 * * *", nil)
	s.Stop(context.Background())
}
