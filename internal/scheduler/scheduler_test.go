package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/hairfy/appointment-notifier/internal/sweep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	refs []time.Time
}

func (f *fakeRunner) Run(_ context.Context, ref time.Time) sweep.Result {
	f.refs = append(f.refs, ref)
	return sweep.Result{Processed: 1, Sent: 1}
}

func TestNew_InvalidSpec(t *testing.T) {
	_, err := New(&fakeRunner{}, "every now and then", time.UTC, nil)
	require.Error(t, err)
}

func TestScheduler_RunOnceUsesLocation(t *testing.T) {
	loc := time.FixedZone("BRT", -3*3600)
	r := &fakeRunner{}
	s, err := New(r, "0 * * * *", loc, nil)
	require.NoError(t, err)
	s.now = func() time.Time { return time.Date(2025, 3, 11, 1, 30, 0, 0, time.UTC) }

	res := s.RunOnce(context.Background())
	assert.Equal(t, sweep.Result{Processed: 1, Sent: 1}, res)
	require.Len(t, r.refs, 1)
	assert.Equal(t, loc, r.refs[0].Location())
	// 01:30 UTC is still the previous day in BRT
	assert.Equal(t, 10, r.refs[0].Day())
}

func TestScheduler_NextHourly(t *testing.T) {
	s, err := New(&fakeRunner{}, "0 * * * *", time.UTC, nil)
	require.NoError(t, err)
	s.now = func() time.Time { return time.Date(2025, 3, 11, 9, 15, 0, 0, time.UTC) }

	assert.Equal(t, time.Date(2025, 3, 11, 10, 0, 0, 0, time.UTC), s.Next())
}

func TestScheduler_RunStopsOnCancel(t *testing.T) {
	s, err := New(&fakeRunner{}, "0 * * * *", time.UTC, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}
