package gateway

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBreaker_TripsAndRecovers(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	b := NewBreaker(2, 10*time.Second)
	b.now = func() time.Time { return now }

	assert.True(t, b.TryAcquire())
	b.OnFailure()
	assert.Equal(t, "closed", b.State())
	b.OnFailure()
	assert.Equal(t, "open", b.State())
	assert.False(t, b.TryAcquire())

	now = now.Add(11 * time.Second)
	assert.True(t, b.TryAcquire(), "probe allowed after openFor")
	assert.Equal(t, "half_open", b.State())
	assert.False(t, b.TryAcquire(), "only one probe in flight")

	b.OnSuccess()
	assert.Equal(t, "closed", b.State())
	assert.True(t, b.TryAcquire())
}

func TestBreaker_FailedProbeReopens(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	b := NewBreaker(1, time.Second)
	b.now = func() time.Time { return now }

	b.OnFailure()
	now = now.Add(2 * time.Second)
	assert.True(t, b.TryAcquire())

	b.OnFailure()
	assert.Equal(t, "open", b.State())
	assert.False(t, b.TryAcquire())
}
