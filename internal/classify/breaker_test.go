package classify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeClock advances only when told to, so breaker transitions are
// tested without sleeping.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestBreakerOpensAfterThresholdFailures(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)}
	b := NewCircuitBreaker(3, 30*time.Second, clock.Now)

	assert.True(t, b.Allow())
	b.RecordFailure()
	b.RecordFailure()
	assert.True(t, b.Allow(), "still closed below the threshold")

	b.RecordFailure()
	assert.Equal(t, BreakerOpen, b.State().Status)
	assert.False(t, b.Allow())
}

func TestBreakerHalfOpenProbeAfterCooldown(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)}
	b := NewCircuitBreaker(1, 30*time.Second, clock.Now)

	b.RecordFailure()
	assert.False(t, b.Allow())

	clock.Advance(29 * time.Second)
	assert.False(t, b.Allow(), "cooldown not yet elapsed")

	clock.Advance(time.Second)
	assert.True(t, b.Allow())
	assert.Equal(t, BreakerHalfOpen, b.State().Status)
}

func TestBreakerHalfOpenAdmitsSingleProbe(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)}
	b := NewCircuitBreaker(1, 30*time.Second, clock.Now)

	b.RecordFailure()
	clock.Advance(time.Minute)

	assert.True(t, b.Allow())
	// The probe's verdict is still out: concurrent callers stay on the
	// fallback instead of piling onto the struggling upstream.
	assert.False(t, b.Allow())
	assert.False(t, b.Allow())

	b.RecordSuccess()
	assert.True(t, b.Allow())
}

func TestBreakerHalfOpenSuccessCloses(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)}
	b := NewCircuitBreaker(1, 30*time.Second, clock.Now)

	b.RecordFailure()
	clock.Advance(time.Minute)
	assert.True(t, b.Allow())

	b.RecordSuccess()
	state := b.State()
	assert.Equal(t, BreakerClosed, state.Status)
	assert.Zero(t, state.Failures)
}

func TestBreakerHalfOpenFailureReopens(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)}
	b := NewCircuitBreaker(5, 30*time.Second, clock.Now)

	for i := 0; i < 5; i++ {
		b.RecordFailure()
	}
	clock.Advance(time.Minute)
	assert.True(t, b.Allow())

	// The probe fails: straight back to open regardless of threshold.
	b.RecordFailure()
	assert.Equal(t, BreakerOpen, b.State().Status)
	assert.False(t, b.Allow())
}

func TestBreakerSuccessResetsFailureCount(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)}
	b := NewCircuitBreaker(3, 30*time.Second, clock.Now)

	b.RecordFailure()
	b.RecordFailure()
	b.RecordSuccess()
	b.RecordFailure()
	b.RecordFailure()

	assert.Equal(t, BreakerClosed, b.State().Status)
	assert.True(t, b.Allow())
}
