package classify

import (
	"sync"
	"time"
)

// BreakerStatus is the circuit breaker's tagged state.
type BreakerStatus string

const (
	BreakerClosed   BreakerStatus = "closed"
	BreakerOpen     BreakerStatus = "open"
	BreakerHalfOpen BreakerStatus = "half_open"
)

// BreakerState is an immutable snapshot of the breaker. Transitions are
// pure functions of (state, event, now) so behavior is testable without
// wall-clock sleeping.
type BreakerState struct {
	Status   BreakerStatus
	Failures int
	OpenedAt time.Time
	// Probing marks a half-open probe in flight; further callers are
	// refused until its verdict is recorded.
	Probing bool
}

// breakerAllow reports whether a call may proceed and the state that
// results from asking. An open breaker flips to half-open once the
// cooldown has elapsed, admitting a single probe; while that probe is
// outstanding every other caller is refused.
func breakerAllow(s BreakerState, now time.Time, cooldown time.Duration) (BreakerState, bool) {
	switch s.Status {
	case BreakerOpen:
		if now.Sub(s.OpenedAt) >= cooldown {
			return BreakerState{Status: BreakerHalfOpen, Failures: s.Failures, OpenedAt: s.OpenedAt, Probing: true}, true
		}
		return s, false
	case BreakerHalfOpen:
		if s.Probing {
			return s, false
		}
		return BreakerState{Status: BreakerHalfOpen, Failures: s.Failures, OpenedAt: s.OpenedAt, Probing: true}, true
	default:
		return s, true
	}
}

// breakerOnSuccess resets the breaker to closed.
func breakerOnSuccess(BreakerState) BreakerState {
	return BreakerState{Status: BreakerClosed}
}

// breakerOnFailure counts the failure; the breaker opens at the
// threshold, and a half-open probe failure reopens it immediately.
func breakerOnFailure(s BreakerState, now time.Time, threshold int) BreakerState {
	failures := s.Failures + 1
	if s.Status == BreakerHalfOpen || failures >= threshold {
		return BreakerState{Status: BreakerOpen, Failures: failures, OpenedAt: now}
	}
	return BreakerState{Status: BreakerClosed, Failures: failures}
}

// CircuitBreaker guards the LLM path: after enough consecutive failures
// it stops paying the remote call's latency and the fallback classifier
// takes over until a cooldown probe succeeds.
type CircuitBreaker struct {
	mu        sync.Mutex
	state     BreakerState
	threshold int
	cooldown  time.Duration
	now       func() time.Time
}

// NewCircuitBreaker creates a closed breaker. A nil clock defaults to
// time.Now; non-positive settings default to 3 failures and a 30s
// cooldown.
func NewCircuitBreaker(threshold int, cooldown time.Duration, now func() time.Time) *CircuitBreaker {
	if threshold <= 0 {
		threshold = 3
	}
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}
	if now == nil {
		now = time.Now
	}
	return &CircuitBreaker{
		state:     BreakerState{Status: BreakerClosed},
		threshold: threshold,
		cooldown:  cooldown,
		now:       now,
	}
}

// Allow reports whether the protected call should be attempted.
func (b *CircuitBreaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	next, ok := breakerAllow(b.state, b.now(), b.cooldown)
	b.state = next
	return ok
}

// RecordSuccess closes the breaker and clears the failure count.
func (b *CircuitBreaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = breakerOnSuccess(b.state)
}

// RecordFailure counts a failure, opening the breaker at the threshold.
func (b *CircuitBreaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = breakerOnFailure(b.state, b.now(), b.threshold)
}

// State returns the current snapshot, for logging and health output.
func (b *CircuitBreaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}
