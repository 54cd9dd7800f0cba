package circuitbreaker

import (
	"math"
	"time"
)

// RecoverySchedule computes how long the breaker stays open before the next
// trial is admitted. consecutiveOpens is 1 on the first open and increments
// on every failed trial until a trial succeeds.
type RecoverySchedule interface {
	NextDelay(consecutiveOpens uint) time.Duration
}

var _ RecoverySchedule = (*FixedRecovery)(nil)

// FixedRecovery reuses the same open interval verbatim after every failed
// trial. This is the default schedule.
type FixedRecovery struct {
	interval time.Duration
}

func NewFixedRecovery(d time.Duration) FixedRecovery {
	return FixedRecovery{
		interval: d,
	}
}

func (f FixedRecovery) NextDelay(_ uint) time.Duration {
	return f.interval
}

var _ RecoverySchedule = (*ExponentialRecovery)(nil)

// ExponentialRecovery grows the open interval on every consecutive open,
// capped at maxInterval. Never the default; callers opt in explicitly.
type ExponentialRecovery struct {
	initialInterval time.Duration
	maxInterval     time.Duration
	multiplier      float64
}

type ExponentialRecoveryOption func(*ExponentialRecovery)

func WithInitialInterval(d time.Duration) ExponentialRecoveryOption {
	return func(e *ExponentialRecovery) {
		e.initialInterval = d
	}
}

func WithMaxInterval(d time.Duration) ExponentialRecoveryOption {
	return func(e *ExponentialRecovery) {
		e.maxInterval = d
	}
}

func WithMultiplier(m float64) ExponentialRecoveryOption {
	return func(e *ExponentialRecovery) {
		e.multiplier = m
	}
}

func NewExponentialRecovery(opts ...ExponentialRecoveryOption) ExponentialRecovery {
	e := ExponentialRecovery{
		initialInterval: 30 * time.Second,
		maxInterval:     10 * time.Minute,
		multiplier:      2.0,
	}

	for _, opt := range opts {
		opt(&e)
	}

	return e
}

func (e ExponentialRecovery) NextDelay(consecutiveOpens uint) time.Duration {
	if consecutiveOpens == 0 {
		consecutiveOpens = 1
	}

	interval := float64(e.initialInterval) * math.Pow(e.multiplier, float64(consecutiveOpens-1))
	if interval > float64(e.maxInterval) {
		interval = float64(e.maxInterval)
	}

	return time.Duration(interval)
}
