package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"time"
)

type State int

const (
	StateClosed State = iota
	StateHalfOpen
	StateOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateHalfOpen:
		return "half_open"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

var (
	ErrOpenState     = errors.New("circuitbreaker: open state")
	ErrHalfOpenState = errors.New("circuitbreaker: half-open state with trial in flight")
)

// IsCallNotPermittedError reports whether err is a fail-fast rejection by the
// breaker, as opposed to a failure of the guarded operation itself.
func IsCallNotPermittedError(err error) bool {
	return errors.Is(err, ErrOpenState) || errors.Is(err, ErrHalfOpenState)
}

// Breaker guards a single named dependency. It admits or rejects call
// attempts based on the consecutive-failure history reported back to it.
//
// The guarded operation always runs outside the breaker's lock; the lock only
// covers the admission decision and the bookkeeping around it.
type Breaker struct {
	name   string
	config Config

	mu          sync.Mutex
	state       State
	failures    int
	lastFailure time.Time
	openedAt    time.Time
	nextAttempt time.Time

	// trialInFlight is true only while the single HALF_OPEN probe call
	// is outstanding.
	trialInFlight bool

	// consecutiveOpens counts CLOSED/HALF_OPEN -> OPEN transitions since the
	// breaker last settled in CLOSED. Feeds the recovery schedule.
	consecutiveOpens uint
}

func New(name string, opts ...Option) (*Breaker, error) {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}

	if name == "" {
		return nil, &ValidationError{Field: "name", Message: "must not be empty"}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	if config.RecoverySchedule == nil {
		config.RecoverySchedule = NewFixedRecovery(config.RecoveryTimeout)
	}

	return &Breaker{
		name:   name,
		config: config,
		state:  StateClosed,
	}, nil
}

func MustNew(name string, opts ...Option) *Breaker {
	b, err := New(name, opts...)
	if err != nil {
		panic(err)
	}

	return b
}

func (b *Breaker) Name() string {
	return b.name
}

func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Allow reports whether a call attempt may proceed. Claiming the HALF_OPEN
// trial slot happens inside the same critical section as the OPEN check, so
// exactly one of any number of concurrent callers wins the slot.
//
// A caller that proceeds must report the outcome via RecordSuccess or
// RecordFailure.
func (b *Breaker) Allow() bool {
	return b.allow(context.Background()) == nil
}

func (b *Breaker) allow(ctx context.Context) error {
	b.mu.Lock()

	switch b.state {
	case StateOpen:
		if b.config.Clock.Now().Before(b.nextAttempt) {
			b.mu.Unlock()
			b.metricsReporter().RecordCallRejection(ctx, CallRejection{
				Name:  b.name,
				State: StateOpen,
				Error: ErrOpenState,
			})
			return ErrOpenState
		}

		// Recovery timeout elapsed: this caller becomes the trial.
		b.setStateLocked(StateHalfOpen)
		b.trialInFlight = true
		b.mu.Unlock()
		return nil

	case StateHalfOpen:
		if b.trialInFlight {
			b.mu.Unlock()
			b.metricsReporter().RecordCallRejection(ctx, CallRejection{
				Name:  b.name,
				State: StateHalfOpen,
				Error: ErrHalfOpenState,
			})
			return ErrHalfOpenState
		}

		b.trialInFlight = true
		b.mu.Unlock()
		return nil

	default:
		b.mu.Unlock()
		return nil
	}
}

// RecordSuccess applies the success transition for the current state.
func (b *Breaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		b.failures = 0
	case StateHalfOpen:
		b.trialInFlight = false
		b.failures = 0
		b.consecutiveOpens = 0
		b.setStateLocked(StateClosed)
	case StateOpen:
		// Stale report from a call admitted before the breaker opened.
	}
}

// RecordFailure applies the failure transition for the current state.
func (b *Breaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.config.Clock.Now()
	b.lastFailure = now

	switch b.state {
	case StateClosed:
		b.failures++
		if b.failures >= b.config.FailureThreshold {
			b.openLocked(now)
		}
	case StateHalfOpen:
		// Failed trial. The failure count stays at threshold; only a
		// successful trial resets it.
		b.trialInFlight = false
		b.openLocked(now)
	case StateOpen:
		// Counters and the attempt schedule are untouched while already open.
	}
}

func (b *Breaker) openLocked(now time.Time) {
	b.consecutiveOpens++
	b.openedAt = now
	b.nextAttempt = b.openedAt.Add(b.config.RecoverySchedule.NextDelay(b.consecutiveOpens))
	b.setStateLocked(StateOpen)
}

func (b *Breaker) setStateLocked(state State) {
	if b.state == state {
		return
	}

	from := b.state
	b.state = state

	b.metricsReporter().RecordStateTransition(context.Background(), StateTransition{
		Name:      b.name,
		FromState: from,
		ToState:   state,
		Timestamp: b.config.Clock.Now(),
	})
}

func (b *Breaker) metricsReporter() Metrics {
	if b.config.Metrics != nil {
		return b.config.Metrics
	}

	return GetGlobalMetrics()
}
