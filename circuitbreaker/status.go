package circuitbreaker

import (
	"encoding/json"
	"time"
)

// Status is an immutable point-in-time view of a breaker, copied under the
// breaker's lock. The JSON shape is the wire contract consumed by the health
// reporting endpoints; times serialize as RFC 3339, absent ones as null.
type Status struct {
	Name            string     `json:"name"`
	State           State      `json:"state"`
	FailureCount    int        `json:"failure_count"`
	LastFailureTime *time.Time `json:"last_failure_time"`
	NextAttemptTime *time.Time `json:"next_attempt_time"`
}

func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Snapshot returns a lock-consistent copy of the breaker's state. It never
// mutates the breaker.
func (b *Breaker) Snapshot() Status {
	b.mu.Lock()
	defer b.mu.Unlock()

	status := Status{
		Name:         b.name,
		State:        b.state,
		FailureCount: b.failures,
	}

	if !b.lastFailure.IsZero() {
		t := b.lastFailure
		status.LastFailureTime = &t
	}

	if b.state == StateOpen {
		t := b.nextAttempt
		status.NextAttemptTime = &t
	}

	return status
}
