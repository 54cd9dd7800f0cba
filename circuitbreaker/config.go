package circuitbreaker

import (
	"time"

	"github.com/jonboulle/clockwork"
)

type Config struct {
	// FailureThreshold is the number of consecutive failures that opens the
	// breaker. Must be at least 1; a threshold of 1 opens on any failure.
	FailureThreshold int

	// RecoveryTimeout is the minimum time the breaker stays open before a
	// single trial call is admitted. Must be positive.
	RecoveryTimeout time.Duration

	// RecoverySchedule computes the open interval from the number of
	// consecutive opens. Defaults to a fixed schedule reusing RecoveryTimeout.
	RecoverySchedule RecoverySchedule

	// Clock is the time source for open-interval arithmetic. Defaults to the
	// wall clock; tests inject a fake.
	Clock clockwork.Clock

	// Metrics is the instrumentation sink for this breaker.
	// If nil, uses the global metrics instance.
	Metrics Metrics
}

type Option func(*Config)

func defaultConfig() Config {
	return Config{
		FailureThreshold: 5,
		RecoveryTimeout:  30 * time.Second,
		Clock:            clockwork.NewRealClock(),
	}
}

func WithFailureThreshold(n int) Option {
	return func(c *Config) {
		c.FailureThreshold = n
	}
}

func WithRecoveryTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.RecoveryTimeout = d
	}
}

func WithRecoverySchedule(s RecoverySchedule) Option {
	return func(c *Config) {
		c.RecoverySchedule = s
	}
}

func WithClock(clock clockwork.Clock) Option {
	return func(c *Config) {
		c.Clock = clock
	}
}

func WithMetrics(metrics Metrics) Option {
	return func(c *Config) {
		c.Metrics = metrics
	}
}

func (c *Config) Validate() error {
	if c.FailureThreshold < 1 {
		return &ValidationError{Field: "failureThreshold", Message: "must be at least 1"}
	}

	if c.RecoveryTimeout <= 0 {
		return &ValidationError{Field: "recoveryTimeout", Message: "must be positive"}
	}

	if c.Clock == nil {
		return &ValidationError{Field: "clock", Message: "must not be nil"}
	}

	return nil
}
