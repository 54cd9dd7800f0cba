package circuitbreaker

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics:
// circuitbreaker_calls_total (Counter) - Total number of calls through the circuit breaker
// * name (string) - The name of the circuit breaker
// * outcome (string) - The outcome of the call ("success", "failure")
//
// circuitbreaker_calls_duration_milliseconds (Histogram) - Duration of calls in milliseconds
// * name (string) - The name of the circuit breaker
// * outcome (string) - The outcome of the call
//
// circuitbreaker_rejections_total (Counter) - Total number of rejected calls
// * name (string) - The name of the circuit breaker
// * state (string) - The state that caused rejection ("open", "half_open")
//
// circuitbreaker_state_transitions_total (Counter) - Total number of state transitions
// * name (string) - The name of the circuit breaker
// * from_state (string) - The previous state
// * to_state (string) - The new state
//
// circuitbreaker_state (Gauge) - Current state of the circuit breaker
// * name (string) - The name of the circuit breaker
// * state (string) - The state the gauge sample refers to

const (
	instrumentationName    = "github.com/Jgiet001-AI/GLP-Sync-2-sub003/circuitbreaker"
	instrumentationVersion = "v0.1.0" // x-release-please
)

const (
	unitCall         = "{call}"
	unitRejection    = "{rejection}"
	unitTransition   = "{transition}"
	unitMilliseconds = "ms"
)

var _ Metrics = (*OTelMetrics)(nil)

type OTelMetrics struct {
	callsTotal    metric.Int64Counter
	callsDuration metric.Float64Histogram

	rejectionsTotal metric.Int64Counter

	stateTransitionsTotal metric.Int64Counter
	currentState          metric.Int64Gauge
}

type OTelConfig struct {
	MeterProvider metric.MeterProvider
	MetricPrefix  string
	Attributes    []attribute.KeyValue
}

type OTelOption func(*OTelConfig)

func WithMeterProvider(meterProvider metric.MeterProvider) OTelOption {
	return func(cfg *OTelConfig) {
		cfg.MeterProvider = meterProvider
	}
}

func WithMetricPrefix(prefix string) OTelOption {
	return func(cfg *OTelConfig) {
		cfg.MetricPrefix = prefix
	}
}

func WithAttributes(attrs []attribute.KeyValue) OTelOption {
	return func(cfg *OTelConfig) {
		copied := make([]attribute.KeyValue, len(attrs))
		copy(copied, attrs)
		cfg.Attributes = copied
	}
}

func NewOTelMetrics(opts ...OTelOption) (*OTelMetrics, error) {
	cfg := &OTelConfig{
		MeterProvider: otel.GetMeterProvider(),
		MetricPrefix:  "circuitbreaker_",
		Attributes:    []attribute.KeyValue{},
	}

	for _, opt := range opts {
		opt(cfg)
	}

	meter := cfg.MeterProvider.Meter(instrumentationName, metric.WithInstrumentationVersion(instrumentationVersion))

	callsTotal, err := meter.Int64Counter(
		cfg.MetricPrefix+"calls_total",
		metric.WithDescription("Total number of calls through the circuit breaker"),
		metric.WithUnit(unitCall),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create calls_total counter: %w", err)
	}

	callsDuration, err := meter.Float64Histogram(
		cfg.MetricPrefix+"calls_duration_milliseconds",
		metric.WithDescription("Duration of calls in milliseconds"),
		metric.WithUnit(unitMilliseconds),
		metric.WithExplicitBucketBoundaries(0, 1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create calls_duration_milliseconds histogram: %w", err)
	}

	rejectionsTotal, err := meter.Int64Counter(
		cfg.MetricPrefix+"rejections_total",
		metric.WithDescription("Total number of rejected calls"),
		metric.WithUnit(unitRejection),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create rejections_total counter: %w", err)
	}

	stateTransitionsTotal, err := meter.Int64Counter(
		cfg.MetricPrefix+"state_transitions_total",
		metric.WithDescription("Total number of state transitions"),
		metric.WithUnit(unitTransition),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create state_transitions_total counter: %w", err)
	}

	currentState, err := meter.Int64Gauge(
		cfg.MetricPrefix+"state",
		metric.WithDescription("Current state of the circuit breaker"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create state gauge: %w", err)
	}

	return &OTelMetrics{
		callsTotal:            callsTotal,
		callsDuration:         callsDuration,
		rejectionsTotal:       rejectionsTotal,
		stateTransitionsTotal: stateTransitionsTotal,
		currentState:          currentState,
	}, nil
}

func outcomeString(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}

func (m *OTelMetrics) RecordStateTransition(ctx context.Context, transition StateTransition) {
	attrs := []attribute.KeyValue{
		attribute.String("name", transition.Name),
		attribute.String("from_state", transition.FromState.String()),
		attribute.String("to_state", transition.ToState.String()),
	}

	m.stateTransitionsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))

	for state := StateClosed; state <= StateOpen; state++ {
		var value int64
		if state == transition.ToState {
			value = 1
		} else {
			value = 0
		}

		m.currentState.Record(
			ctx, value, metric.WithAttributes(
				attribute.String("name", transition.Name), attribute.String("state", state.String()),
			),
		)
	}
}

func (m *OTelMetrics) RecordCallResult(ctx context.Context, result CallResult) {
	baseAttrs := []attribute.KeyValue{
		attribute.String("name", result.Name),
		attribute.String("outcome", outcomeString(result.Success)),
	}

	m.callsTotal.Add(ctx, 1, metric.WithAttributes(baseAttrs...))
	m.callsDuration.Record(ctx, float64(result.Duration.Milliseconds()), metric.WithAttributes(baseAttrs...))
}

func (m *OTelMetrics) RecordCallRejection(ctx context.Context, rejection CallRejection) {
	attrs := []attribute.KeyValue{
		attribute.String("name", rejection.Name),
		attribute.String("state", rejection.State.String()),
	}

	m.rejectionsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
}
