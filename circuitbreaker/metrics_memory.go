package circuitbreaker

import (
	"context"
	"sync/atomic"
)

type InMemoryMetrics struct {
	callsTotal         atomic.Int64
	callsSuccess       atomic.Int64
	callsFailure       atomic.Int64
	callsDurationTotal atomic.Int64

	rejectionsTotal atomic.Int64

	transitionsTotal atomic.Int64
	opensTotal       atomic.Int64
}

var _ Metrics = (*InMemoryMetrics)(nil)

func NewInMemoryMetrics() *InMemoryMetrics {
	return &InMemoryMetrics{}
}

func (m *InMemoryMetrics) RecordStateTransition(_ context.Context, transition StateTransition) {
	m.transitionsTotal.Add(1)
	if transition.ToState == StateOpen {
		m.opensTotal.Add(1)
	}
}

func (m *InMemoryMetrics) RecordCallResult(_ context.Context, result CallResult) {
	m.callsTotal.Add(1)
	if result.Success {
		m.callsSuccess.Add(1)
	} else {
		m.callsFailure.Add(1)
	}
	m.callsDurationTotal.Add(result.Duration.Milliseconds())
}

func (m *InMemoryMetrics) RecordCallRejection(_ context.Context, _ CallRejection) {
	m.rejectionsTotal.Add(1)
}

func (m *InMemoryMetrics) GetMetrics() map[string]int64 {
	return map[string]int64{
		"calls_total":          m.callsTotal.Load(),
		"calls_success":        m.callsSuccess.Load(),
		"calls_failure":        m.callsFailure.Load(),
		"calls_duration_total": m.callsDurationTotal.Load(),
		"rejections_total":     m.rejectionsTotal.Load(),
		"transitions_total":    m.transitionsTotal.Load(),
		"opens_total":          m.opensTotal.Load(),
	}
}
