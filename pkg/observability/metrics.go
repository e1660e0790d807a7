package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ndrukelly2/state-machine/pkg/domain"
)

// Metrics is an event sink exposing engine activity as Prometheus counters.
type Metrics struct {
	transitions *prometheus.CounterVec
	suspends    *prometheus.CounterVec
	subflows    prometheus.Counter
	finished    prometheus.Counter
	fatals      prometheus.Counter
}

// NewMetrics creates the counters and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flowengine",
			Name:      "transitions_total",
			Help:      "Resolved transitions, labeled by source state kind.",
		}, []string{"kind"}),
		suspends: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flowengine",
			Name:      "suspends_total",
			Help:      "Suspend points reached, labeled by state kind.",
		}, []string{"kind"}),
		subflows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flowengine",
			Name:      "subflows_entered_total",
			Help:      "Sub-flow frames pushed.",
		}),
		finished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flowengine",
			Name:      "sessions_finished_total",
			Help:      "Sessions that ran to natural completion.",
		}),
		fatals: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flowengine",
			Name:      "errors_total",
			Help:      "Fatal flow errors that aborted a session.",
		}),
	}
	reg.MustRegister(m.transitions, m.suspends, m.subflows, m.finished, m.fatals)
	return m
}

// Emit implements ports.EventSink.
func (m *Metrics) Emit(ctx context.Context, ev domain.TraceEvent) {
	switch ev.Type {
	case domain.TraceTransition:
		m.transitions.WithLabelValues(string(ev.Kind)).Inc()
	case domain.TraceSuspend:
		m.suspends.WithLabelValues(string(ev.Kind)).Inc()
	case domain.TraceSubflowPush:
		m.subflows.Inc()
	case domain.TraceFinish:
		m.finished.Inc()
	case domain.TraceError:
		m.fatals.Inc()
	}
}
