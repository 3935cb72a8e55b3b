package callmodel

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exports engine activity counters. All updates happen on the
// engine's serialized event path.
type Metrics struct {
	eventsTotal     *prometheus.CounterVec
	liveCalls       prometheus.Gauge
	conferenceCalls prometheus.Gauge
	orphansSwept    prometheus.Counter
	listenerPanics  prometheus.Counter
}

// NewMetrics registers the engine metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		eventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "callmodel",
			Name:      "events_total",
			Help:      "Call events emitted to listeners, by kind.",
		}, []string{"kind"}),
		liveCalls: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "callmodel",
			Name:      "live_calls",
			Help:      "Simple call records currently tracked.",
		}),
		conferenceCalls: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "callmodel",
			Name:      "conference_calls",
			Help:      "Conference call records currently tracked.",
		}),
		orphansSwept: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "callmodel",
			Name:      "orphans_swept_total",
			Help:      "Connections retired because the telephony layer stopped reporting them.",
		}),
		listenerPanics: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "callmodel",
			Name:      "listener_panics_total",
			Help:      "Panics recovered from listener callbacks.",
		}),
	}
}

func (m *Metrics) event(kind EventKind) {
	if m == nil {
		return
	}
	m.eventsTotal.WithLabelValues(kind.String()).Inc()
}

func (m *Metrics) stored(simple, conference int) {
	if m == nil {
		return
	}
	m.liveCalls.Set(float64(simple))
	m.conferenceCalls.Set(float64(conference))
}

func (m *Metrics) orphan() {
	if m == nil {
		return
	}
	m.orphansSwept.Inc()
}

func (m *Metrics) listenerPanic() {
	if m == nil {
		return
	}
	m.listenerPanics.Inc()
}
