package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the notifier's collectors. A nil *Metrics is a no-op.
type Metrics struct {
	Deliveries       *prometheus.CounterVec
	DispatchDuration *prometheus.HistogramVec
	SweepItems       *prometheus.CounterVec
	SweepRuns        *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		Deliveries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notifier_deliveries_total",
				Help: "Delivery records written by message type, status and failure reason",
			},
			[]string{"message_type", "status", "reason"}, // reminder|confirmation|custom , sent|failed , session|template|destination|gateway|""
		),
		DispatchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "notifier_dispatch_duration_seconds",
				Help:    "Time spent in one dispatch, gateway call included",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"message_type"},
		),
		SweepItems: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notifier_sweep_items_total",
				Help: "Reminder sweep items by outcome",
			},
			[]string{"outcome"}, // sent|error
		),
		SweepRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notifier_sweep_runs_total",
				Help: "Reminder sweep runs by result",
			},
			[]string{"result"}, // ok|selection_failed
		),
	}
}

func (m *Metrics) MustRegister(r prometheus.Registerer) {
	r.MustRegister(
		m.Deliveries,
		m.DispatchDuration,
		m.SweepItems,
		m.SweepRuns,
	)
}

func (m *Metrics) ObserveDelivery(messageType, status, reason string, took time.Duration) {
	if m == nil {
		return
	}
	m.Deliveries.WithLabelValues(messageType, status, reason).Inc()
	m.DispatchDuration.WithLabelValues(messageType).Observe(took.Seconds())
}

func (m *Metrics) ObserveSweep(sent, errors int, selectionFailed bool) {
	if m == nil {
		return
	}
	if selectionFailed {
		m.SweepRuns.WithLabelValues("selection_failed").Inc()
		return
	}
	m.SweepRuns.WithLabelValues("ok").Inc()
	m.SweepItems.WithLabelValues("sent").Add(float64(sent))
	m.SweepItems.WithLabelValues("error").Add(float64(errors))
}
