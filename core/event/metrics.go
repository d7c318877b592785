package event

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "eventscope"

// Metrics exposes Prometheus counters and histograms for stored, published and
// dropped events. A nil *Metrics records nothing.
type Metrics struct {
	stored      *prometheus.CounterVec
	runs        *prometheus.CounterVec
	runDuration *prometheus.HistogramVec
	publishes   *prometheus.CounterVec
	dropped     prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
// Registering twice with the same registerer panics, as with any Prometheus collector.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		stored: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "events_stored_total",
				Help:      "Total number of events stored in a request scope",
			},
			[]string{"event"},
		),
		runs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "event_runs_total",
				Help:      "Total number of event runs by result (success, error)",
			},
			[]string{"event", "result"},
		),
		runDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "event_run_duration_seconds",
				Help:      "Duration of event runs in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"event"},
		),
		publishes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "publishes_total",
				Help:      "Total number of publish calls by strategy and result",
			},
			[]string{"strategy", "result"},
		),
		dropped: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "events_dropped_total",
				Help:      "Total number of events discarded unpublished at scope exit",
			},
		),
	}
}

func (m *Metrics) observeStore(name string) {
	if m == nil {
		return
	}
	m.stored.WithLabelValues(name).Inc()
}

func (m *Metrics) observeRun(name string, err error, d time.Duration) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(name, result(err)).Inc()
	m.runDuration.WithLabelValues(name).Observe(d.Seconds())
}

func (m *Metrics) observePublish(s Strategy, err error) {
	if m == nil {
		return
	}
	m.publishes.WithLabelValues(s.String(), result(err)).Inc()
}

func (m *Metrics) observeDropped(n int) {
	if m == nil {
		return
	}
	m.dropped.Add(float64(n))
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
