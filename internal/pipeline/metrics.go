package pipeline

import (
	"time"

	"github.com/KaramelBytes/zeroml/internal/result"
	"github.com/prometheus/client_golang/prometheus"
)

// Completion outcomes recorded per request.
const (
	OutcomeAccepted  = "accepted"
	OutcomeRejected  = "rejected"
	OutcomeCallError = "call_error"
)

// Metrics records per-request and per-batch counters. A nil *Metrics is a no-op.
type Metrics struct {
	completions *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	batches     *prometheus.CounterVec
}

// NewMetrics builds the collectors and registers them with reg when reg is non-nil.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		completions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "zeroml",
			Name:      "completions_total",
			Help:      "Completion requests by kind and outcome.",
		}, []string{"kind", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "zeroml",
			Name:      "completion_duration_seconds",
			Help:      "Wall time of a single completion request.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 40, 80},
		}, []string{"kind"}),
		batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "zeroml",
			Name:      "batches_total",
			Help:      "Processed batches by outcome.",
		}, []string{"outcome"}),
	}
	if reg != nil {
		for _, c := range []prometheus.Collector{m.completions, m.duration, m.batches} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

func (m *Metrics) observeDuration(kind result.RequestKind, took time.Duration) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(string(kind)).Observe(took.Seconds())
}

func (m *Metrics) observeOutcome(kind result.RequestKind, outcome string) {
	if m == nil {
		return
	}
	m.completions.WithLabelValues(string(kind), outcome).Inc()
}

func (m *Metrics) observeBatch(outcome string) {
	if m == nil {
		return
	}
	m.batches.WithLabelValues(outcome).Inc()
}
