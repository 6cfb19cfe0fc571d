package recorder

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for audit recording.
type Metrics struct {
	Recorded        *prometheus.CounterVec
	PersistFailures *prometheus.CounterVec
	PersistDuration prometheus.Histogram
}

// NewMetrics creates a new Metrics instance with audit metrics registered.
func NewMetrics() *Metrics {
	return &Metrics{
		Recorded: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "bpd_audit_entries_recorded_total",
			Help: "Total number of audit entries persisted, by operation",
		}, []string{"operation"}),
		PersistFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "bpd_audit_persist_failures_total",
			Help: "Total number of audit entry persistence failures, by operation",
		}, []string{"operation"}),
		PersistDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "bpd_audit_persist_duration_seconds",
			Help:    "Duration of synchronous audit writes",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncEntriesRecorded increments the recorded counter.
func (m *Metrics) IncEntriesRecorded(operation string) {
	if m != nil {
		m.Recorded.WithLabelValues(operation).Inc()
	}
}

// IncPersistFailures increments the persist failures counter.
func (m *Metrics) IncPersistFailures(operation string) {
	if m != nil {
		m.PersistFailures.WithLabelValues(operation).Inc()
	}
}

// ObservePersistDuration records the write latency.
func (m *Metrics) ObservePersistDuration(seconds float64) {
	if m != nil {
		m.PersistDuration.Observe(seconds)
	}
}
