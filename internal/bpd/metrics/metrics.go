package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the BPD read pipeline.
type Metrics struct {
	// Outcomes by operation and outcome kind
	Outcomes *prometheus.CounterVec

	// Read store latency by view
	QueryLatency *prometheus.HistogramVec

	// Query attempts that failed, by view
	QueryFailures *prometheus.CounterVec

	// Full pipeline latency by operation
	PipelineLatency *prometheus.HistogramVec
}

// New creates a new Metrics instance with all BPD metrics registered.
func New() *Metrics {
	return &Metrics{
		Outcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "bpd_operation_outcomes_total",
			Help: "Total operation outcomes by operation and outcome kind",
		}, []string{"operation", "outcome"}),

		QueryLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bpd_query_duration_seconds",
			Help:    "Duration of BPD read store queries by view",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"view"}),

		QueryFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "bpd_query_failures_total",
			Help: "Total failed BPD read store query attempts by view",
		}, []string{"view"}),

		PipelineLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bpd_pipeline_duration_seconds",
			Help:    "Duration of a full request pipeline by operation",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"operation"}),
	}
}

// IncrementOutcome records an operation outcome.
func (m *Metrics) IncrementOutcome(operation, outcome string) {
	if m != nil {
		m.Outcomes.WithLabelValues(operation, outcome).Inc()
	}
}

// ObserveQueryLatency records the duration of one read store query.
func (m *Metrics) ObserveQueryLatency(view string, d time.Duration) {
	if m != nil {
		m.QueryLatency.WithLabelValues(view).Observe(d.Seconds())
	}
}

// IncrementQueryFailure records a failed query attempt.
func (m *Metrics) IncrementQueryFailure(view string) {
	if m != nil {
		m.QueryFailures.WithLabelValues(view).Inc()
	}
}

// ObservePipelineLatency records the duration of a full pipeline run.
func (m *Metrics) ObservePipelineLatency(operation string, d time.Duration) {
	if m != nil {
		m.PipelineLatency.WithLabelValues(operation).Observe(d.Seconds())
	}
}
