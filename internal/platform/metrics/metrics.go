package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds process-level Prometheus metrics.
type Metrics struct {
	HTTPRequests *prometheus.CounterVec
}

// New creates and registers process-level metrics.
func New() *Metrics {
	return &Metrics{
		HTTPRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "bpd_http_requests_total",
			Help: "HTTP requests served, by route pattern and status class",
		}, []string{"route", "status"}),
	}
}

// IncrementHTTPRequest counts one served request.
func (m *Metrics) IncrementHTTPRequest(route, statusClass string) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(route, statusClass).Inc()
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
