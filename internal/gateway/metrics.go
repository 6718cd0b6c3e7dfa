package gateway

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records outbound call counts and latency.
type Metrics struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers gateway collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	calls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "nexstock_backend_requests_total",
		Help: "Backend API calls by method and status class.",
	}, []string{"method", "class"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "nexstock_backend_request_duration_seconds",
		Help:    "Backend API call latency by method.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})
	if reg != nil {
		reg.MustRegister(calls, duration)
	}
	return &Metrics{calls: calls, duration: duration}
}

func (m *Metrics) observe(method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	class := "error"
	if status > 0 {
		class = strconv.Itoa(status/100) + "xx"
	}
	m.calls.WithLabelValues(method, class).Inc()
	m.duration.WithLabelValues(method).Observe(elapsed.Seconds())
}
