package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Count of explorer HTTP requests.",
	}, []string{"route", "code"})
	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Latency of explorer HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})
)

// HTTPHandler tracks metrics for explorer HTTP routes.
type HTTPHandler struct{}

// NewHTTPHandler constructs an HTTPHandler metrics collector.
func NewHTTPHandler() *HTTPHandler {
	return &HTTPHandler{}
}

// Observe records a served request.
func (m HTTPHandler) Observe(route string, code int, started time.Time) {
	httpRequestsTotal.WithLabelValues(route, strconv.Itoa(code)).Inc()
	httpRequestDuration.WithLabelValues(route).Observe(time.Since(started).Seconds())
}
