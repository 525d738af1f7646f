package infra

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the service's Prometheus collectors.
type Metrics struct {
	Registry        *prometheus.Registry
	refreshSteps    *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
	notifyPublished *prometheus.CounterVec
	sqlDuration     *prometheus.HistogramVec
}

// NewMetrics registers collectors on a fresh registry, including the Go and
// process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		refreshSteps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rakta",
			Subsystem: "dashboard",
			Name:      "refresh_steps_total",
			Help:      "Dashboard refresh steps by outcome.",
		}, []string{"step", "result"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rakta",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method and status code.",
		}, []string{"method", "code"}),
		notifyPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rakta",
			Subsystem: "notify",
			Name:      "requests_published_total",
			Help:      "Blood request notifications by outcome.",
		}, []string{"result"}),
		sqlDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "rakta",
			Subsystem: "sql",
			Name:      "query_duration_seconds",
			Help:      "Query latency by sql marker and outcome.",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"marker", "result"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.refreshSteps,
		m.httpRequests,
		m.notifyPublished,
		m.sqlDuration,
	)
	return m
}

// RefreshStep counts one dashboard refresh step.
func (m *Metrics) RefreshStep(step string, ok bool) {
	if m == nil {
		return
	}
	m.refreshSteps.WithLabelValues(step, result(ok)).Inc()
}

// HTTPRequest counts one served request.
func (m *Metrics) HTTPRequest(method string, status int) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
}

// NotificationPublished counts one blood request publish attempt.
func (m *Metrics) NotificationPublished(ok bool) {
	if m == nil {
		return
	}
	m.notifyPublished.WithLabelValues(result(ok)).Inc()
}

// SQLQuery records one query by its marker. It satisfies QueryObserver.
func (m *Metrics) SQLQuery(marker string, d time.Duration, ok bool) {
	if m == nil {
		return
	}
	m.sqlDuration.WithLabelValues(marker, result(ok)).Observe(d.Seconds())
}

func result(ok bool) string {
	if ok {
		return "ok"
	}
	return "error"
}
