package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// APIDurationBuckets cover statistics service calls, which can run to
// several seconds for clustering.
var APIDurationBuckets = []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30}

// DashboardMetrics are the dashboard's metrics.  A nil *DashboardMetrics
// records nothing, so components can take one optionally.
type DashboardMetrics struct {
	collector *Collector

	APIRequestsTotal    *prometheus.CounterVec
	APIRequestDuration  *prometheus.HistogramVec
	ViewTransitions     *prometheus.CounterVec
	ViewStaleDiscards   *prometheus.CounterVec
	ViewPartialFailures *prometheus.CounterVec
	ViewsLoading        *prometheus.GaugeVec
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewDashboardMetrics registers every dashboard metric on collector.
func NewDashboardMetrics(collector *Collector) *DashboardMetrics {
	m := &DashboardMetrics{collector: collector}

	m.APIRequestsTotal = collector.Counter("api_requests_total", "Statistics service requests", "endpoint", "status")
	m.APIRequestDuration = collector.Histogram("api_request_duration_seconds", "Statistics service request duration", APIDurationBuckets, "endpoint")

	m.ViewTransitions = collector.Counter("view_transitions_total", "View state transitions", "view", "state")
	m.ViewStaleDiscards = collector.Counter("view_stale_discards_total", "Superseded view loads whose result was discarded", "view")
	m.ViewPartialFailures = collector.Counter("view_partial_categories_total", "Categories dropped from a view because their fetch failed", "view")
	m.ViewsLoading = collector.Gauge("views_loading", "Views currently loading", "view")

	m.HTTPRequestsTotal = collector.Counter("http_requests_total", "Dashboard HTTP requests", "route", "status")
	m.HTTPRequestDuration = collector.Histogram("http_request_duration_seconds", "Dashboard HTTP request duration", nil, "route")

	return m
}

// Handler serves the registry, or 404 when m is nil.
func (m *DashboardMetrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return m.collector.Handler()
}

// ObserveAPIRequest records one statistics service call.  A status of 0
// means the request never got a response.
func (m *DashboardMetrics) ObserveAPIRequest(endpoint string, status int, took time.Duration) {
	if m == nil {
		return
	}
	m.APIRequestsTotal.WithLabelValues(endpoint, statusLabel(status)).Inc()
	m.APIRequestDuration.WithLabelValues(endpoint).Observe(took.Seconds())
}

// ViewTransition records a view entering state.
func (m *DashboardMetrics) ViewTransition(view, state string) {
	if m == nil {
		return
	}
	m.ViewTransitions.WithLabelValues(view, state).Inc()
	if state == "loading" {
		m.ViewsLoading.WithLabelValues(view).Inc()
	}
}

// LoadFinished balances a loading transition.
func (m *DashboardMetrics) LoadFinished(view string) {
	if m == nil {
		return
	}
	m.ViewsLoading.WithLabelValues(view).Dec()
}

// StaleDiscard records a superseded load.
func (m *DashboardMetrics) StaleDiscard(view string) {
	if m == nil {
		return
	}
	m.ViewStaleDiscards.WithLabelValues(view).Inc()
}

// PartialFailures records n categories dropped from a view.
func (m *DashboardMetrics) PartialFailures(view string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.ViewPartialFailures.WithLabelValues(view).Add(float64(n))
}

// ObserveHTTP records one dashboard HTTP request.
func (m *DashboardMetrics) ObserveHTTP(route string, status int, took time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(route, statusLabel(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(route).Observe(took.Seconds())
}

func statusLabel(status int) string {
	if status == 0 {
		return "error"
	}
	return strconv.Itoa(status)
}
