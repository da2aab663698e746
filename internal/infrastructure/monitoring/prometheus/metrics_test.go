package prometheus

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDashboardMetrics(t *testing.T) *DashboardMetrics {
	t.Helper()
	c, err := NewMetricsCollector(CollectorConfig{Namespace: "thumblens"}, nil)
	require.NoError(t, err)
	return NewDashboardMetrics(c)
}

func TestDashboardMetrics_API(t *testing.T) {
	m := newTestDashboardMetrics(t)
	m.ObserveAPIRequest("/stats/overview", 200, 30*time.Millisecond)
	m.ObserveAPIRequest("/stats/overview", 0, time.Second)

	out := scrape(t, m.Handler())
	assert.Contains(t, out, `thumblens_api_requests_total{endpoint="/stats/overview",status="200"} 1`)
	assert.Contains(t, out, `thumblens_api_requests_total{endpoint="/stats/overview",status="error"} 1`)
	assert.Contains(t, out, `thumblens_api_request_duration_seconds_count{endpoint="/stats/overview"} 2`)
}

func TestDashboardMetrics_Views(t *testing.T) {
	m := newTestDashboardMetrics(t)
	m.ViewTransition("evolution", "loading")
	m.ViewTransition("evolution", "loading")
	m.LoadFinished("evolution")
	m.ViewTransition("evolution", "ready")
	m.StaleDiscard("evolution")
	m.PartialFailures("compare", 2)
	m.PartialFailures("compare", 0)

	out := scrape(t, m.Handler())
	assert.Contains(t, out, `thumblens_view_transitions_total{state="loading",view="evolution"} 2`)
	assert.Contains(t, out, `thumblens_view_transitions_total{state="ready",view="evolution"} 1`)
	assert.Contains(t, out, `thumblens_views_loading{view="evolution"} 1`)
	assert.Contains(t, out, `thumblens_view_stale_discards_total{view="evolution"} 1`)
	assert.Contains(t, out, `thumblens_view_partial_categories_total{view="compare"} 2`)
}

func TestDashboardMetrics_HTTP(t *testing.T) {
	m := newTestDashboardMetrics(t)
	m.ObserveHTTP("/api/views/{name}", 404, time.Millisecond)
	out := scrape(t, m.Handler())
	assert.Contains(t, out, `thumblens_http_requests_total{route="/api/views/{name}",status="404"} 1`)
}

func TestDashboardMetrics_NilIsNoop(t *testing.T) {
	var m *DashboardMetrics
	assert.NotPanics(t, func() {
		m.ObserveAPIRequest("/x", 200, time.Second)
		m.ViewTransition("v", "loading")
		m.LoadFinished("v")
		m.StaleDiscard("v")
		m.PartialFailures("v", 3)
		m.ObserveHTTP("/", 200, time.Second)
	})
	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
