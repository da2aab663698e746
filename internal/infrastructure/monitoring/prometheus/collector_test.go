package prometheus

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thumblens/thumblens/internal/infrastructure/monitoring/logging"
)

func newTestCollector(t *testing.T) *Collector {
	t.Helper()
	c, err := NewMetricsCollector(CollectorConfig{Namespace: "test"}, logging.NewNopLogger())
	require.NoError(t, err)
	return c
}

func scrape(t *testing.T, h http.Handler) string {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestNewMetricsCollector_EmptyNamespace(t *testing.T) {
	_, err := NewMetricsCollector(CollectorConfig{}, nil)
	assert.Error(t, err)
}

func TestNewMetricsCollector_ProcessMetrics(t *testing.T) {
	c, err := NewMetricsCollector(CollectorConfig{Namespace: "test", EnableProcessMetrics: true}, nil)
	require.NoError(t, err)
	assert.Contains(t, scrape(t, c.Handler()), "process_cpu_seconds_total")
}

func TestCollector_Counter(t *testing.T) {
	c := newTestCollector(t)
	c.Counter("fetches_total", "fetches", "endpoint").WithLabelValues("/stats/overview").Add(3)
	assert.Contains(t, scrape(t, c.Handler()), `test_fetches_total{endpoint="/stats/overview"} 3`)
}

func TestCollector_DuplicateReusesVector(t *testing.T) {
	c := newTestCollector(t)
	c.Counter("dup_total", "help").WithLabelValues().Inc()
	c.Counter("dup_total", "help").WithLabelValues().Inc()
	assert.Contains(t, scrape(t, c.Handler()), "test_dup_total 2")
}

func TestCollector_TypeClashIsDetached(t *testing.T) {
	c := newTestCollector(t)
	c.Counter("clash", "help")
	g := c.Gauge("clash", "help")
	require.NotNil(t, g)
	g.WithLabelValues().Set(4)
	assert.NotContains(t, scrape(t, c.Handler()), "test_clash 4")
}

func TestCollector_Gauge(t *testing.T) {
	c := newTestCollector(t)
	g := c.Gauge("loading", "loading")
	g.WithLabelValues().Inc()
	g.WithLabelValues().Inc()
	g.WithLabelValues().Dec()
	assert.Contains(t, scrape(t, c.Handler()), "test_loading 1")
}

func TestCollector_HistogramDefaultBuckets(t *testing.T) {
	c := newTestCollector(t)
	c.Histogram("latency_seconds", "latency", nil).WithLabelValues().Observe(0.2)
	out := scrape(t, c.Handler())
	assert.Contains(t, out, `test_latency_seconds_bucket{le="0.25"} 1`)
	assert.Contains(t, out, "test_latency_seconds_count 1")
}

func TestCollector_ConcurrentRegistration(t *testing.T) {
	c := newTestCollector(t)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Counter("concurrent_total", "help").WithLabelValues().Inc()
		}()
	}
	wg.Wait()
	assert.Contains(t, scrape(t, c.Handler()), "test_concurrent_total 20")
}
