package monitoring

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.EventAppended("QUIZ_COMPLETED")
	m.EventAppended("QUIZ_COMPLETED")
	m.EventRejected("invalid_event")
	m.SnapshotLookup(true)
	m.SnapshotLookup(false)
	m.SnapshotLookup(false)
	m.Conflict("retried")
	m.ObserveFold("progress", time.Now())
	m.FoldFailed("schedule", "configuration")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.EventsAppended.WithLabelValues("QUIZ_COMPLETED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventsRejected.WithLabelValues("invalid_event")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.SnapshotLookups.WithLabelValues("miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Conflicts.WithLabelValues("retried")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.FoldDuration))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FoldFailures.WithLabelValues("schedule", "configuration")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.EventAppended("x")
		m.EventRejected("x")
		m.SnapshotLookup(true)
		m.Conflict("surfaced")
		m.ObserveFold("schedule", time.Now())
		m.FoldFailed("progress", "corrupt_stream")
	})
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()

	r := gin.New()
	r.Use(m.MetricsMiddleware())
	r.GET("/ping/:id", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/metrics", m.PrometheusHandler())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping/7", nil))
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestCounter.WithLabelValues("GET", "/ping/:id", "200")))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "learnloop_http_requests_total")
	assert.Contains(t, body, "go_goroutines")
}
