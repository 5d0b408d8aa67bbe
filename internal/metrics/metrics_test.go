package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.ObserveHTTP(http.MethodGet, "/api/car", http.StatusOK, 15*time.Millisecond)
	m.ObserveHTTP(http.MethodGet, "/api/car", http.StatusOK, 5*time.Millisecond)
	m.ObserveAI("advice", "ok")
	m.AccountEvent("registered")
	m.ServiceRecord("added")
	m.ServiceRecord("added")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/car", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.aiRequests.WithLabelValues("advice", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.accounts.WithLabelValues("registered")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.services.WithLabelValues("added")))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ServiceRecord("deleted")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), `carlog_service_records_total{action="deleted"} 1`)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveHTTP("GET", "/", 200, time.Millisecond)
		m.ObserveAI("advice", "ok")
		m.AccountEvent("login")
		m.ServiceRecord("added")
	})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
