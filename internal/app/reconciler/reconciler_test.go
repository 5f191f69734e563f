package reconciler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/codevault/internal/lib/metrics"
)

func TestMetricsServer_ExposesSweeperCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.PaymentsCompleted.Inc()
	m.PaymentsCompleted.Inc()
	m.ProviderErrors.WithLabelValues("verify").Inc()

	srv := newMetricsServer(":0", reg)

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "codevault_payment_completed_total 2")
	assert.Contains(t, body, `codevault_payment_provider_errors_total{operation="verify"} 1`)
}

func TestMetricsServer_OnlyServesMetrics(t *testing.T) {
	srv := newMetricsServer(":0", prometheus.NewRegistry())

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
