package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetricsHandler(t *testing.T) {
	m := New()
	m.Subscriptions.Set(3)
	m.Deliveries.WithLabelValues(OutcomeGone).Inc()
	m.Pruned.Inc()

	require.Equal(t, float64(3), testutil.ToFloat64(m.Subscriptions))
	require.Equal(t, float64(1), testutil.ToFloat64(m.Deliveries.WithLabelValues(OutcomeGone)))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, "webpush_subscriptions 3")
	require.Contains(t, body, `webpush_deliveries_total{outcome="gone"} 1`)
	require.Contains(t, body, "webpush_subscriptions_pruned_total 1")
}
