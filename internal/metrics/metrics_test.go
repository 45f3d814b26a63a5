package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRecordRecalculation tests the recalculation counter by status
func TestRecordRecalculation(t *testing.T) {
	okBefore := testutil.ToFloat64(recalculations.WithLabelValues(StatusOK))
	errBefore := testutil.ToFloat64(recalculations.WithLabelValues(StatusError))

	RecordRecalculation(StatusOK, 5*time.Millisecond)
	RecordRecalculation(StatusOK, 0)
	RecordRecalculation(StatusError, time.Millisecond)

	assert.Equal(t, okBefore+2, testutil.ToFloat64(recalculations.WithLabelValues(StatusOK)))
	assert.Equal(t, errBefore+1, testutil.ToFloat64(recalculations.WithLabelValues(StatusError)))
}

// TestInstrumentHandler_UsesRoutePattern tests that ids do not leak into labels
func TestInstrumentHandler_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(InstrumentHandler)
	r.Get("/api/contests/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/contests/{id}", "418"))

	req := httptest.NewRequest(http.MethodGet, "/api/contests/abc-123", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/contests/{id}", "418")))
}

// TestHandler_ExposesCollectors tests the exposition endpoint
func TestHandler_ExposesCollectors(t *testing.T) {
	RecordBroadcast("results_updated")
	SetWebsocketClients(3)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, "liftmeet_recalculations_total") || strings.Contains(body, "liftmeet_websocket_clients"))
	assert.Contains(t, body, "liftmeet_websocket_clients 3")
	assert.Contains(t, body, `liftmeet_websocket_broadcasts_total{type="results_updated"}`)
}

// TestRoutePattern_Unmatched tests requests outside a chi router
func TestRoutePattern_Unmatched(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	assert.Equal(t, "unmatched", routePattern(req))
}
