package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestBookingOutcome(t *testing.T) {
	m := New()

	m.BookingOutcome("confirmed")
	m.BookingOutcome("confirmed")
	m.BookingOutcome("full")

	body := scrape(t, m)
	assert.Contains(t, body, `employability_booking_attempts_total{outcome="confirmed"} 2`)
	assert.Contains(t, body, `employability_booking_attempts_total{outcome="full"} 1`)
}

func TestHandlerExposesHTTPCounters(t *testing.T) {
	m := New()
	m.ObserveRequest("/timeslots", http.MethodGet, http.StatusOK, 15*time.Millisecond)
	m.RateLimited()

	body := scrape(t, m)
	assert.Contains(t, body, `employability_http_requests_total{code="200",method="GET",route="/timeslots"} 1`)
	assert.Contains(t, body, "employability_http_rate_limited_total 1")
	assert.Contains(t, body, "employability_http_request_duration_seconds_bucket")
}
