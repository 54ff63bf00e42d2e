package metrics

import (
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsAreNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveHTTPRequest(http.MethodGet, "/x", 200, time.Millisecond)
		m.ObserveDBQuery("select", time.Millisecond, errors.New("boom"))
		m.SetDBPoolStats(sql.DBStats{})
		m.IncAppointmentCreated("B1")
		m.IncStatusTransition("confirmed")
		m.IncCapacityRejected()
		m.ObserveAvailability(3, time.Millisecond)
		m.IncNotification("email", nil)
	})
	assert.Nil(t, m.Registry())
}

func TestCountersAreRecorded(t *testing.T) {
	m := New("salon-test")

	m.IncAppointmentCreated("B1")
	m.IncAppointmentCreated("B1")
	m.IncStatusTransition("confirmed")
	m.IncCapacityRejected()
	m.IncNotification("email", errors.New("down"))
	m.ObserveDBQuery("insert", time.Millisecond, errors.New("fail"))

	assert.Equal(t, float64(2), testutil.ToFloat64(m.appointmentsCreated.WithLabelValues("B1")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.statusTransitions.WithLabelValues("confirmed")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.capacityRejections))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.notificationsAttempts.WithLabelValues("email", "failed")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.dbQueryErrors.WithLabelValues("insert")))
}

func TestNewUsesIsolatedRegistries(t *testing.T) {
	require.NotPanics(t, func() {
		New("a")
		New("b")
	})
}

func TestHandlerServesRegistry(t *testing.T) {
	m := New("salon-test")
	m.IncStatusTransition("cancelled")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "salon_appointment_transitions_total"))
}
