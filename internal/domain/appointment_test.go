package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/pkg/ptr"
)

var manila = time.FixedZone("PHT", 8*60*60)

// Thursday morning before the Friday appointment used throughout.
var now = time.Date(2025, 10, 16, 10, 0, 0, 0, manila)

func pairedData() domain.AppointmentData {
	return domain.AppointmentData{
		BranchID:        "B1",
		AppointmentDate: "2025-10-17",
		AppointmentTime: "14:30",
		ClientID:        "C1",
		ClientInfo:      domain.ClientInfo{Name: "Maria Santos", Email: "maria@example.com"},
		ServiceStylistPairs: []domain.ServiceStylistPair{
			{ServiceID: "service_color", StylistID: "S2"},
			{ServiceID: "service_haircut", StylistID: "S1"},
		},
	}
}

func newScheduled(t *testing.T) *domain.Appointment {
	t.Helper()
	a, err := domain.NewAppointment("A1", pairedData(), "frontdesk", now)
	require.NoError(t, err)
	return a
}

func TestNewAppointment(t *testing.T) {
	a := newScheduled(t)

	assert.Equal(t, domain.StatusScheduled, a.Status)
	assert.Equal(t, now, a.CreatedAt)
	assert.Equal(t, "frontdesk", a.CreatedBy)
	require.Len(t, a.History, 1)
	assert.Equal(t, domain.ActionCreated, a.History[0].Action)
	assert.Equal(t, "frontdesk", a.History[0].By)
	assert.Equal(t, time.Date(2025, 10, 17, 0, 0, 0, 0, time.UTC), a.AppointmentDate)
}

func TestNewAppointmentRejectsInvalidData(t *testing.T) {
	data := pairedData()
	data.AppointmentDate = "2020-01-01"

	_, err := domain.NewAppointment("A1", data, "frontdesk", now)

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.HasField(domain.FieldAppointmentDate))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSanitizedCreatePreservesPairOrder(t *testing.T) {
	data := pairedData()
	data.ServiceStylistPairs = []domain.ServiceStylistPair{
		{ServiceID: " service_color ", StylistID: "S2"},
		{ServiceID: "service_haircut", StylistID: " S1"},
		{ServiceID: "service_treatment", StylistID: "S2"},
	}

	a, err := domain.NewAppointment("A1", domain.Sanitize(data), "frontdesk", now)
	require.NoError(t, err)

	assert.Equal(t, []string{"service_color", "service_haircut", "service_treatment"}, a.ServiceIDs())
	assert.Equal(t, []string{"S2", "S1"}, a.StylistIDs())
}

func TestNewAppointmentFromLegacyShape(t *testing.T) {
	data := pairedData()
	data.ServiceStylistPairs = nil
	data.ServiceIDs = []string{"service_haircut", "service_color"}
	data.StylistID = "S1"

	a, err := domain.NewAppointment("A1", data, "frontdesk", now)
	require.NoError(t, err)

	assert.Equal(t, []domain.ServiceStylistPair{
		{ServiceID: "service_haircut", StylistID: "S1"},
		{ServiceID: "service_color", StylistID: "S1"},
	}, a.ServiceStylistPairs)
}

func TestTransitionAppendsHistory(t *testing.T) {
	a := newScheduled(t)
	later := now.Add(time.Hour)

	require.NoError(t, a.Transition(domain.StatusConfirmed, "manager", "called client", later))

	assert.Equal(t, domain.StatusConfirmed, a.Status)
	assert.Equal(t, later, a.UpdatedAt)
	require.Len(t, a.History, 2)
	last, ok := a.LastHistoryEntry()
	require.True(t, ok)
	assert.Equal(t, domain.HistoryEntry{
		Action: "status_changed_to_confirmed", By: "manager", Timestamp: later, Notes: "called client",
	}, last)
}

func TestFullLifecycleHistoryIsMonotonic(t *testing.T) {
	a := newScheduled(t)
	steps := []domain.AppointmentStatus{domain.StatusConfirmed, domain.StatusInProgress, domain.StatusCompleted}

	for i, s := range steps {
		before := append([]domain.HistoryEntry(nil), a.History...)
		require.NoError(t, a.Transition(s, "stylist", "", now.Add(time.Duration(i+1)*time.Minute)))
		require.Len(t, a.History, len(before)+1)
		assert.Equal(t, before, a.History[:len(before)], "earlier entries must not change")
	}
}

func TestTransitionFromCompletedIsIllegal(t *testing.T) {
	a := newScheduled(t)
	a.Status = domain.StatusCompleted
	historyLen := len(a.History)

	err := a.Transition(domain.StatusConfirmed, "manager", "", now)

	var terr *domain.IllegalTransitionError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, domain.StatusCompleted, terr.From)
	assert.Equal(t, domain.StatusConfirmed, terr.To)
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)
	assert.Equal(t, domain.StatusCompleted, a.Status)
	assert.Len(t, a.History, historyLen)
}

func TestUpdateClientInfoMergesFields(t *testing.T) {
	a := newScheduled(t)

	a.UpdateClientInfo(domain.ClientInfoPatch{Phone: ptr.Ptr("+63 917 000 0000")}, "frontdesk", now)

	assert.Equal(t, "Maria Santos", a.ClientInfo.Name)
	assert.Equal(t, "+63 917 000 0000", a.ClientInfo.Phone)
	assert.Equal(t, domain.StatusScheduled, a.Status)
	last, _ := a.LastHistoryEntry()
	assert.Equal(t, domain.ActionClientInfoUpdated, last.Action)
}

func TestReschedule(t *testing.T) {
	a := newScheduled(t)
	newDay := time.Date(2025, 10, 18, 0, 0, 0, 0, time.UTC)

	require.NoError(t, a.Reschedule(newDay, "11:00", "frontdesk", "", now))

	assert.Equal(t, newDay, a.AppointmentDate)
	assert.EqualValues(t, "11:00", a.AppointmentTime)
	last, _ := a.LastHistoryEntry()
	assert.Equal(t, domain.ActionRescheduled, last.Action)
	assert.Equal(t, "moved from 2025-10-17 14:30 to 2025-10-18 11:00", last.Notes)
}

func TestRescheduleRejectedAfterStart(t *testing.T) {
	a := newScheduled(t)
	require.NoError(t, a.Transition(domain.StatusConfirmed, "m", "", now))
	require.NoError(t, a.Transition(domain.StatusInProgress, "m", "", now))

	err := a.Reschedule(time.Date(2025, 10, 18, 0, 0, 0, 0, time.UTC), "11:00", "m", "", now)

	assert.ErrorIs(t, err, domain.ErrCannotReschedule)
}

func TestWorkloadAndTotal(t *testing.T) {
	a := newScheduled(t)
	a.ServiceStylistPairs[0].Price = decimal.NewNullDecimal(decimal.NewFromInt(800))
	a.ServiceStylistPairs[0].WorkloadUnits = 3
	a.ServiceStylistPairs[1].Price = decimal.NewNullDecimal(decimal.NewFromInt(300))
	a.ServiceStylistPairs[1].WorkloadUnits = 1

	assert.True(t, decimal.NewFromInt(1100).Equal(a.Total()))
	assert.Equal(t, map[string]int{"S2": 3, "S1": 1}, a.WorkloadByStylist())
}

func TestViews(t *testing.T) {
	a := newScheduled(t)

	assert.Equal(t, "Friday, October 17, 2025", a.FormattedDate())
	assert.Equal(t, "2:30 PM", a.FormattedTime())
	assert.False(t, a.IsToday(now))
	assert.True(t, a.IsToday(now.Add(24*time.Hour)))
	assert.False(t, a.IsPastAppointment(now))
	assert.True(t, a.IsPastAppointment(time.Date(2025, 10, 17, 14, 31, 0, 0, manila)))
}

func TestClientDisplayNamePrecedence(t *testing.T) {
	tests := []struct {
		name string
		a    domain.Appointment
		want string
	}{
		{"client info first", domain.Appointment{ClientInfo: domain.ClientInfo{Name: "Ana"}, ClientName: "Legacy", NewClientName: "New"}, "Ana"},
		{"legacy name", domain.Appointment{ClientName: "Legacy", NewClientName: "New"}, "Legacy"},
		{"new client name", domain.Appointment{NewClientName: "New"}, "New"},
		{"unknown", domain.Appointment{ClientInfo: domain.ClientInfo{Name: "  "}}, "Unknown Client"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.ClientDisplayName())
		})
	}
}
