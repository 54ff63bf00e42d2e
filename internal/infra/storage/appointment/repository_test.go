package appointment

import (
	"context"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonService/pkg/ptr"
)

var (
	created = time.Date(2025, 10, 16, 2, 0, 0, 0, time.UTC)
	friday  = time.Date(2025, 10, 17, 0, 0, 0, 0, time.UTC)
)

func newRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), mock
}

func appointmentRows() *sqlmock.Rows {
	return sqlmock.NewRows(appointmentColumns)
}

func pairedRow(rows *sqlmock.Rows, id string) *sqlmock.Rows {
	return rows.AddRow(
		id, "B1", friday, "14:30:00", "C1", false, "", "",
		[]byte(`{"name":"Maria Santos","phone":"","email":"maria@example.com","address":""}`),
		[]byte(`[{"serviceId":"service_color","stylistId":"S2","price":"800","workloadUnits":3},{"serviceId":"service_haircut","stylistId":"S1","price":"300","workloadUnits":1}]`),
		nil, nil, "scheduled", "", "frontdesk", created, created,
	)
}

func historyRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"appointment_id", "action", "performed_by", "notes", "created_at"})
}

func TestCreateWritesAppointmentAndHistory(t *testing.T) {
	repo, mock := newRepo(t)
	a := &domain.Appointment{
		ID:              "A1",
		BranchID:        "B1",
		AppointmentDate: friday,
		AppointmentTime: "14:30",
		ClientID:        "C1",
		ClientInfo:      domain.ClientInfo{Name: "Maria Santos"},
		ServiceStylistPairs: []domain.ServiceStylistPair{
			{ServiceID: "service_color", StylistID: "S2", Price: decimal.NewNullDecimal(decimal.NewFromInt(800)), WorkloadUnits: 3},
		},
		Status:    domain.StatusScheduled,
		CreatedBy: "frontdesk",
		CreatedAt: created,
		UpdatedAt: created,
		History:   []domain.HistoryEntry{{Action: domain.ActionCreated, By: "frontdesk", Timestamp: created}},
	}

	mock.ExpectExec(`INSERT INTO appointments \(id,branch_id,appointment_date,appointment_time,`).
		WithArgs("A1", "B1", "2025-10-17", "14:30", "C1", false, "", "",
			sqlmock.AnyArg(), sqlmock.AnyArg(), "scheduled", "", "frontdesk", created, created).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO appointment_history \(appointment_id,action,performed_by,notes,created_at\) VALUES \(\$1,\$2,\$3,\$4,\$5\)`).
		WithArgs("A1", "created", "frontdesk", "", created).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Create(context.Background(), a))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateStoresEmptyClientIDAsNull(t *testing.T) {
	repo, mock := newRepo(t)
	a := &domain.Appointment{ID: "A2", BranchID: "B1", AppointmentDate: friday, AppointmentTime: "10:00",
		IsNewClient: true, NewClientName: "Jose", Status: domain.StatusScheduled, CreatedAt: created, UpdatedAt: created}

	mock.ExpectExec(`INSERT INTO appointments`).
		WithArgs("A2", "B1", "2025-10-17", "10:00", nullArg{}, true, "Jose", "",
			sqlmock.AnyArg(), sqlmock.AnyArg(), "scheduled", "", "", created, created).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), a))
	assert.NoError(t, mock.ExpectationsWereMet())
}

type nullArg struct{}

func (nullArg) Match(v driver.Value) bool { return v == nil }

func TestGetByIDInTransactionLocksRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM appointments WHERE id = \$1 FOR UPDATE`).
		WithArgs("A1").
		WillReturnRows(pairedRow(appointmentRows(), "A1"))
	mock.ExpectQuery(`FROM appointment_history WHERE appointment_id IN \(\$1\) ORDER BY id ASC`).
		WithArgs("A1").
		WillReturnRows(historyRows().AddRow("A1", "created", "frontdesk", "", created))

	tx, err := db.Begin()
	require.NoError(t, err)
	ctx := dbmetrics.WithTx(context.Background(), tx)

	a, err := repo.GetByID(ctx, "A1")

	require.NoError(t, err)
	assert.Equal(t, friday, a.AppointmentDate)
	assert.EqualValues(t, "14:30", a.AppointmentTime)
	assert.Equal(t, "Maria Santos", a.ClientInfo.Name)
	assert.Equal(t, []string{"service_color", "service_haircut"}, a.ServiceIDs())
	assert.True(t, decimal.NewFromInt(1100).Equal(a.Total()))
	require.Len(t, a.History, 1)
	assert.Equal(t, domain.ActionCreated, a.History[0].Action)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDNormalizesLegacyRow(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(`FROM appointments WHERE id = \$1$`).
		WithArgs("OLD1").
		WillReturnRows(appointmentRows().AddRow(
			"OLD1", "B1", friday, "09:00:00", nil, false, "", "Legacy Name",
			[]byte(`{}`), []byte(`[]`), []byte(`["service_haircut","service_color"]`), "S1",
			"completed", "", "import", created, created,
		))
	mock.ExpectQuery(`FROM appointment_history`).WillReturnRows(historyRows())

	a, err := repo.GetByID(context.Background(), "OLD1")

	require.NoError(t, err)
	assert.Equal(t, []domain.ServiceStylistPair{
		{ServiceID: "service_haircut", StylistID: "S1"},
		{ServiceID: "service_color", StylistID: "S1"},
	}, a.ServiceStylistPairs)
	assert.Equal(t, "Legacy Name", a.ClientDisplayName())
	assert.Empty(t, a.ClientID)
	assert.NotNil(t, a.History)
}

func TestGetByIDNotFound(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(`FROM appointments`).WillReturnRows(appointmentRows())

	_, err := repo.GetByID(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrAppointmentNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateStatus(t *testing.T) {
	repo, mock := newRepo(t)
	updated := created.Add(time.Hour)
	mock.ExpectExec(`UPDATE appointments SET status = \$1, updated_at = \$2 WHERE id = \$3`).
		WithArgs("confirmed", updated, "A1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), "A1", domain.AppointmentPatch{
		Status:    ptr.Ptr(domain.StatusConfirmed),
		UpdatedAt: updated,
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateMissingRow(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectExec(`UPDATE appointments`).WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), "A404", domain.AppointmentPatch{Status: ptr.Ptr(domain.StatusCancelled)})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateEmptyPatch(t *testing.T) {
	repo, _ := newRepo(t)

	assert.ErrorIs(t, repo.Update(context.Background(), "A1", domain.AppointmentPatch{}), ErrEmptyPatch)
}

func TestQueryByStylistAndRange(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(`FROM appointments WHERE branch_id = \$1 AND \(service_stylist_pairs @> \$2::jsonb OR stylist_id = \$3\) AND appointment_date >= \$4 AND appointment_date <= \$5 ORDER BY appointment_date ASC, appointment_time ASC, created_at ASC`).
		WithArgs("B1", `[{"stylistId":"S1"}]`, "S1", "2025-10-01", "2025-10-31").
		WillReturnRows(pairedRow(pairedRow(appointmentRows(), "A1"), "A2"))
	mock.ExpectQuery(`FROM appointment_history WHERE appointment_id IN \(\$1,\$2\)`).
		WithArgs("A1", "A2").
		WillReturnRows(historyRows().
			AddRow("A1", "created", "frontdesk", "", created).
			AddRow("A2", "created", "frontdesk", "", created).
			AddRow("A1", "status_changed_to_confirmed", "manager", "", created.Add(time.Hour)))

	from := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 10, 31, 0, 0, 0, 0, time.UTC)
	list, err := repo.Query(context.Background(), domain.AppointmentFilter{
		BranchID:  ptr.Ptr("B1"),
		StylistID: ptr.Ptr("S1"),
		DateFrom:  &from,
		DateTo:    &to,
	})

	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Len(t, list[0].History, 2)
	assert.Len(t, list[1].History, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryEmptySkipsHistory(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(`FROM appointments WHERE client_id = \$1`).
		WithArgs("C9").
		WillReturnRows(appointmentRows())

	list, err := repo.Query(context.Background(), domain.AppointmentFilter{ClientID: ptr.Ptr("C9")})

	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppendHistory(t *testing.T) {
	repo, mock := newRepo(t)
	at := created.Add(2 * time.Hour)
	mock.ExpectExec(`INSERT INTO appointment_history`).
		WithArgs("A1", "rescheduled", "frontdesk", "moved", at).
		WillReturnResult(sqlmock.NewResult(2, 1))

	err := repo.AppendHistory(context.Background(), "A1", domain.HistoryEntry{
		Action: domain.ActionRescheduled, By: "frontdesk", Timestamp: at, Notes: "moved",
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
