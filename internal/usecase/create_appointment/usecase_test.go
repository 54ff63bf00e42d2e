package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonService/pkg/logger"
	"github.com/m04kA/SMC-SalonService/pkg/txmanager"
)

var manila = time.FixedZone("PHT", 8*60*60)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type passthroughTx struct{ calls int }

func (p *passthroughTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	p.calls++
	return fn(ctx)
}

type memoryRepo struct {
	saved []*domain.Appointment
	err   error
}

func (m *memoryRepo) Create(_ context.Context, a *domain.Appointment) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, a)
	return nil
}

type fakeCatalog struct {
	certs map[string][]domain.StylistServiceCertification
}

func (f *fakeCatalog) LoadBranchCatalog(_ context.Context, branchID string) (*domain.BranchCatalog, error) {
	if branchID != "B1" {
		return nil, fmt.Errorf("branch %s: %w", branchID, domain.ErrNotFound)
	}
	return domain.NewBranchCatalog("B1",
		[]domain.BranchServiceOffering{
			{BranchServiceID: "bs_haircut", BranchID: "B1", ServiceID: "service_haircut", BranchDiscountedPrice: decimal.NewNullDecimal(decimal.NewFromInt(300))},
			{BranchServiceID: "bs_color", BranchID: "B1", ServiceID: "service_color"},
			{BranchServiceID: "bs_treatment", BranchID: "B1", ServiceID: "service_treatment"},
		},
		map[string]domain.ServiceDefinition{
			"service_haircut":   {ServiceID: "service_haircut", DefaultPrice: decimal.NewFromInt(350), WorkloadUnits: 1},
			"service_color":     {ServiceID: "service_color", DefaultPrice: decimal.NewFromInt(800), WorkloadUnits: 3},
			"service_treatment": {ServiceID: "service_treatment", DefaultPrice: decimal.NewFromInt(500), WorkloadUnits: 1},
		},
	), nil
}

func (f *fakeCatalog) ResolveForStylist(_ context.Context, c *domain.BranchCatalog, stylistID string) ([]domain.ResolvedService, error) {
	return c.ResolveForStylist(f.certs[stylistID]), nil
}

type fakeStaff map[string]*domain.StaffRecord

func (f fakeStaff) GetStaff(_ context.Context, id string) (*domain.StaffRecord, error) {
	s, ok := f[id]
	if !ok {
		return nil, fmt.Errorf("staff %s: %w", id, domain.ErrNotFound)
	}
	return s, nil
}

type fakeWorkload struct {
	reserved map[string]int
	err      error
}

func (f *fakeWorkload) Reserve(_ context.Context, _ time.Time, units map[string]int) error {
	if f.err != nil {
		return f.err
	}
	f.reserved = units
	return nil
}

type countingMetrics struct{ created int }

func (m *countingMetrics) IncAppointmentCreated(string) { m.created++ }

type fixture struct {
	uc       *UseCase
	repo     *memoryRepo
	workload *fakeWorkload
	metrics  *countingMetrics
	staff    fakeStaff
	catalog  *fakeCatalog
}

func newFixture() *fixture {
	f := &fixture{
		repo:     &memoryRepo{},
		workload: &fakeWorkload{},
		metrics:  &countingMetrics{},
		staff: fakeStaff{
			"S1": {ID: "S1", BranchID: "B1", Name: "Ana", IsActive: true},
			"S2": {ID: "S2", BranchID: "B1", Name: "Ben", IsActive: true},
			"S3": {ID: "S3", BranchID: "B2", Name: "Cy", IsActive: true},
		},
		catalog: &fakeCatalog{certs: map[string][]domain.StylistServiceCertification{
			"S1": {{StylistID: "S1", BranchServiceID: "bs_haircut"}, {StylistID: "S1", BranchServiceID: "bs_treatment"}},
			"S2": {{StylistID: "S2", BranchServiceID: "bs_color"}, {StylistID: "S2", BranchServiceID: "bs_treatment"}},
		}},
	}
	f.uc = NewUseCase(f.repo, f.catalog, f.staff, f.workload, &passthroughTx{}, f.metrics,
		fixedTime{now: time.Date(2025, 10, 16, 10, 0, 0, 0, manila)}, logger.NewNop())
	return f
}

func request() *Request {
	return &Request{
		CreatedBy: "frontdesk",
		Data: domain.AppointmentData{
			BranchID:        "B1",
			AppointmentDate: "2025-10-17",
			AppointmentTime: "14:30",
			ClientID:        "C1",
			ClientInfo:      domain.ClientInfo{Name: "Maria Santos"},
			ServiceStylistPairs: []domain.ServiceStylistPair{
				{ServiceID: "service_color", StylistID: "S2"},
				{ServiceID: "service_haircut", StylistID: "S1"},
			},
		},
	}
}

func TestCreateCapturesPricesAndReserves(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), request())

	require.NoError(t, err)
	a := resp.Appointment
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, domain.StatusScheduled, a.Status)
	assert.True(t, decimal.NewFromInt(1100).Equal(a.Total()))
	assert.Equal(t, map[string]int{"S2": 3, "S1": 1}, f.workload.reserved)
	require.Len(t, f.repo.saved, 1)
	assert.Same(t, a, f.repo.saved[0])
	assert.Equal(t, 1, f.metrics.created)
	assert.Empty(t, resp.Warnings)
}

func TestCreateRoundTripKeepsPairOrder(t *testing.T) {
	f := newFixture()
	req := request()
	req.Data.ServiceStylistPairs = []domain.ServiceStylistPair{
		{ServiceID: " service_treatment ", StylistID: "S2"},
		{ServiceID: "service_haircut", StylistID: " S1 "},
		{ServiceID: "service_color", StylistID: "S2"},
		{ServiceID: "service_treatment", StylistID: "S1"},
	}

	resp, err := f.uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, []string{"service_treatment", "service_haircut", "service_color", "service_treatment"}, resp.Appointment.ServiceIDs())
	assert.Equal(t, []string{"S2", "S1"}, resp.Appointment.StylistIDs())
}

func TestCreateLegacyShape(t *testing.T) {
	f := newFixture()
	req := request()
	req.Data.ServiceStylistPairs = nil
	req.Data.ServiceIDs = []string{"service_haircut", "service_treatment"}
	req.Data.StylistID = "S1"

	resp, err := f.uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, map[string]int{"S1": 2}, f.workload.reserved)
	assert.True(t, decimal.NewFromInt(800).Equal(resp.Appointment.Total()))
}

func TestCreateReturnsWarnings(t *testing.T) {
	f := newFixture()
	req := request()
	req.Data.AppointmentTime = "21:30"

	resp, err := f.uc.Execute(context.Background(), req)

	require.NoError(t, err)
	require.Len(t, resp.Warnings, 1)
	assert.Equal(t, domain.FieldAppointmentTime, resp.Warnings[0].Field)
}

func TestCreateWarnsAndTruncatesLongNotes(t *testing.T) {
	f := newFixture()
	req := request()
	req.Data.Notes = strings.Repeat("n", 600)

	resp, err := f.uc.Execute(context.Background(), req)

	require.NoError(t, err)
	require.Len(t, resp.Warnings, 1)
	assert.Equal(t, domain.FieldNotes, resp.Warnings[0].Field)
	assert.Len(t, resp.Appointment.Notes, domain.MaxNotesLength)
}

func TestCreateRejectsPastDate(t *testing.T) {
	f := newFixture()
	req := request()
	req.Data.AppointmentDate = "2020-01-01"

	_, err := f.uc.Execute(context.Background(), req)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.HasField(domain.FieldAppointmentDate))
	assert.Empty(t, f.repo.saved)
}

func TestCreateNotFound(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *Request)
		want   error
	}{
		{"branch", func(r *Request) { r.Data.BranchID = "B404" }, ErrBranchNotFound},
		{"stylist", func(r *Request) { r.Data.ServiceStylistPairs[0].StylistID = "S404" }, ErrStylistNotFound},
		{"service", func(r *Request) { r.Data.ServiceStylistPairs[1].ServiceID = "service_unknown" }, ErrServiceNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			req := request()
			tt.mutate(req)

			_, err := f.uc.Execute(context.Background(), req)

			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, domain.ErrNotFound)
			assert.Empty(t, f.repo.saved)
		})
	}
}

func TestCreateRejectsUncertifiedOrForeignStylist(t *testing.T) {
	f := newFixture()
	req := request()
	req.Data.ServiceStylistPairs = []domain.ServiceStylistPair{
		{ServiceID: "service_color", StylistID: "S2"},
		{ServiceID: "service_color", StylistID: "S1"},
		{ServiceID: "service_haircut", StylistID: "S3"},
	}

	_, err := f.uc.Execute(context.Background(), req)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.HasField("serviceStylistPairs[1].stylistId"))
	assert.True(t, verr.HasField(domain.FieldPairs), "S3 works at another branch")
	assert.Nil(t, f.workload.reserved)
}

func TestCreateCapacityExceeded(t *testing.T) {
	f := newFixture()
	f.workload.err = fmt.Errorf("workload: %w", domain.ErrCapacityExceeded)

	_, err := f.uc.Execute(context.Background(), request())

	assert.ErrorIs(t, err, domain.ErrCapacityExceeded)
	assert.Empty(t, f.repo.saved)
	assert.Zero(t, f.metrics.created)
}

func TestCreateBeginFailureIsRetryable(t *testing.T) {
	f := newFixture()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectBegin().WillReturnError(errors.New("dial tcp: connection refused"))

	tx := txmanager.NewTransactionManager(dbmetrics.Wrap(db, nil),
		txmanager.WithUnavailableError(domain.ErrStoreUnavailable))
	uc := NewUseCase(f.repo, f.catalog, f.staff, f.workload, tx, f.metrics,
		fixedTime{now: time.Date(2025, 10, 16, 10, 0, 0, 0, manila)}, logger.NewNop())

	_, err = uc.Execute(context.Background(), request())

	assert.ErrorIs(t, err, ErrInternal)
	assert.ErrorIs(t, err, txmanager.ErrBeginTx)
	assert.True(t, domain.IsRetryable(err))
	assert.Empty(t, f.workload.reserved)
	assert.Empty(t, f.repo.saved)
}

func TestCreateStoreFailureIsRetryable(t *testing.T) {
	f := newFixture()
	f.repo.err = fmt.Errorf("%w: connection reset", domain.ErrStoreUnavailable)

	_, err := f.uc.Execute(context.Background(), request())

	assert.ErrorIs(t, err, ErrInternal)
	assert.True(t, domain.IsRetryable(err))
}
