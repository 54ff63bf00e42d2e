package compose_booking

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/internal/composer"
	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/usecase/create_appointment"
	"github.com/m04kA/SMC-SalonService/internal/usecase/resolve_availability"
	"github.com/m04kA/SMC-SalonService/pkg/logger"
)

type fakeAvailability struct {
	stylists []domain.StylistAvailability
	err      error
	got      *resolve_availability.Request
}

func (f *fakeAvailability) Execute(_ context.Context, req *resolve_availability.Request) (*resolve_availability.Response, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &resolve_availability.Response{
		BranchID: req.BranchID,
		Date:     req.Date,
		Weekday:  domain.WeekdayOf(req.Date),
		Stylists: f.stylists,
	}, nil
}

type fakeCreator struct {
	got *create_appointment.Request
}

func (f *fakeCreator) Execute(_ context.Context, req *create_appointment.Request) (*create_appointment.Response, error) {
	f.got = req
	a := &domain.Appointment{ID: "A1", BranchID: req.Data.BranchID, ServiceStylistPairs: req.Data.ServiceStylistPairs}
	return &create_appointment.Response{Appointment: a}, nil
}

func svc(id string, price int64, units int) domain.ResolvedService {
	return domain.ResolvedService{ServiceID: id, Price: decimal.NewFromInt(price), WorkloadUnits: units}
}

func availability() []domain.StylistAvailability {
	return []domain.StylistAvailability{
		{StylistID: "S1", Name: "Ana", RemainingWorkload: 5, Services: []domain.ResolvedService{svc("service_haircut", 300, 1)}},
		{StylistID: "S2", Name: "Ben", RemainingWorkload: 3, Services: []domain.ResolvedService{svc("service_color", 800, 3), svc("service_treatment", 500, 1)}},
	}
}

func newUseCase() (*UseCase, *fakeAvailability, *fakeCreator) {
	avail := &fakeAvailability{stylists: availability()}
	creator := &fakeCreator{}
	return NewUseCase(avail, creator, logger.NewNop()), avail, creator
}

func request(selections ...Selection) *Request {
	return &Request{
		BranchID:        "B1",
		AppointmentDate: "2025-10-17",
		Selections:      selections,
		Client:          composer.Input{AppointmentTime: "14:30", ClientID: "C1"},
		CreatedBy:       "frontdesk",
	}
}

func TestComposeBookingCreatesPairsInSelectionOrder(t *testing.T) {
	uc, avail, creator := newUseCase()

	resp, err := uc.Execute(context.Background(), request(
		Selection{StylistName: "Ben", ServiceID: "service_color"},
		Selection{StylistName: "Ana", ServiceID: "service_haircut"},
		Selection{StylistName: "Ben", ServiceID: "service_color"},
	))

	require.NoError(t, err)
	assert.Equal(t, "2025-10-17", avail.got.Date.Format(domain.DateFormat))
	assert.True(t, decimal.NewFromInt(1100).Equal(resp.Total))
	require.NotNil(t, creator.got)
	pairs := creator.got.Data.ServiceStylistPairs
	require.Len(t, pairs, 2)
	assert.Equal(t, "S2", pairs[0].StylistID)
	assert.Equal(t, "service_haircut", pairs[1].ServiceID)
	assert.Equal(t, "14:30", creator.got.Data.AppointmentTime)
	assert.Equal(t, "frontdesk", creator.got.CreatedBy)
}

func TestComposeBookingRejectsUnknownSelections(t *testing.T) {
	uc, _, creator := newUseCase()

	_, err := uc.Execute(context.Background(), request(
		Selection{StylistName: "Cy", ServiceID: "service_haircut"},
		Selection{StylistName: "Ana", ServiceID: "service_color"},
	))

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.HasField("selections[0].stylistName"))
	assert.True(t, verr.HasField("selections[1].serviceId"))
	assert.Nil(t, creator.got)
}

func TestComposeBookingEmptySelection(t *testing.T) {
	uc, _, creator := newUseCase()

	_, err := uc.Execute(context.Background(), request())

	assert.ErrorIs(t, err, domain.ErrIncompleteSelection)
	assert.Nil(t, creator.got)
}

func TestComposeBookingCapacity(t *testing.T) {
	uc, _, creator := newUseCase()

	_, err := uc.Execute(context.Background(), request(
		Selection{StylistName: "Ben", ServiceID: "service_color"},
		Selection{StylistName: "Ben", ServiceID: "service_treatment"},
	))

	assert.ErrorIs(t, err, domain.ErrCapacityExceeded)
	assert.Nil(t, creator.got)
}

func TestComposeBookingInvalidRequest(t *testing.T) {
	uc, avail, _ := newUseCase()
	req := request()
	req.AppointmentDate = "17/10/2025"

	_, err := uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Nil(t, avail.got)
}

func TestComposeBookingUnknownBranch(t *testing.T) {
	uc, avail, _ := newUseCase()
	avail.err = resolve_availability.ErrBranchNotFound

	_, err := uc.Execute(context.Background(), request(Selection{StylistName: "Ana", ServiceID: "service_haircut"}))

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

