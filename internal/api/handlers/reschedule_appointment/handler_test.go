package reschedule_appointment

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/internal/api/middleware"
	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/service/appointments"
	"github.com/m04kA/SMC-SalonService/internal/service/appointments/models"
	"github.com/m04kA/SMC-SalonService/pkg/logger"
)

type fakeService struct {
	gotID  string
	gotReq *models.RescheduleRequest
	err    error
}

func (f *fakeService) Reschedule(_ context.Context, id string, req *models.RescheduleRequest) (*models.AppointmentResponse, error) {
	f.gotID, f.gotReq = id, req
	if f.err != nil {
		return nil, f.err
	}
	return &models.AppointmentResponse{ID: id, AppointmentDate: req.AppointmentDate, AppointmentTime: req.AppointmentTime}, nil
}

func serve(t *testing.T, svc AppointmentService, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := mux.NewRouter()
	r.Use(middleware.Auth)
	r.HandleFunc("/api/v1/appointments/{appointmentId}/reschedule", NewHandler(svc, logger.NewNop()).Handle).Methods(http.MethodPatch)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/appointments/a1/reschedule", strings.NewReader(body))
	req.Header.Set(middleware.HeaderUserID, "frontdesk")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandleReschedule(t *testing.T) {
	svc := &fakeService{}
	rec := serve(t, svc, `{"appointmentDate":"2025-10-18","appointmentTime":"11:00","notes":"client asked"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "a1", svc.gotID)
	assert.Equal(t, "2025-10-18", svc.gotReq.AppointmentDate)
	assert.Equal(t, "frontdesk", svc.gotReq.PerformedBy)
	assert.Contains(t, rec.Body.String(), `"appointmentTime":"11:00"`)
}

func TestHandleRescheduleErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"past date", &domain.ValidationError{Errors: []domain.FieldIssue{{Field: domain.FieldAppointmentDate, Message: "must be in the future"}}}, http.StatusBadRequest},
		{"completed appointment", fmt.Errorf("%w: status completed", appointments.ErrCannotReschedule), http.StatusConflict},
		{"no capacity on new day", fmt.Errorf("schedule: %w", domain.ErrCapacityExceeded), http.StatusConflict},
		{"not found", fmt.Errorf("%w: a1", appointments.ErrAppointmentNotFound), http.StatusNotFound},
		{"database down", fmt.Errorf("%w: Reschedule: %w", appointments.ErrInternal, domain.ErrStoreUnavailable), http.StatusServiceUnavailable},
		{"internal", appointments.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, &fakeService{err: tt.err}, `{"appointmentDate":"2025-10-18","appointmentTime":"11:00"}`)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandleRescheduleBadBody(t *testing.T) {
	svc := &fakeService{}
	rec := serve(t, svc, `{"date":"2025-10-18"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, svc.gotReq)
}
