package update_client_info

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
	gotReq *models.UpdateClientInfoRequest
	err    error
}

func (f *fakeService) UpdateClientInfo(_ context.Context, id string, req *models.UpdateClientInfoRequest) (*models.AppointmentResponse, error) {
	f.gotReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.AppointmentResponse{ID: id}, nil
}

func serve(t *testing.T, svc AppointmentService, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := mux.NewRouter()
	r.Use(middleware.Auth)
	r.HandleFunc("/api/v1/appointments/{appointmentId}/client-info", NewHandler(svc, logger.NewNop()).Handle).Methods(http.MethodPatch)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/appointments/a1/client-info", strings.NewReader(body))
	req.Header.Set(middleware.HeaderUserID, "frontdesk")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandleUpdateClientInfo(t *testing.T) {
	svc := &fakeService{}
	rec := serve(t, svc, `{"clientInfo":{"phone":"+63 917 123 4567"}}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.gotReq.ClientInfo.Phone)
	assert.Equal(t, "+63 917 123 4567", *svc.gotReq.ClientInfo.Phone)
	assert.Nil(t, svc.gotReq.ClientInfo.Email)
	assert.Equal(t, "frontdesk", svc.gotReq.PerformedBy)
}

func TestHandleUpdateClientInfoErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"empty patch", &domain.ValidationError{Errors: []domain.FieldIssue{{Field: domain.FieldClientInfo, Message: "at least one field is required"}}}, http.StatusBadRequest},
		{"not found", fmt.Errorf("%w: a1", appointments.ErrAppointmentNotFound), http.StatusNotFound},
		{"database down", fmt.Errorf("%w: UpdateClientInfo: %w", appointments.ErrInternal, domain.ErrStoreUnavailable), http.StatusServiceUnavailable},
		{"internal", appointments.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, &fakeService{err: tt.err}, `{"clientInfo":{}}`)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandleUpdateClientInfoRetryAfter(t *testing.T) {
	rec := serve(t, &fakeService{err: domain.ErrStoreUnavailable}, `{"clientInfo":{"name":"Maria"}}`)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}
