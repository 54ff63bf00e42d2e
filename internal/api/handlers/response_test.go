package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

func TestRespondDomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		handled    bool
	}{
		{"validation", &domain.ValidationError{Errors: []domain.FieldIssue{{Field: "branchId", Message: "required"}}}, http.StatusBadRequest, true},
		{"incomplete selection", fmt.Errorf("compose: %w", domain.ErrIncompleteSelection), http.StatusBadRequest, true},
		{"not found", fmt.Errorf("appointment a1: %w", domain.ErrNotFound), http.StatusNotFound, true},
		{"illegal transition", &domain.IllegalTransitionError{From: domain.StatusCompleted, To: domain.StatusScheduled}, http.StatusConflict, true},
		{"cannot reschedule", domain.ErrCannotReschedule, http.StatusConflict, true},
		{"capacity", fmt.Errorf("ledger: %w", domain.ErrCapacityExceeded), http.StatusConflict, true},
		{"store unavailable", fmt.Errorf("repo: %w", domain.ErrStoreUnavailable), http.StatusServiceUnavailable, true},
		{"unknown", errors.New("boom"), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handled := RespondDomainError(rec, tt.err)
			assert.Equal(t, tt.handled, handled)
			if tt.handled {
				assert.Equal(t, tt.wantStatus, rec.Code)
			}
		})
	}
}

func TestRespondDomainErrorCarriesFieldDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondDomainError(rec, &domain.ValidationError{Errors: []domain.FieldIssue{{Field: "appointmentDate", Message: "must be in the future"}}})

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body.Details, 1)
	assert.Equal(t, "appointmentDate", body.Details[0].Field)
}

func TestRetryAfterOnStoreUnavailable(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondDomainError(rec, domain.ErrStoreUnavailable)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}

func TestDecodeJSONRejectsUnknownFields(t *testing.T) {
	var dst struct {
		Status string `json:"status"`
	}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"status":"confirmed","extra":1}`))
	assert.Error(t, DecodeJSON(req, &dst))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"status":"confirmed"}`))
	require.NoError(t, DecodeJSON(req, &dst))
	assert.Equal(t, "confirmed", dst.Status)
}
