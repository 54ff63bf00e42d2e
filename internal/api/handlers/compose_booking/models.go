package compose_booking

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SalonService/internal/composer"
	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/service/appointments/models"
	composeBooking "github.com/m04kA/SMC-SalonService/internal/usecase/compose_booking"
)

// ComposeBookingRequest HTTP request model
type ComposeBookingRequest struct {
	AppointmentDate string                     `json:"appointmentDate"` // "2025-10-17"
	AppointmentTime string                     `json:"appointmentTime"` // "14:30"
	Selections      []composeBooking.Selection `json:"selections"`
	ClientID        string                     `json:"clientId,omitempty"`
	IsNewClient     bool                       `json:"isNewClient,omitempty"`
	NewClientName   string                     `json:"newClientName,omitempty"`
	ClientInfo      domain.ClientInfo          `json:"clientInfo"`
	Notes           string                     `json:"notes,omitempty"`
}

// ComposeBookingResponse созданная запись, сумма и предупреждения
type ComposeBookingResponse struct {
	Appointment *models.AppointmentResponse `json:"appointment"`
	Total       decimal.Decimal             `json:"total"`
	Currency    string                      `json:"currency"`
	Warnings    []domain.FieldIssue         `json:"warnings"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *ComposeBookingRequest) ToUseCaseRequest(branchID, createdBy string) *composeBooking.Request {
	return &composeBooking.Request{
		BranchID:        branchID,
		AppointmentDate: r.AppointmentDate,
		Selections:      r.Selections,
		Client: composer.Input{
			AppointmentTime: r.AppointmentTime,
			ClientID:        r.ClientID,
			IsNewClient:     r.IsNewClient,
			NewClientName:   r.NewClientName,
			ClientInfo:      r.ClientInfo,
			Notes:           r.Notes,
		},
		CreatedBy: createdBy,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *composeBooking.Response, now time.Time) *ComposeBookingResponse {
	warnings := resp.Warnings
	if warnings == nil {
		warnings = []domain.FieldIssue{}
	}
	return &ComposeBookingResponse{
		Appointment: models.FromDomainAppointment(resp.Appointment, now),
		Total:       resp.Total,
		Currency:    domain.CurrencyCode,
		Warnings:    warnings,
	}
}
