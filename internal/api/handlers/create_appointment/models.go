package create_appointment

import (
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/service/appointments/models"
	createAppointment "github.com/m04kA/SMC-SalonService/internal/usecase/create_appointment"
)

// CreateAppointmentResponse созданная запись вместе с предупреждениями валидации
type CreateAppointmentResponse struct {
	*models.AppointmentResponse
	Warnings []domain.FieldIssue `json:"warnings"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response, now time.Time) *CreateAppointmentResponse {
	warnings := resp.Warnings
	if warnings == nil {
		warnings = []domain.FieldIssue{}
	}
	return &CreateAppointmentResponse{
		AppointmentResponse: models.FromDomainAppointment(resp.Appointment, now),
		Warnings:            warnings,
	}
}
