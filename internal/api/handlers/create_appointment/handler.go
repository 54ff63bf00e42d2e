package create_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonService/internal/api/middleware"
	"github.com/m04kA/SMC-SalonService/internal/domain"
	createAppointment "github.com/m04kA/SMC-SalonService/internal/usecase/create_appointment"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgBranchNotFound     = "филиал не найден"
	msgStylistNotFound    = "стилист не найден"
	msgServiceNotFound    = "услуга не найдена в филиале"
)

type Handler struct {
	useCase CreateAppointmentUseCase
	clock   TimeProvider
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, clock TimeProvider, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		clock:   clock,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
// Тело запроса принимается в парном или старом формате
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /appointments - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var data domain.AppointmentData
	if err := handlers.DecodeJSON(r, &data); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &createAppointment.Request{Data: data, CreatedBy: userID})
	if err != nil {
		switch {
		case errors.Is(err, createAppointment.ErrBranchNotFound):
			h.logger.Warn("POST /appointments - Branch not found: branch_id=%s", data.BranchID)
			handlers.RespondNotFound(w, msgBranchNotFound)

		case errors.Is(err, createAppointment.ErrStylistNotFound):
			h.logger.Warn("POST /appointments - Stylist not found: branch_id=%s", data.BranchID)
			handlers.RespondNotFound(w, msgStylistNotFound)

		case errors.Is(err, createAppointment.ErrServiceNotFound):
			h.logger.Warn("POST /appointments - Service not found: branch_id=%s", data.BranchID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case handlers.RespondDomainError(w, err):
			h.logger.Warn("POST /appointments - Rejected: branch_id=%s, user_id=%s, error=%v", data.BranchID, userID, err)

		default:
			h.logger.Error("POST /appointments - Failed to create appointment: branch_id=%s, user_id=%s, error=%v",
				data.BranchID, userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments - Appointment created successfully: appointment_id=%s, branch_id=%s, user_id=%s",
		result.Appointment.ID, result.Appointment.BranchID, userID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result, h.clock.Now()))
}
