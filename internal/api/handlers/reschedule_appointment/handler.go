package reschedule_appointment

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonService/internal/api/middleware"
	"github.com/m04kA/SMC-SalonService/internal/service/appointments"
	"github.com/m04kA/SMC-SalonService/internal/service/appointments/models"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgMissingUserID       = "отсутствует ID пользователя"
	msgAppointmentNotFound = "запись не найдена"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/appointments/{appointmentId}/reschedule
// Нагрузка стилистов переносится на новую дату в той же транзакции
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	appointmentID := mux.Vars(r)["appointmentId"]

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /appointments/{id}/reschedule - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.RescheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /appointments/{id}/reschedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.PerformedBy = userID

	appointment, err := h.service.Reschedule(r.Context(), appointmentID, &req)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrAppointmentNotFound):
			h.logger.Warn("PATCH /appointments/{id}/reschedule - Appointment not found: appointment_id=%s", appointmentID)
			handlers.RespondNotFound(w, msgAppointmentNotFound)
		case handlers.RespondDomainError(w, err):
			h.logger.Warn("PATCH /appointments/{id}/reschedule - Rejected: appointment_id=%s, user_id=%s, error=%v", appointmentID, userID, err)
		default:
			h.logger.Error("PATCH /appointments/{id}/reschedule - Failed: appointment_id=%s, user_id=%s, error=%v", appointmentID, userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /appointments/{id}/reschedule - Rescheduled: appointment_id=%s, date=%s, time=%s, user_id=%s",
		appointmentID, appointment.AppointmentDate, appointment.AppointmentTime, userID)
	handlers.RespondJSON(w, http.StatusOK, appointment)
}
