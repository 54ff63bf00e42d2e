package compose_booking

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonService/internal/api/middleware"
	composeBooking "github.com/m04kA/SMC-SalonService/internal/usecase/compose_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNoCapacity         = "выбранные услуги не помещаются в оставшуюся нагрузку стилиста"
)

type Handler struct {
	useCase ComposeBookingUseCase
	clock   TimeProvider
	logger  Logger
}

func NewHandler(useCase ComposeBookingUseCase, clock TimeProvider, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		clock:   clock,
		logger:  logger,
	}
}

// Handle POST /api/v1/branches/{branchId}/bookings
// Услуги выбираются по имени стилиста, как в форме записи
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	branchID := mux.Vars(r)["branchId"]

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /branches/{id}/bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req ComposeBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /branches/{id}/bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(branchID, userID))
	if err != nil {
		switch {
		case errors.Is(err, composeBooking.ErrCapacityExceeded):
			h.logger.Warn("POST /branches/{id}/bookings - Capacity exceeded: branch_id=%s, user_id=%s", branchID, userID)
			handlers.RespondError(w, http.StatusConflict, msgNoCapacity)

		case handlers.RespondDomainError(w, err):
			h.logger.Warn("POST /branches/{id}/bookings - Rejected: branch_id=%s, user_id=%s, error=%v", branchID, userID, err)

		default:
			h.logger.Error("POST /branches/{id}/bookings - Failed to compose booking: branch_id=%s, user_id=%s, error=%v",
				branchID, userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /branches/{id}/bookings - Booking created: appointment_id=%s, branch_id=%s, total=%s",
		result.Appointment.ID, branchID, result.Total.StringFixed(2))
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result, h.clock.Now()))
}
