package validate_appointment

import (
	"net/http"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonService/internal/domain"
)

const msgInvalidRequestBody = "некорректное тело запроса"

// Handler проверяет документ записи без сохранения
type Handler struct {
	clock  TimeProvider
	logger Logger
}

func NewHandler(clock TimeProvider, logger Logger) *Handler {
	return &Handler{
		clock:  clock,
		logger: logger,
	}
}

// Handle POST /api/v1/appointments/validate
// Всегда отвечает 200 с {isValid, errors, warnings}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var data domain.AppointmentData
	if err := handlers.DecodeJSON(r, &data); err != nil {
		h.logger.Warn("POST /appointments/validate - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	_, result := domain.Prepare(data, h.clock.Now())

	h.logger.Info("POST /appointments/validate - valid=%t, errors=%d, warnings=%d",
		result.IsValid, len(result.Errors), len(result.Warnings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
