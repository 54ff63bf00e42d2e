package get_client_appointments

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
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

// Handle GET /api/v1/clients/{clientId}/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	clientID := mux.Vars(r)["clientId"]

	result, err := h.service.ListByClient(r.Context(), clientID)
	if err != nil {
		if handlers.RespondDomainError(w, err) {
			h.logger.Warn("GET /clients/{id}/appointments - Rejected: client_id=%s, error=%v", clientID, err)
			return
		}
		h.logger.Error("GET /clients/{id}/appointments - Failed to list appointments: client_id=%s, error=%v", clientID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /clients/{id}/appointments - client_id=%s, count=%d", clientID, len(result.Appointments))
	handlers.RespondJSON(w, http.StatusOK, result)
}
