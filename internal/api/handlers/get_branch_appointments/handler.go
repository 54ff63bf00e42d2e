package get_branch_appointments

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
)

const msgInvalidParams = "некорректные параметры запроса"

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

// Handle GET /api/v1/branches/{branchId}/appointments
// Query params: status, stylistId, dateFrom, dateTo (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	branchID := mux.Vars(r)["branchId"]

	serviceReq, err := ToServiceRequest(branchID, r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /branches/{id}/appointments - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.ListByBranch(r.Context(), serviceReq)
	if err != nil {
		if handlers.RespondDomainError(w, err) {
			h.logger.Warn("GET /branches/{id}/appointments - Rejected: branch_id=%s, error=%v", branchID, err)
			return
		}
		h.logger.Error("GET /branches/{id}/appointments - Failed to list appointments: branch_id=%s, error=%v", branchID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /branches/{id}/appointments - branch_id=%s, count=%d", branchID, len(result.Appointments))
	handlers.RespondJSON(w, http.StatusOK, result)
}
