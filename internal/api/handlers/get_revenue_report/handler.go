package get_revenue_report

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonService/internal/service/reports"
)

const (
	msgInvalidPeriod  = "некорректный период, ожидается YYYY-MM-DD"
	msgBranchNotFound = "филиал не найден"
)

type Handler struct {
	service ReportService
	logger  Logger
}

func NewHandler(service ReportService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/branches/{branchId}/reports/revenue
// Query params: dateFrom, dateTo (опционально, включительно)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	branchID := mux.Vars(r)["branchId"]

	period, err := ToPeriod(r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /branches/{id}/reports/revenue - Invalid period: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPeriod)
		return
	}

	report, err := h.service.Revenue(r.Context(), branchID, period)
	if err != nil {
		switch {
		case errors.Is(err, reports.ErrBranchNotFound):
			h.logger.Warn("GET /branches/{id}/reports/revenue - Branch not found: branch_id=%s", branchID)
			handlers.RespondNotFound(w, msgBranchNotFound)
		case handlers.RespondDomainError(w, err):
			h.logger.Warn("GET /branches/{id}/reports/revenue - Rejected: branch_id=%s, error=%v", branchID, err)
		default:
			h.logger.Error("GET /branches/{id}/reports/revenue - Failed to build report: branch_id=%s, error=%v", branchID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, report)
}
