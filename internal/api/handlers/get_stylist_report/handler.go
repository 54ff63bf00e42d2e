package get_stylist_report

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

// Handle GET /api/v1/branches/{branchId}/reports/stylists
// Query params: dateFrom, dateTo (опционально, включительно)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	branchID := mux.Vars(r)["branchId"]

	period, err := ToPeriod(r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /branches/{id}/reports/stylists - Invalid period: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPeriod)
		return
	}

	report, err := h.service.Stylists(r.Context(), branchID, period)
	if err != nil {
		switch {
		case errors.Is(err, reports.ErrBranchNotFound):
			h.logger.Warn("GET /branches/{id}/reports/stylists - Branch not found: branch_id=%s", branchID)
			handlers.RespondNotFound(w, msgBranchNotFound)
		case handlers.RespondDomainError(w, err):
			h.logger.Warn("GET /branches/{id}/reports/stylists - Rejected: branch_id=%s, error=%v", branchID, err)
		default:
			h.logger.Error("GET /branches/{id}/reports/stylists - Failed to build report: branch_id=%s, error=%v", branchID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /branches/{id}/reports/stylists - branch_id=%s, stylists=%d", branchID, len(report.Stylists))
	handlers.RespondJSON(w, http.StatusOK, report)
}
