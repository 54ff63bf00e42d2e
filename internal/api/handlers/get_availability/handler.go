package get_availability

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonService/internal/domain"
	resolveAvailability "github.com/m04kA/SMC-SalonService/internal/usecase/resolve_availability"
)

const (
	msgInvalidDate    = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgBranchNotFound = "филиал не найден"
)

type Handler struct {
	useCase ResolveAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase ResolveAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/branches/{branchId}/availability?date=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	branchID := mux.Vars(r)["branchId"]

	date, err := time.Parse(domain.DateFormat, r.URL.Query().Get("date"))
	if err != nil {
		h.logger.Warn("GET /branches/{id}/availability - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &resolveAvailability.Request{BranchID: branchID, Date: date})
	if err != nil {
		switch {
		case errors.Is(err, resolveAvailability.ErrBranchNotFound):
			h.logger.Warn("GET /branches/{id}/availability - Branch not found: branch_id=%s", branchID)
			handlers.RespondNotFound(w, msgBranchNotFound)
		case handlers.RespondDomainError(w, err):
			h.logger.Warn("GET /branches/{id}/availability - Rejected: branch_id=%s, error=%v", branchID, err)
		default:
			h.logger.Error("GET /branches/{id}/availability - Failed: branch_id=%s, error=%v", branchID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /branches/{id}/availability - branch_id=%s, date=%s, stylists=%d",
		branchID, result.Date.Format(domain.DateFormat), len(result.Stylists))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
