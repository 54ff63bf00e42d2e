package get_transitions

import (
	"net/http"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonService/internal/domain"
)

const msgInvalidStatus = "неизвестный статус записи"

type Handler struct {
	logger Logger
}

func NewHandler(logger Logger) *Handler {
	return &Handler{logger: logger}
}

// Handle GET /api/v1/appointments/transitions?from=<status>
// Без параметра from возвращает таблицу переходов целиком
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	if from == "" {
		table := make([]TransitionsResponse, 0, len(domain.AllStatuses))
		for _, s := range domain.AllStatuses {
			table = append(table, fromStatus(s))
		}
		handlers.RespondJSON(w, http.StatusOK, table)
		return
	}

	status, err := domain.ParseStatus(from)
	if err != nil {
		h.logger.Warn("GET /appointments/transitions - %v", err)
		handlers.RespondBadRequest(w, msgInvalidStatus)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, fromStatus(status))
}
