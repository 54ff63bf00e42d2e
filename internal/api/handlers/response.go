package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

const (
	msgInternalError    = "внутренняя ошибка сервера"
	msgRecordNotFound   = "record not found"
	msgStoreUnavailable = "сервис временно недоступен, повторите запрос позже"
	msgValidationFailed = "ошибка валидации"
	msgConflict         = "операция недопустима в текущем состоянии записи"
	msgNoCapacity       = "у стилиста не осталось нагрузки на выбранный день"
	msgNoSelection      = "не выбрано ни одной услуги"
)

// maxBodyBytes ограничение размера тела запроса
const maxBodyBytes = 1 << 20

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Error   string              `json:"error"`
	Details []domain.FieldIssue `json:"details,omitempty"`
}

// DecodeJSON читает JSON тело запроса в dst. Неизвестные поля отклоняются
func DecodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return errors.New("empty request body")
	}
	decoder := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

// RespondJSON отправляет JSON ответ
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// RespondError отправляет ошибку с произвольным статусом
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorResponse{Error: message})
}

func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

func RespondUnauthorized(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusUnauthorized, message)
}

func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, message)
}

func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, msgInternalError)
}

// RespondValidation отправляет 400 со списком ошибок по полям
func RespondValidation(w http.ResponseWriter, issues []domain.FieldIssue) {
	RespondJSON(w, http.StatusBadRequest, ErrorResponse{Error: msgValidationFailed, Details: issues})
}

// RespondDomainError отправляет ответ по таксономии доменных ошибок.
// Возвращает false, если ошибка не доменная и вызывающий должен ответить сам
func RespondDomainError(w http.ResponseWriter, err error) bool {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		RespondValidation(w, verr.Errors)
	case errors.Is(err, domain.ErrIncompleteSelection):
		RespondBadRequest(w, msgNoSelection)
	case errors.Is(err, domain.ErrNotFound):
		RespondNotFound(w, msgRecordNotFound)
	case errors.Is(err, domain.ErrIllegalTransition), errors.Is(err, domain.ErrCannotReschedule):
		RespondError(w, http.StatusConflict, msgConflict)
	case errors.Is(err, domain.ErrCapacityExceeded):
		RespondError(w, http.StatusConflict, msgNoCapacity)
	case domain.IsRetryable(err):
		w.Header().Set("Retry-After", "1")
		RespondError(w, http.StatusServiceUnavailable, msgStoreUnavailable)
	default:
		return false
	}
	return true
}
