package appointment

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = fmt.Errorf("appointment.repository: appointment %w", domain.ErrNotFound)

	// ErrEmptyPatch возвращается при попытке обновления без изменяемых полей
	ErrEmptyPatch = errors.New("appointment.repository: nothing to update")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("appointment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = fmt.Errorf("appointment.repository: failed to execute query: %w", domain.ErrStoreUnavailable)

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("appointment.repository: failed to scan row")

	// ErrEncode возвращается при ошибке сериализации JSONB колонок
	ErrEncode = errors.New("appointment.repository: failed to encode document")
)
