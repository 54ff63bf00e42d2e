package staffdirectory

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

var (
	// ErrStaffNotFound возвращается, когда сотрудник не найден в справочнике
	ErrStaffNotFound = fmt.Errorf("staffdirectory client: staff %w", domain.ErrNotFound)

	// ErrBranchNotFound возвращается, когда справочник не знает филиал
	ErrBranchNotFound = fmt.Errorf("staffdirectory client: branch %w", domain.ErrNotFound)

	// ErrUnavailable возвращается при недоступности справочника (сеть, 5xx, открытый breaker)
	ErrUnavailable = fmt.Errorf("staffdirectory client: %w", domain.ErrStoreUnavailable)

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("staffdirectory client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("staffdirectory client: invalid response")
)
