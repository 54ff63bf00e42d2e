package reports

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

var (
	// ErrBranchNotFound возвращается, когда филиал не найден
	ErrBranchNotFound = fmt.Errorf("reports: branch %w", domain.ErrNotFound)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("reports: internal error")
)
