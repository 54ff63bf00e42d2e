package create_appointment

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

var (
	// ErrBranchNotFound возвращается, когда филиал не найден
	ErrBranchNotFound = fmt.Errorf("create_appointment: branch %w", domain.ErrNotFound)

	// ErrStylistNotFound возвращается, когда стилист не найден в справочнике
	ErrStylistNotFound = fmt.Errorf("create_appointment: stylist %w", domain.ErrNotFound)

	// ErrServiceNotFound возвращается, когда филиал не предлагает услугу
	ErrServiceNotFound = fmt.Errorf("create_appointment: service %w", domain.ErrNotFound)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)
