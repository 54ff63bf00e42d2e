package compose_booking

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

var (
	// ErrCapacityExceeded возвращается, когда выбранные услуги не помещаются в оставшуюся нагрузку стилиста
	ErrCapacityExceeded = fmt.Errorf("compose_booking: %w", domain.ErrCapacityExceeded)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("compose_booking: internal error")
)
