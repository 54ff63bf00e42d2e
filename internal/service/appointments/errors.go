package appointments

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = fmt.Errorf("appointments: appointment %w", domain.ErrNotFound)

	// ErrCannotReschedule возвращается, когда запись уже нельзя перенести
	ErrCannotReschedule = fmt.Errorf("appointments: %w", domain.ErrCannotReschedule)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("appointments: internal error")
)
