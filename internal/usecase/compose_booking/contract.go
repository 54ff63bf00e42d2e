package compose_booking

import (
	"context"

	"github.com/m04kA/SMC-SalonService/internal/usecase/create_appointment"
	"github.com/m04kA/SMC-SalonService/internal/usecase/resolve_availability"
)

// AvailabilityResolver интерфейс расчета доступности стилистов
type AvailabilityResolver interface {
	Execute(ctx context.Context, req *resolve_availability.Request) (*resolve_availability.Response, error)
}

// AppointmentCreator интерфейс создания записи
type AppointmentCreator interface {
	Execute(ctx context.Context, req *create_appointment.Request) (*create_appointment.Response, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
