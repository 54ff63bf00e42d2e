package workload

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// ScheduleRepository интерфейс репозитория расписаний и журнала нагрузки
type ScheduleRepository interface {
	GetStylistSchedule(ctx context.Context, stylistID string, weekday domain.Weekday) (*domain.StylistSchedule, error)
	ReserveWorkload(ctx context.Context, stylistID string, date time.Time, units, maximum int) (int, error)
	ReleaseWorkload(ctx context.Context, stylistID string, date time.Time, units int) error
}

// Metrics интерфейс метрик
type Metrics interface {
	IncCapacityRejected()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
