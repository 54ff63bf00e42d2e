package appointments

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Appointment, error)
	Query(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error)
	Update(ctx context.Context, id string, patch domain.AppointmentPatch) error
	AppendHistory(ctx context.Context, appointmentID string, entries ...domain.HistoryEntry) error
}

// WorkloadService интерфейс журнала нагрузки стилистов
type WorkloadService interface {
	Release(ctx context.Context, date time.Time, units map[string]int) error
	Move(ctx context.Context, from, to time.Time, units map[string]int) error
}

// StaffDirectory интерфейс справочника персонала
type StaffDirectory interface {
	GetStaff(ctx context.Context, stylistID string) (*domain.StaffRecord, error)
}

// Notifier получает уведомление о подтвержденной записи
type Notifier interface {
	AppointmentConfirmed(ctx context.Context, notice domain.ConfirmationNotice) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics интерфейс метрик
type Metrics interface {
	IncStatusTransition(status string)
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
