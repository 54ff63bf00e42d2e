package create_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, appointment *domain.Appointment) error
}

// CatalogService интерфейс сервиса каталога
type CatalogService interface {
	LoadBranchCatalog(ctx context.Context, branchID string) (*domain.BranchCatalog, error)
	ResolveForStylist(ctx context.Context, catalog *domain.BranchCatalog, stylistID string) ([]domain.ResolvedService, error)
}

// StaffDirectory интерфейс справочника персонала
type StaffDirectory interface {
	GetStaff(ctx context.Context, stylistID string) (*domain.StaffRecord, error)
}

// WorkloadService интерфейс резервирования нагрузки стилистов
type WorkloadService interface {
	Reserve(ctx context.Context, date time.Time, units map[string]int) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics интерфейс метрик
type Metrics interface {
	IncAppointmentCreated(branchID string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production.
// Время возвращается в часовом поясе салона
type RealTimeProvider struct {
	Location *time.Location
}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	if p.Location == nil {
		return time.Now()
	}
	return time.Now().In(p.Location)
}
