package resolve_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// StaffDirectory интерфейс справочника персонала
type StaffDirectory interface {
	// ListStaffByBranch возвращает активных сотрудников филиала
	ListStaffByBranch(ctx context.Context, branchID string) ([]domain.StaffRecord, error)
}

// CatalogService интерфейс сервиса каталога
type CatalogService interface {
	LoadBranchCatalog(ctx context.Context, branchID string) (*domain.BranchCatalog, error)
	ResolveForStylist(ctx context.Context, catalog *domain.BranchCatalog, stylistID string) ([]domain.ResolvedService, error)
}

// ScheduleRepository интерфейс репозитория расписаний и журнала нагрузки
type ScheduleRepository interface {
	GetStylistSchedule(ctx context.Context, stylistID string, weekday domain.Weekday) (*domain.StylistSchedule, error)
	GetReservedWorkload(ctx context.Context, stylistID string, date time.Time) (int, error)
}

// Metrics интерфейс метрик
type Metrics interface {
	ObserveAvailability(stylists int, d time.Duration)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
