package reports

import (
	"context"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Query(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error)
}

// CatalogService интерфейс сервиса каталога, нужен для цен legacy записей
type CatalogService interface {
	LoadBranchCatalog(ctx context.Context, branchID string) (*domain.BranchCatalog, error)
}

// TransactionManager интерфейс для чтения каталога и записей из одного снимка
type TransactionManager interface {
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
