package catalog

import (
	"context"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// CatalogRepository интерфейс репозитория каталога
type CatalogRepository interface {
	GetBranch(ctx context.Context, branchID string) (*domain.Branch, error)
	ListBranchServiceOfferings(ctx context.Context, branchID string) ([]domain.BranchServiceOffering, error)
	ListStylistCertifications(ctx context.Context, stylistID string) ([]domain.StylistServiceCertification, error)
}

// DefinitionSource источник определений услуг (репозиторий или кеш поверх него)
type DefinitionSource interface {
	GetServiceDefinitions(ctx context.Context, serviceIDs []string) (map[string]domain.ServiceDefinition, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
