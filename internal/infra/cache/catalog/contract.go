package catalog

import (
	"context"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// DefinitionSource источник определений услуг, к которому кеш обращается при промахе
type DefinitionSource interface {
	GetServiceDefinitions(ctx context.Context, serviceIDs []string) (map[string]domain.ServiceDefinition, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
