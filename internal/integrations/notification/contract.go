package notification

import (
	"context"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// Notifier доставляет уведомление о подтвержденной записи по одному каналу
type Notifier interface {
	AppointmentConfirmed(ctx context.Context, notice domain.ConfirmationNotice) error
}

// Metrics интерфейс метрик
type Metrics interface {
	IncNotification(channel string, err error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
