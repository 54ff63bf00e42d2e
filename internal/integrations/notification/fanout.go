package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/sony/gobreaker/v2"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/pkg/breaker"
)

// Fanout вызывает все каналы и собирает их ошибки. Сбой одного канала не мешает остальным
type Fanout struct {
	notifiers []Notifier
}

// NewFanout объединяет каналы
func NewFanout(notifiers ...Notifier) *Fanout {
	return &Fanout{notifiers: notifiers}
}

// AppointmentConfirmed рассылает уведомление по всем каналам
func (f *Fanout) AppointmentConfirmed(ctx context.Context, notice domain.ConfirmationNotice) error {
	var errs []error
	for _, n := range f.notifiers {
		if err := n.AppointmentConfirmed(ctx, notice); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Guarded оборачивает канал в circuit breaker и считает метрики доставки
type Guarded struct {
	channel string
	next    Notifier
	cb      *gobreaker.CircuitBreaker[any]
	metrics Metrics
	logger  Logger
}

// NewGuarded создает защищенный канал с именем channel
func NewGuarded(channel string, next Notifier, settings breaker.Settings, metrics Metrics, logger Logger) *Guarded {
	return &Guarded{
		channel: channel,
		next:    next,
		cb:      breaker.New("notification."+channel, settings, logger, nil),
		metrics: metrics,
		logger:  logger,
	}
}

// AppointmentConfirmed передает уведомление дальше, если breaker замкнут
func (g *Guarded) AppointmentConfirmed(ctx context.Context, notice domain.ConfirmationNotice) error {
	_, err := g.cb.Execute(func() (any, error) {
		return nil, g.next.AppointmentConfirmed(ctx, notice)
	})
	if breaker.IsOpen(err) {
		g.logger.Warn("Guarded: channel %s is open, appointment id=%s skipped", g.channel, notice.AppointmentID)
		err = fmt.Errorf("%w: %s", ErrChannelOpen, g.channel)
	}
	g.metrics.IncNotification(g.channel, err)
	return err
}

// LogNotifier пишет уведомление в лог. Используется, когда внешние каналы выключены
type LogNotifier struct {
	logger Logger
}

// NewLogNotifier создает notifier, который только логирует
func NewLogNotifier(logger Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// AppointmentConfirmed логирует уведомление
func (n *LogNotifier) AppointmentConfirmed(_ context.Context, notice domain.ConfirmationNotice) error {
	n.logger.Info("LogNotifier: appointment id=%s confirmed for %s on %s at %s with %d stylists, total %s %s",
		notice.AppointmentID, notice.ClientName, notice.FormattedDate, notice.FormattedTime,
		len(notice.Stylists), notice.Currency, notice.Total.StringFixed(2))
	return nil
}
