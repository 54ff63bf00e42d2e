package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// RoutingKeyConfirmed ключ маршрутизации события подтверждения записи
const RoutingKeyConfirmed = "appointment.confirmed"

// publishChannel часть amqp.Channel, которую использует EventPublisher
type publishChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Event конверт события в брокере
type Event struct {
	EventType  string                    `json:"eventType"`
	OccurredAt time.Time                 `json:"occurredAt"`
	Payload    domain.ConfirmationNotice `json:"payload"`
}

// EventPublisher публикует события записей в topic exchange RabbitMQ
type EventPublisher struct {
	conn     *amqp.Connection
	channel  publishChannel
	exchange string
	logger   Logger
	mu       sync.Mutex
}

// NewEventPublisher подключается к брокеру и объявляет durable topic exchange
func NewEventPublisher(url, exchange string, logger Logger) (*EventPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("%w: connect: %w", ErrPublishFailed, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%w: open channel: %w", ErrPublishFailed, err)
	}

	err = ch.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("%w: declare exchange %s: %w", ErrPublishFailed, exchange, err)
	}

	logger.Info("EventPublisher: connected, exchange=%s", exchange)

	p := newEventPublisher(ch, exchange, logger)
	p.conn = conn
	return p, nil
}

func newEventPublisher(ch publishChannel, exchange string, logger Logger) *EventPublisher {
	return &EventPublisher{
		channel:  ch,
		exchange: exchange,
		logger:   logger,
	}
}

// AppointmentConfirmed публикует событие appointment.confirmed
func (p *EventPublisher) AppointmentConfirmed(ctx context.Context, notice domain.ConfirmationNotice) error {
	body, err := json.Marshal(Event{
		EventType:  RoutingKeyConfirmed,
		OccurredAt: notice.ConfirmedAt,
		Payload:    notice,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(ctx,
		p.exchange,          // exchange
		RoutingKeyConfirmed, // routing key
		false,               // mandatory
		false,               // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    notice.AppointmentID + ":" + RoutingKeyConfirmed,
			Timestamp:    notice.ConfirmedAt,
			Body:         body,
		},
	)
	if err != nil {
		p.logger.Error("EventPublisher: publish %s for appointment id=%s failed: %v", RoutingKeyConfirmed, notice.AppointmentID, err)
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}

	p.logger.Info("EventPublisher: published %s for appointment id=%s (%d bytes)", RoutingKeyConfirmed, notice.AppointmentID, len(body))
	return nil
}

// Close закрывает канал и соединение
func (p *EventPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			p.logger.Warn("EventPublisher: error closing channel: %v", err)
		}
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
