package notification

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/pkg/breaker"
	"github.com/m04kA/SMC-SalonService/pkg/logger"
)

func notice() domain.ConfirmationNotice {
	return domain.ConfirmationNotice{
		AppointmentID: "A1",
		BranchID:      "B1",
		Date:          "2025-10-17",
		Time:          "14:30",
		FormattedDate: "Friday, October 17, 2025",
		FormattedTime: "2:30 PM",
		ClientID:      "C1",
		ClientName:    "Maria Santos",
		Client:        domain.ClientInfo{Name: "Maria Santos", Email: "maria@example.com", Phone: "+63 917 000 0000"},
		Stylists: []domain.StaffRecord{
			{ID: "S1", Name: "Ana", Email: "ana@salon.example"},
			{ID: "S2", Name: "Ben"},
		},
		Services: []domain.ServiceStylistPair{
			{ServiceID: "service_color", StylistID: "S2", Price: decimal.NewNullDecimal(decimal.NewFromInt(800))},
			{ServiceID: "service_haircut", StylistID: "S1", Price: decimal.NewNullDecimal(decimal.NewFromInt(300))},
		},
		Total:       decimal.NewFromInt(1100),
		Currency:    domain.CurrencyCode,
		ConfirmedBy: "manager",
		ConfirmedAt: time.Date(2025, 10, 16, 2, 0, 0, 0, time.UTC),
	}
}

type fakeMail struct {
	sent   []*mail.SGMailV3
	status int
	err    error
}

func (f *fakeMail) SendWithContext(_ context.Context, email *mail.SGMailV3) (*rest.Response, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, email)
	status := f.status
	if status == 0 {
		status = http.StatusAccepted
	}
	return &rest.Response{StatusCode: status}, nil
}

func TestEmailNotifierSendsToClientAndStylistsWithEmail(t *testing.T) {
	client := &fakeMail{}
	n := newEmailNotifier(client, EmailConfig{FromEmail: "bookings@salon.example"}, logger.NewNop())

	err := n.AppointmentConfirmed(context.Background(), notice())

	require.NoError(t, err)
	require.Len(t, client.sent, 2, "Ben has no email")
	assert.Equal(t, "maria@example.com", client.sent[0].Personalizations[0].To[0].Address)
	assert.Contains(t, client.sent[0].Subject, "Friday, October 17, 2025 at 2:30 PM")
	assert.Contains(t, client.sent[0].Content[0].Value, "service_color with Ben (800.00)")
	assert.Contains(t, client.sent[0].Content[0].Value, "Total: PHP 1100.00")
	assert.Equal(t, "ana@salon.example", client.sent[1].Personalizations[0].To[0].Address)
	assert.Contains(t, client.sent[1].Content[0].Value, "- service_haircut")
	assert.NotContains(t, client.sent[1].Content[0].Value, "service_color")
	assert.Equal(t, "Salon Bookings", client.sent[1].From.Name)
}

func TestEmailNotifierReportsRejectedStatus(t *testing.T) {
	n := newEmailNotifier(&fakeMail{status: http.StatusUnauthorized}, EmailConfig{}, logger.NewNop())

	err := n.AppointmentConfirmed(context.Background(), notice())

	assert.ErrorIs(t, err, ErrSendFailed)
}

type fakeChannel struct {
	exchange string
	key      string
	msg      amqp.Publishing
	err      error
	closed   bool
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.exchange, f.key, f.msg = exchange, key, msg
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestEventPublisherPublishesConfirmedEvent(t *testing.T) {
	ch := &fakeChannel{}
	p := newEventPublisher(ch, "salon.appointments", logger.NewNop())

	require.NoError(t, p.AppointmentConfirmed(context.Background(), notice()))

	assert.Equal(t, "salon.appointments", ch.exchange)
	assert.Equal(t, RoutingKeyConfirmed, ch.key)
	assert.Equal(t, "application/json", ch.msg.ContentType)
	assert.Equal(t, amqp.Persistent, ch.msg.DeliveryMode)

	var event Event
	require.NoError(t, json.Unmarshal(ch.msg.Body, &event))
	assert.Equal(t, "appointment.confirmed", event.EventType)
	assert.Equal(t, "A1", event.Payload.AppointmentID)
	assert.True(t, decimal.NewFromInt(1100).Equal(event.Payload.Total))

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}

func TestEventPublisherWrapsBrokerError(t *testing.T) {
	p := newEventPublisher(&fakeChannel{err: amqp.ErrClosed}, "salon.appointments", logger.NewNop())

	err := p.AppointmentConfirmed(context.Background(), notice())

	assert.ErrorIs(t, err, ErrPublishFailed)
	assert.ErrorIs(t, err, amqp.ErrClosed)
}

type notifierFunc func(ctx context.Context, n domain.ConfirmationNotice) error

func (f notifierFunc) AppointmentConfirmed(ctx context.Context, n domain.ConfirmationNotice) error {
	return f(ctx, n)
}

type recordingMetrics struct{ results map[string][]bool }

func (m *recordingMetrics) IncNotification(channel string, err error) {
	m.results[channel] = append(m.results[channel], err == nil)
}

func TestFanoutCallsEveryChannel(t *testing.T) {
	var calls []string
	failing := notifierFunc(func(context.Context, domain.ConfirmationNotice) error {
		calls = append(calls, "email")
		return errors.New("boom")
	})
	ok := notifierFunc(func(context.Context, domain.ConfirmationNotice) error {
		calls = append(calls, "events")
		return nil
	})

	err := NewFanout(failing, ok, NewLogNotifier(logger.NewNop())).AppointmentConfirmed(context.Background(), notice())

	assert.Error(t, err)
	assert.Equal(t, []string{"email", "events"}, calls)
}

func TestGuardedOpensAfterFailures(t *testing.T) {
	calls := 0
	failing := notifierFunc(func(context.Context, domain.ConfirmationNotice) error {
		calls++
		return errors.New("smtp down")
	})
	metrics := &recordingMetrics{results: map[string][]bool{}}
	g := NewGuarded("email", failing, breaker.Settings{FailureThreshold: 2, OpenTimeout: time.Minute}, metrics, logger.NewNop())

	for i := 0; i < 3; i++ {
		_ = g.AppointmentConfirmed(context.Background(), notice())
	}
	err := g.AppointmentConfirmed(context.Background(), notice())

	assert.ErrorIs(t, err, ErrChannelOpen)
	assert.Equal(t, 2, calls)
	assert.Equal(t, []bool{false, false, false, false}, metrics.results["email"])
}
