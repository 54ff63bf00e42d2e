package notification

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// mailClient часть sendgrid.Client, которую использует EmailNotifier
type mailClient interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// EmailConfig параметры отправителя
type EmailConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
}

// EmailNotifier отправляет письма клиенту и стилистам через SendGrid
type EmailNotifier struct {
	client    mailClient
	fromEmail string
	fromName  string
	logger    Logger
}

// NewEmailNotifier создает notifier поверх SendGrid API
func NewEmailNotifier(cfg EmailConfig, logger Logger) *EmailNotifier {
	return newEmailNotifier(sendgrid.NewSendClient(cfg.APIKey), cfg, logger)
}

func newEmailNotifier(client mailClient, cfg EmailConfig, logger Logger) *EmailNotifier {
	if cfg.FromName == "" {
		cfg.FromName = "Salon Bookings"
	}
	return &EmailNotifier{
		client:    client,
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
		logger:    logger,
	}
}

// AppointmentConfirmed отправляет письмо клиенту и каждому стилисту с email.
// Получатели без адреса пропускаются
func (n *EmailNotifier) AppointmentConfirmed(ctx context.Context, notice domain.ConfirmationNotice) error {
	var errs []error

	if notice.Client.Email != "" {
		subject := fmt.Sprintf("Your appointment on %s at %s is confirmed", notice.FormattedDate, notice.FormattedTime)
		if err := n.send(ctx, notice.ClientName, notice.Client.Email, subject, clientBody(notice)); err != nil {
			errs = append(errs, err)
		}
	}

	for _, stylist := range notice.Stylists {
		if stylist.Email == "" {
			continue
		}
		subject := fmt.Sprintf("Confirmed: %s on %s at %s", notice.ClientName, notice.FormattedDate, notice.FormattedTime)
		if err := n.send(ctx, stylist.Name, stylist.Email, subject, stylistBody(notice, stylist.ID)); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (n *EmailNotifier) send(ctx context.Context, toName, toEmail, subject, body string) error {
	from := mail.NewEmail(n.fromName, n.fromEmail)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, body, "")

	response, err := n.client.SendWithContext(ctx, message)
	if err != nil {
		n.logger.Error("EmailNotifier: send to %s failed: %v", toEmail, err)
		return fmt.Errorf("%w: %s: %w", ErrSendFailed, toEmail, err)
	}
	if response.StatusCode >= 400 {
		n.logger.Error("EmailNotifier: sendgrid returned status=%d for %s: %s", response.StatusCode, toEmail, response.Body)
		return fmt.Errorf("%w: %s: status %d", ErrSendFailed, toEmail, response.StatusCode)
	}

	n.logger.Info("EmailNotifier: sent %q to %s (status=%d)", subject, toEmail, response.StatusCode)
	return nil
}

func clientBody(notice domain.ConfirmationNotice) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", notice.ClientName)
	fmt.Fprintf(&b, "Your appointment on %s at %s is confirmed.\n\n", notice.FormattedDate, notice.FormattedTime)
	for _, p := range notice.Services {
		fmt.Fprintf(&b, "- %s with %s%s\n", p.ServiceID, stylistName(notice, p.StylistID), priceSuffix(p))
	}
	fmt.Fprintf(&b, "\nTotal: %s %s\n", notice.Currency, notice.Total.StringFixed(2))
	return b.String()
}

func stylistBody(notice domain.ConfirmationNotice, stylistID string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s is confirmed for %s at %s.\n\n", notice.ClientName, notice.FormattedDate, notice.FormattedTime)
	for _, p := range notice.Services {
		if p.StylistID == stylistID {
			fmt.Fprintf(&b, "- %s\n", p.ServiceID)
		}
	}
	if notice.Client.Phone != "" {
		fmt.Fprintf(&b, "\nClient phone: %s\n", notice.Client.Phone)
	}
	return b.String()
}

func stylistName(notice domain.ConfirmationNotice, stylistID string) string {
	for _, s := range notice.Stylists {
		if s.ID == stylistID && s.Name != "" {
			return s.Name
		}
	}
	return stylistID
}

func priceSuffix(p domain.ServiceStylistPair) string {
	if !p.Price.Valid {
		return ""
	}
	return " (" + p.Price.Decimal.StringFixed(2) + ")"
}
