// Package notify sends booking confirmations to patients and clinic staff.
package notify

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/wolfman30/clinic-booking/pkg/logging"
)

const defaultFromName = "Clinic Bookings"

// EmailSender delivers one message.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// EmailMessage is a single-recipient email. HTML is optional; ReplyTo is left unset for patient mail.
type EmailMessage struct {
	To      string
	ToName  string
	ReplyTo string
	Subject string
	Body    string
	HTML    string
}

// identity is the From line shared by the providers.
type identity struct {
	email string
	name  string
}

func newIdentity(email, name string) identity {
	if strings.TrimSpace(name) == "" {
		name = defaultFromName
	}
	return identity{email: strings.TrimSpace(email), name: name}
}

func (id identity) String() string {
	return (&mail.Address{Name: id.name, Address: id.email}).String()
}

type sendgridClient interface {
	SendWithContext(ctx context.Context, email *sgmail.SGMailV3) (*rest.Response, error)
}

// SendGridSender sends through the SendGrid v3 API.
type SendGridSender struct {
	client sendgridClient
	from   identity
	logger *logging.Logger
}

type SendGridConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
}

// NewSendGridSender returns nil when no API key is set.
func NewSendGridSender(cfg SendGridConfig, logger *logging.Logger) *SendGridSender {
	if cfg.APIKey == "" {
		return nil
	}
	return newSendGridSender(sendgrid.NewSendClient(cfg.APIKey), cfg, logger)
}

func newSendGridSender(client sendgridClient, cfg SendGridConfig, logger *logging.Logger) *SendGridSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &SendGridSender{client: client, from: newIdentity(cfg.FromEmail, cfg.FromName), logger: logger}
}

func (s *SendGridSender) Send(ctx context.Context, msg EmailMessage) error {
	html := msg.HTML
	if html == "" {
		html = msg.Body
	}
	m := sgmail.NewSingleEmail(
		sgmail.NewEmail(s.from.name, s.from.email),
		msg.Subject,
		sgmail.NewEmail(msg.ToName, msg.To),
		msg.Body,
		html,
	)
	if msg.ReplyTo != "" {
		m.SetReplyTo(sgmail.NewEmail("", msg.ReplyTo))
	}

	resp, err := s.client.SendWithContext(ctx, m)
	if err != nil {
		return fmt.Errorf("notify: sendgrid: %w", err)
	}
	if resp.StatusCode >= 400 {
		s.logger.Warn("sendgrid rejected message", "status", resp.StatusCode, "body", resp.Body, "to", logging.MaskEmail(msg.To))
		return fmt.Errorf("notify: sendgrid status %d", resp.StatusCode)
	}
	s.logger.Info("email sent", "provider", "sendgrid", "to", logging.MaskEmail(msg.To), "status", resp.StatusCode)
	return nil
}

// StubEmailSender only logs. It is the default when no provider is configured.
type StubEmailSender struct {
	logger *logging.Logger
}

func NewStubEmailSender(logger *logging.Logger) *StubEmailSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &StubEmailSender{logger: logger}
}

func (s *StubEmailSender) Send(_ context.Context, msg EmailMessage) error {
	s.logger.Info("email not sent, stub provider", "to", logging.MaskEmail(msg.To), "subject", msg.Subject)
	return nil
}

// SenderConfig selects and configures an email provider.
type SenderConfig struct {
	Provider  string // sendgrid, ses or stub
	APIKey    string
	FromEmail string
	FromName  string
}

// NewSender returns the configured provider. A provider that cannot be built falls back to the stub.
func NewSender(cfg SenderConfig, ses SESClient, logger *logging.Logger) EmailSender {
	if logger == nil {
		logger = logging.Default()
	}
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	var sender EmailSender
	switch provider {
	case "sendgrid":
		if s := NewSendGridSender(SendGridConfig{APIKey: cfg.APIKey, FromEmail: cfg.FromEmail, FromName: cfg.FromName}, logger); s != nil {
			sender = s
		}
	case "ses":
		if s := NewSESSender(ses, SESConfig{FromEmail: cfg.FromEmail, FromName: cfg.FromName}, logger); s != nil {
			sender = s
		}
	case "", "stub":
		return NewStubEmailSender(logger)
	}
	if sender == nil {
		logger.Warn("email provider unavailable, falling back to stub", "provider", provider)
		return NewStubEmailSender(logger)
	}
	return sender
}

var (
	_ EmailSender = (*SendGridSender)(nil)
	_ EmailSender = (*StubEmailSender)(nil)
)
