package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wolfman30/clinic-booking/internal/booking"
	"github.com/wolfman30/clinic-booking/pkg/logging"
)

// ConfirmationConsumer is the processed-events consumer name for confirmation emails.
const ConfirmationConsumer = "confirmation-email"

// Deduper claims an event for a consumer. MarkProcessed returns false when it was already claimed.
type Deduper interface {
	MarkProcessed(ctx context.Context, consumer, eventID string) (bool, error)
}

// Config controls who receives booking confirmations.
type Config struct {
	ClinicName string
	// OperatorEmails receive a copy of every accepted booking.
	OperatorEmails []string
}

// Service emails the patient and the clinic operators when a booking is accepted.
type Service struct {
	email  EmailSender
	dedupe Deduper
	cfg    Config
	logger *logging.Logger
}

// NewService creates a notification service. dedupe may be nil.
func NewService(email EmailSender, dedupe Deduper, cfg Config, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	if email == nil {
		email = NewStubEmailSender(logger)
	}
	var operators []string
	for _, addr := range cfg.OperatorEmails {
		if addr = strings.TrimSpace(addr); addr != "" {
			operators = append(operators, addr)
		}
	}
	cfg.OperatorEmails = operators
	return &Service{email: email, dedupe: dedupe, cfg: cfg, logger: logger}
}

// BookingAccepted sends the confirmation emails for an accepted booking.
func (s *Service) BookingAccepted(ctx context.Context, req booking.Request, result booking.Result) error {
	if s.dedupe != nil && result.AppointmentID != "" {
		claimed, err := s.dedupe.MarkProcessed(ctx, ConfirmationConsumer, result.AppointmentID)
		if err != nil {
			return fmt.Errorf("notify: claim confirmation: %w", err)
		}
		if !claimed {
			s.logger.Debug("notify: confirmation already sent", "appointment_id", result.AppointmentID)
			return nil
		}
	}

	var errs []error
	if to := strings.TrimSpace(req.Email); to != "" {
		msg := EmailMessage{
			To:      to,
			ToName:  req.FullName,
			Subject: booking.ConfirmationSubject(s.cfg.ClinicName, req),
			Body:    booking.FormatConfirmation(s.cfg.ClinicName, req, result),
			HTML:    booking.FormatConfirmationHTML(s.cfg.ClinicName, req, result),
		}
		if err := s.email.Send(ctx, msg); err != nil {
			errs = append(errs, fmt.Errorf("notify: patient confirmation: %w", err))
		}
	} else {
		s.logger.Debug("notify: no patient email, skipping confirmation", "appointment_id", result.AppointmentID)
	}

	if len(s.cfg.OperatorEmails) > 0 {
		msg := EmailMessage{
			ReplyTo: strings.TrimSpace(req.Email),
			Subject: operatorSubject(req),
			Body:    booking.FormatConfirmation(s.cfg.ClinicName, req, result),
			HTML:    booking.FormatConfirmationHTML(s.cfg.ClinicName, req, result),
		}
		for _, to := range s.cfg.OperatorEmails {
			msg.To = to
			if err := s.email.Send(ctx, msg); err != nil {
				errs = append(errs, fmt.Errorf("notify: operator copy to %s: %w", to, err))
			}
		}
	}

	return errors.Join(errs...)
}

func operatorSubject(req booking.Request) string {
	who := strings.TrimSpace(req.FullName)
	if who == "" {
		who = "A patient"
	}
	return fmt.Sprintf("New booking: %s on %s %s", who, req.PreferredDate, req.PreferredTime)
}

var _ booking.Listener = (*Service)(nil)
