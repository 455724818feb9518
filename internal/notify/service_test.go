package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/wolfman30/clinic-booking/internal/booking"
)

type mockEmailSender struct {
	sent   []EmailMessage
	failOn string
}

func (m *mockEmailSender) Send(ctx context.Context, msg EmailMessage) error {
	if m.failOn != "" && msg.To == m.failOn {
		return errors.New("mock email error")
	}
	m.sent = append(m.sent, msg)
	return nil
}

type mockDeduper struct {
	seen map[string]bool
	err  error
}

func (m *mockDeduper) MarkProcessed(ctx context.Context, consumer, eventID string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	if m.seen == nil {
		m.seen = map[string]bool{}
	}
	key := consumer + ":" + eventID
	if m.seen[key] {
		return false, nil
	}
	m.seen[key] = true
	return true, nil
}

func acceptedRequest() (booking.Request, booking.Result) {
	req := booking.Request{
		FullName:        "Lan Nguyen",
		Email:           "lan@example.com",
		Phone:           "+84912345678",
		Message:         "Knee pain",
		DoctorID:        "doc-an",
		DoctorName:      "Dr. An",
		ServiceID:       "svc-ortho",
		ServiceName:     "Orthopedics consult",
		PreferredDate:   "2026-10-20",
		PreferredTime:   "09:00:00",
		PreferredSlotID: "a1",
		Schedule:        "morning",
		VisitType:       booking.VisitTypeConsultation,
	}
	return req, booking.Result{Success: true, AppointmentID: "apt-1"}
}

func TestBookingAcceptedEmailsPatientAndOperators(t *testing.T) {
	email := &mockEmailSender{}
	svc := NewService(email, nil, Config{ClinicName: "Hanoi Clinic", OperatorEmails: []string{"desk@clinic.example", " "}}, nil)
	req, result := acceptedRequest()

	if err := svc.BookingAccepted(context.Background(), req, result); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(email.sent) != 2 {
		t.Fatalf("expected 2 emails, got %d", len(email.sent))
	}
	patient := email.sent[0]
	if patient.To != "lan@example.com" || patient.ToName != "Lan Nguyen" {
		t.Errorf("unexpected patient recipient %+v", patient)
	}
	if !strings.Contains(patient.Subject, "Hanoi Clinic") {
		t.Errorf("expected clinic in subject, got %q", patient.Subject)
	}
	if !strings.Contains(patient.Body, "apt-1") || !strings.Contains(patient.HTML, "Dr. An") {
		t.Errorf("expected confirmation details in bodies")
	}
	operator := email.sent[1]
	if operator.To != "desk@clinic.example" || !strings.HasPrefix(operator.Subject, "New booking: Lan Nguyen") {
		t.Errorf("unexpected operator email %+v", operator)
	}
	if patient.ReplyTo != "" || operator.ReplyTo != "lan@example.com" {
		t.Errorf("expected only the operator copy to reply to the patient, got %q and %q", patient.ReplyTo, operator.ReplyTo)
	}
}

func TestBookingAcceptedWithoutPatientEmail(t *testing.T) {
	email := &mockEmailSender{}
	svc := NewService(email, nil, Config{}, nil)
	req, result := acceptedRequest()
	req.Email = ""

	if err := svc.BookingAccepted(context.Background(), req, result); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(email.sent) != 0 {
		t.Fatalf("expected no emails, got %d", len(email.sent))
	}
}

func TestBookingAcceptedDedupes(t *testing.T) {
	email := &mockEmailSender{}
	dedupe := &mockDeduper{}
	svc := NewService(email, dedupe, Config{}, nil)
	req, result := acceptedRequest()

	for i := 0; i < 2; i++ {
		if err := svc.BookingAccepted(context.Background(), req, result); err != nil {
			t.Fatalf("attempt %d: unexpected error: %v", i, err)
		}
	}
	if len(email.sent) != 1 {
		t.Fatalf("expected a single confirmation, got %d", len(email.sent))
	}
	if !dedupe.seen[ConfirmationConsumer+":apt-1"] {
		t.Errorf("expected claim under %s", ConfirmationConsumer)
	}
}

func TestBookingAcceptedDedupeError(t *testing.T) {
	email := &mockEmailSender{}
	svc := NewService(email, &mockDeduper{err: errors.New("db down")}, Config{}, nil)
	req, result := acceptedRequest()

	if err := svc.BookingAccepted(context.Background(), req, result); err == nil {
		t.Fatal("expected error")
	}
	if len(email.sent) != 0 {
		t.Fatalf("expected no emails when the claim fails")
	}
}

func TestBookingAcceptedJoinsSendErrors(t *testing.T) {
	email := &mockEmailSender{failOn: "lan@example.com"}
	svc := NewService(email, nil, Config{OperatorEmails: []string{"desk@clinic.example"}}, nil)
	req, result := acceptedRequest()

	err := svc.BookingAccepted(context.Background(), req, result)
	if err == nil || !strings.Contains(err.Error(), "patient confirmation") {
		t.Fatalf("expected patient confirmation error, got %v", err)
	}
	if len(email.sent) != 1 || email.sent[0].To != "desk@clinic.example" {
		t.Fatalf("expected operator copy despite patient failure, got %+v", email.sent)
	}
}
