package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wolfman30/clinic-booking/internal/booking"
	"github.com/wolfman30/clinic-booking/internal/events"
	"github.com/wolfman30/clinic-booking/internal/slots"
	"github.com/wolfman30/clinic-booking/pkg/logging"
)

var bookingsTracer = otel.Tracer("clinicbooking.internal.bookings")

// MaxAlternatives caps the slots suggested after a rejection.
const MaxAlternatives = 3

const (
	msgIncomplete    = "Please complete all required fields."
	msgSlotMissing   = "Selected slot does not exist"
	msgSlotMismatch  = "Selected slot does not belong to the selected doctor"
	msgSlotFull      = "Selected slot is fully booked"
	msgSlotInactive  = "Selected slot is no longer available"
	msgBooked        = "Appointment booked successfully"
	backendLabel     = "postgres"
	appointmentState = "pending"
)

// Service accepts bookings. Each acceptance locks the slot row, checks capacity, inserts the
// appointment, takes one seat and appends a booking.submitted event to the outbox in one transaction.
type Service struct {
	db     DB
	logger *logging.Logger
	now    func() time.Time
	newID  func() string
}

// NewService constructs the booking service.
func NewService(db DB, logger *logging.Logger) *Service {
	if db == nil {
		panic("bookings: db required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		db:     db,
		logger: logger,
		now:    time.Now,
		newID:  func() string { return uuid.NewString() },
	}
}

// Submit implements booking.Submitter. Rejections carry up to MaxAlternatives open slots of the
// same doctor from today onward.
func (s *Service) Submit(ctx context.Context, req booking.Request) (*booking.Result, error) {
	ctx, span := bookingsTracer.Start(ctx, "bookings.submit")
	defer span.End()
	span.SetAttributes(
		attribute.String("clinic.doctor_id", req.DoctorID),
		attribute.String("clinic.slot_id", req.PreferredSlotID),
	)

	if err := req.Validate(); err != nil {
		return &booking.Result{Success: false, Message: msgIncomplete}, nil
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("bookings: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var slot slots.Entry
	err = tx.QueryRow(ctx, `SELECT `+slotColumns+`
		FROM doctor_slots
		WHERE id = $1
		FOR UPDATE
	`, req.PreferredSlotID).Scan(&slot.SlotID, &slot.DoctorID, &slot.Date, &slot.Time, &slot.Active, &slot.CurrentBookings, &slot.MaxBookings)
	if errors.Is(err, pgx.ErrNoRows) {
		return s.reject(ctx, tx, req, msgSlotMissing)
	}
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("bookings: lock slot: %w", err)
	}

	switch {
	case slot.DoctorID != req.DoctorID:
		return s.reject(ctx, tx, req, msgSlotMismatch)
	case !slot.Active:
		return s.reject(ctx, tx, req, msgSlotInactive)
	case !slot.Selectable():
		return s.reject(ctx, tx, req, msgSlotFull)
	}

	gender := req.Gender
	if gender == "" {
		gender = "other"
	}
	visitType := req.VisitType
	if visitType == "" {
		visitType = booking.VisitTypeConsultation
	}

	appointmentID := s.newID()
	_, err = tx.Exec(ctx, `
		INSERT INTO appointments (id, doctor_id, service_id, slot_id, full_name, email, phone, gender,
			message, schedule, visit_type, appointment_date, appointment_time, status)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9, $10, $11, $12::date, $13::time, $14)
	`, appointmentID, req.DoctorID, req.ServiceID, slot.SlotID, req.FullName, req.Email, req.Phone, gender,
		req.Message, req.Schedule, visitType, slot.Date, slot.Time, appointmentState)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("bookings: insert appointment: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE doctor_slots
		SET current_bookings = current_bookings + 1
		WHERE id = $1
	`, slot.SlotID); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("bookings: take seat: %w", err)
	}

	accepted := req
	accepted.PreferredDate = slot.Date
	accepted.PreferredTime = slot.Time
	accepted.Gender = gender
	accepted.VisitType = visitType
	evt := events.NewBookingSubmitted(accepted, appointmentID, backendLabel, s.now())
	env, err := events.Seal(evt, slot.SlotID, evt.SubmittedAt)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if err := events.AppendToOutbox(ctx, tx, env); err != nil {
		span.RecordError(err)
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("bookings: commit: %w", err)
	}

	s.logger.Info("booking accepted",
		"appointment_id", appointmentID,
		"doctor_id", req.DoctorID,
		"slot_id", slot.SlotID,
		"patient_phone", logging.MaskPhone(req.Phone),
		"remaining", slot.MaxBookings-slot.CurrentBookings-1,
	)
	return &booking.Result{Success: true, AppointmentID: appointmentID, Message: msgBooked}, nil
}

// reject loads alternatives inside the same transaction and returns a rejected result. The
// transaction is rolled back by the caller's deferred Rollback.
func (s *Service) reject(ctx context.Context, tx pgx.Tx, req booking.Request, message string) (*booking.Result, error) {
	alternatives, err := scanSlots(ctx, tx, `SELECT `+slotColumns+`
		FROM doctor_slots
		WHERE doctor_id = $1
		  AND id <> $2
		  AND is_active
		  AND current_bookings < max_bookings
		  AND slot_date >= $3::date
		ORDER BY slot_date, slot_time
		LIMIT $4
	`, req.DoctorID, req.PreferredSlotID, s.now().Format(time.DateOnly), MaxAlternatives)
	if err != nil {
		s.logger.Warn("bookings: alternative lookup failed", "error", err, "doctor_id", req.DoctorID)
		alternatives = nil
	}

	s.logger.Info("booking rejected",
		"reason", message,
		"doctor_id", req.DoctorID,
		"slot_id", req.PreferredSlotID,
		"alternatives", len(alternatives),
	)
	return &booking.Result{Success: false, Message: message, AlternativeSlots: alternatives}, nil
}

var _ booking.Submitter = (*Service)(nil)
