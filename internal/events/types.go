package events

import (
	"time"

	"github.com/wolfman30/clinic-booking/internal/booking"
)

// BookingSubmittedV1 is emitted once per accepted booking.
type BookingSubmittedV1 struct {
	AppointmentID string    `json:"appointment_id"`
	DoctorID      string    `json:"doctor_id"`
	ServiceID     string    `json:"service_id"`
	SlotID        string    `json:"slot_id"`
	Date          string    `json:"date"`
	Time          string    `json:"time"`
	Schedule      string    `json:"schedule,omitempty"`
	VisitType     string    `json:"visit_type"`
	PatientName   string    `json:"patient_name"`
	PatientPhone  string    `json:"patient_phone"`
	PatientEmail  string    `json:"patient_email,omitempty"`
	Backend       string    `json:"backend"`
	SubmittedAt   time.Time `json:"submitted_at"`
}

func (BookingSubmittedV1) EventType() string {
	return "booking.submitted.v1"
}

// Aggregate is the outbox aggregate key for the appointment.
func (e BookingSubmittedV1) Aggregate() string {
	return "appointment:" + e.AppointmentID
}

// NewBookingSubmitted builds the event for an accepted request.
func NewBookingSubmitted(req booking.Request, appointmentID, backend string, at time.Time) BookingSubmittedV1 {
	return BookingSubmittedV1{
		AppointmentID: appointmentID,
		DoctorID:      req.DoctorID,
		ServiceID:     req.ServiceID,
		SlotID:        req.PreferredSlotID,
		Date:          req.PreferredDate,
		Time:          req.PreferredTime,
		Schedule:      req.Schedule,
		VisitType:     req.VisitType,
		PatientName:   req.FullName,
		PatientPhone:  req.Phone,
		PatientEmail:  req.Email,
		Backend:       backend,
		SubmittedAt:   at.UTC(),
	}
}
