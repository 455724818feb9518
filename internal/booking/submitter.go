// Package booking defines the booking-acceptance contract shared by the wizard and the booking
// backends (hosted REST API or the local Postgres service).
package booking

import (
	"context"
	"errors"
	"strings"

	"github.com/wolfman30/clinic-booking/internal/slots"
)

// VisitTypeConsultation is the only visit type the wizard books.
const VisitTypeConsultation = "consultation"

// ErrIncompleteRequest is returned when a request lacks a field every backend requires.
var ErrIncompleteRequest = errors.New("booking: request is missing required fields")

// Request is the submission payload built from a completed draft.
type Request struct {
	FullName        string `json:"fullName"`
	Email           string `json:"email,omitempty"`
	Phone           string `json:"phone"`
	Gender          string `json:"gender"`
	Schedule        string `json:"schedule"`
	Message         string `json:"message"`
	DoctorID        string `json:"doctor_id"`
	ServiceID       string `json:"service_id"`
	PreferredDate   string `json:"preferred_date"`
	PreferredTime   string `json:"preferred_time"`
	PreferredSlotID string `json:"preferred_slot_id"`
	VisitType       string `json:"visit_type"`

	// Display names for confirmations. Never sent to a backend.
	DoctorName  string `json:"-"`
	ServiceName string `json:"-"`
}

// Validate checks the fields a backend cannot accept a booking without.
func (r Request) Validate() error {
	for _, v := range []string{r.FullName, r.Phone, r.Message, r.DoctorID, r.ServiceID, r.PreferredSlotID} {
		if strings.TrimSpace(v) == "" {
			return ErrIncompleteRequest
		}
	}
	return nil
}

// Result is the backend outcome. A rejected booking has Success false, a user-facing Message and,
// optionally, alternative slots of the same doctor.
type Result struct {
	Success          bool          `json:"success"`
	AppointmentID    string        `json:"appointment_id,omitempty"`
	Message          string        `json:"message,omitempty"`
	AlternativeSlots []slots.Entry `json:"alternative_slots,omitempty"`
}

// Submitter accepts or rejects a booking. Transport failures are returned as errors; a backend
// rejection is a Result with Success false.
type Submitter interface {
	Submit(ctx context.Context, req Request) (*Result, error)
}

// Listener is told about every accepted booking.
type Listener interface {
	BookingAccepted(ctx context.Context, req Request, result Result) error
}
