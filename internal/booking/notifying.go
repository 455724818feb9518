package booking

import (
	"context"

	"github.com/wolfman30/clinic-booking/pkg/logging"
)

// NotifyingSubmitter forwards submissions to the backend and tells every listener about accepted
// bookings. Listener failures are logged and never turn an accepted booking into an error.
type NotifyingSubmitter struct {
	next      Submitter
	listeners []Listener
	logger    *logging.Logger
}

// NewNotifyingSubmitter wraps next. Nil listeners are ignored.
func NewNotifyingSubmitter(next Submitter, logger *logging.Logger, listeners ...Listener) *NotifyingSubmitter {
	if logger == nil {
		logger = logging.Default()
	}
	active := make([]Listener, 0, len(listeners))
	for _, l := range listeners {
		if l != nil {
			active = append(active, l)
		}
	}
	return &NotifyingSubmitter{next: next, listeners: active, logger: logger}
}

// Submit calls the wrapped submitter, then the listeners when the booking was accepted.
func (s *NotifyingSubmitter) Submit(ctx context.Context, req Request) (*Result, error) {
	result, err := s.next.Submit(ctx, req)
	if err != nil || result == nil || !result.Success {
		return result, err
	}

	for _, l := range s.listeners {
		if lerr := l.BookingAccepted(ctx, req, *result); lerr != nil {
			s.logger.Error("booking: listener failed",
				"error", lerr,
				"appointment_id", result.AppointmentID,
				"doctor_id", req.DoctorID,
				"slot_id", req.PreferredSlotID,
			)
		}
	}
	return result, nil
}

var _ Submitter = (*NotifyingSubmitter)(nil)
