// Package slots resolves bookable appointment slots for one doctor.
package slots

import "errors"

var (
	// ErrSlotNotFound is returned when the slot id is not in the current list
	ErrSlotNotFound = errors.New("slots: slot not found")

	// ErrSlotUnavailable is returned for inactive or fully booked slots
	ErrSlotUnavailable = errors.New("slots: slot is not available")
)

// Entry is one bookable unit of a doctor's schedule.
type Entry struct {
	DoctorID        string `json:"doctor_id"`
	SlotID          string `json:"slot_id"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	Active          bool   `json:"is_active"`
	CurrentBookings int    `json:"current_bookings"`
	MaxBookings     int    `json:"max_bookings"`
}

// Selectable reports whether the slot can still take a booking.
func (e Entry) Selectable() bool {
	return e.Active && e.CurrentBookings < e.MaxBookings
}

// Remaining is the number of bookings the slot can still accept.
func (e Entry) Remaining() int {
	if !e.Active || e.CurrentBookings >= e.MaxBookings {
		return 0
	}
	return e.MaxBookings - e.CurrentBookings
}

// Find returns the entry with the given slot id.
func Find(entries []Entry, slotID string) (Entry, bool) {
	for _, e := range entries {
		if e.SlotID == slotID {
			return e, true
		}
	}
	return Entry{}, false
}

// CheckSelectable looks up slotID and rejects it unless it is selectable.
func CheckSelectable(entries []Entry, slotID string) (Entry, error) {
	e, ok := Find(entries, slotID)
	if !ok {
		return Entry{}, ErrSlotNotFound
	}
	if !e.Selectable() {
		return e, ErrSlotUnavailable
	}
	return e, nil
}
