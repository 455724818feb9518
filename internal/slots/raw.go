package slots

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/wolfman30/clinic-booking/internal/catalog"
)

// RawEntry is a slot as returned by the backend.
type RawEntry struct {
	DoctorID        catalog.FlexString `json:"doctor_id"`
	DoctorSlotID    catalog.FlexString `json:"doctor_slot_id"`
	SlotID          catalog.FlexString `json:"slot_id"`
	ID              catalog.FlexString `json:"id"`
	SlotDate        string             `json:"slot_date"`
	Date            string             `json:"date"`
	SlotTime        string             `json:"slot_time"`
	Time            string             `json:"time"`
	IsActive        *bool              `json:"is_active"`
	CurrentBookings int                `json:"current_bookings"`
	MaxBookings     *int               `json:"max_bookings"`
}

// ToEntry validates and converts a raw slot. A missing active flag means active and a missing
// capacity means one booking. fallbackDoctor fills records that omit the doctor id.
func (r RawEntry) ToEntry(fallbackDoctor string) (Entry, error) {
	id := firstNonEmpty(string(r.DoctorSlotID), string(r.SlotID), string(r.ID))
	if id == "" {
		return Entry{}, fmt.Errorf("slots: record missing slot id")
	}
	date := firstNonEmpty(r.SlotDate, r.Date)
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		return Entry{}, fmt.Errorf("slots: slot %s has invalid date %q", id, date)
	}
	clock, err := NormalizeTime(firstNonEmpty(r.SlotTime, r.Time))
	if err != nil {
		return Entry{}, fmt.Errorf("slots: slot %s: %w", id, err)
	}

	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	capacity := 1
	if r.MaxBookings != nil {
		capacity = *r.MaxBookings
	}
	return Entry{
		DoctorID:        firstNonEmpty(string(r.DoctorID), fallbackDoctor),
		SlotID:          id,
		Date:            date,
		Time:            clock,
		Active:          active,
		CurrentBookings: r.CurrentBookings,
		MaxBookings:     capacity,
	}, nil
}

// Decode maps a JSON array of slots. Each record decodes on its own, so a mistyped field skips
// only that record.
func Decode(data []byte, fallbackDoctor string) ([]Entry, int, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, 0, fmt.Errorf("slots: decode: %w", err)
	}
	raw := make([]RawEntry, 0, len(items))
	bad := 0
	for _, item := range items {
		var r RawEntry
		if err := json.Unmarshal(item, &r); err != nil {
			bad++
			continue
		}
		raw = append(raw, r)
	}
	out, skipped, err := MapRaw(raw, fallbackDoctor)
	return out, skipped + bad, err
}

// MapRaw converts already decoded raw slots.
func MapRaw(raw []RawEntry, fallbackDoctor string) ([]Entry, int, error) {
	out := make([]Entry, 0, len(raw))
	skipped := 0
	for _, r := range raw {
		e, err := r.ToEntry(fallbackDoctor)
		if err != nil {
			skipped++
			continue
		}
		out = append(out, e)
	}
	return out, skipped, nil
}

// NormalizeTime accepts HH:MM or HH:MM:SS and returns HH:MM:SS.
func NormalizeTime(value string) (string, error) {
	value = strings.TrimSpace(value)
	for _, layout := range []string{time.TimeOnly, "15:04"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format(time.TimeOnly), nil
		}
	}
	return "", fmt.Errorf("invalid time %q", value)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
