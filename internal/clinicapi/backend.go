package clinicapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/wolfman30/clinic-booking/internal/booking"
	"github.com/wolfman30/clinic-booking/internal/catalog"
	"github.com/wolfman30/clinic-booking/internal/slots"
)

const defaultRejection = "Failed to book appointment"

// FetchDoctors returns every doctor the backend knows. Malformed records are dropped.
func (c *Client) FetchDoctors(ctx context.Context) ([]catalog.Doctor, error) {
	body, err := c.get(ctx, pathDoctors, nil)
	if err != nil {
		return nil, err
	}
	doctors, skipped, err := catalog.DecodeDoctors(body)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		c.logger.Warn("clinicapi: dropped malformed doctor records", "count", skipped)
	}
	return doctors, nil
}

// FetchServices returns every service. Malformed records are dropped.
func (c *Client) FetchServices(ctx context.Context) ([]catalog.Service, error) {
	body, err := c.get(ctx, pathServices, nil)
	if err != nil {
		return nil, err
	}
	services, skipped, err := catalog.DecodeServices(body)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		c.logger.Warn("clinicapi: dropped malformed service records", "count", skipped)
	}
	return services, nil
}

// FetchSlots returns all slots of one doctor.
func (c *Client) FetchSlots(ctx context.Context, doctorID string) ([]slots.Entry, error) {
	body, err := c.get(ctx, pathSlots, url.Values{"doctor_id": {doctorID}})
	if err != nil {
		return nil, err
	}
	entries, skipped, err := slots.Decode(body, doctorID)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		c.logger.Warn("clinicapi: dropped malformed slot records", "doctor_id", doctorID, "count", skipped)
	}
	return entries, nil
}

// Submit posts the booking. Any body carrying a success flag is an outcome, whatever the status.
func (c *Client) Submit(ctx context.Context, req booking.Request) (*booking.Result, error) {
	status, body, err := c.post(ctx, pathBook, req)
	if err != nil {
		return nil, err
	}

	var out bookResponse
	if err := json.Unmarshal(body, &out); err != nil || out.Success == nil {
		if status >= 200 && status < 300 {
			return nil, fmt.Errorf("clinicapi: unexpected book response: %s", errorMessage(body))
		}
		return nil, &StatusError{Status: status, Message: errorMessage(body)}
	}

	if *out.Success {
		result := &booking.Result{Success: true, Message: out.Message}
		if out.Data != nil {
			result.AppointmentID = firstNonEmpty(string(out.Data.Appointment.AppointmentID), string(out.Data.Appointment.ID))
		}
		return result, nil
	}

	result := &booking.Result{
		Success: false,
		Message: firstNonEmpty(out.Error, out.Message, defaultRejection),
	}
	if out.Details != nil {
		result.AlternativeSlots = alternatives(req.DoctorID, out.Details.AvailableSlots)
	}
	c.logger.Info("clinicapi: booking rejected",
		"status", status,
		"doctor_id", req.DoctorID,
		"slot_id", req.PreferredSlotID,
		"alternatives", len(result.AlternativeSlots),
	)
	return result, nil
}

// alternatives maps suggested slots. The backend only suggests open slots, so they are marked active
// with one free seat.
func alternatives(doctorID string, raw []alternativeSlot) []slots.Entry {
	out := make([]slots.Entry, 0, len(raw))
	for _, a := range raw {
		clock, err := slots.NormalizeTime(a.Time)
		if err != nil || a.SlotID == "" {
			continue
		}
		out = append(out, slots.Entry{
			DoctorID:    doctorID,
			SlotID:      string(a.SlotID),
			Date:        a.Date,
			Time:        clock,
			Active:      true,
			MaxBookings: 1,
		})
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

var (
	_ catalog.Source    = (*Client)(nil)
	_ slots.Source      = (*Client)(nil)
	_ booking.Submitter = (*Client)(nil)
)
