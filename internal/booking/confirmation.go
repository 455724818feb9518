package booking

import (
	"fmt"
	"html"
	"strings"
)

// FormatConfirmation renders the plain-text confirmation sent to the patient.
func FormatConfirmation(clinicName string, req Request, result Result) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Hello %s,\n\n", valueOrNA(req.FullName)))
	b.WriteString(fmt.Sprintf("Your appointment request with %s has been received.\n\n", clinicOrDefault(clinicName)))
	if result.AppointmentID != "" {
		b.WriteString(fmt.Sprintf("Reference: %s\n", result.AppointmentID))
	}
	b.WriteString(fmt.Sprintf("Service: %s\n", valueOrNA(firstNonEmpty(req.ServiceName, req.ServiceID))))
	b.WriteString(fmt.Sprintf("Doctor: %s\n", valueOrNA(firstNonEmpty(req.DoctorName, req.DoctorID))))
	b.WriteString(fmt.Sprintf("Date: %s\n", valueOrNA(req.PreferredDate)))
	b.WriteString(fmt.Sprintf("Time: %s\n", valueOrNA(clockLabel(req.PreferredTime, req.Schedule))))
	b.WriteString(fmt.Sprintf("Phone: %s\n", valueOrNA(req.Phone)))
	if strings.TrimSpace(req.Message) != "" {
		b.WriteString(fmt.Sprintf("Reason for visit: %s\n", req.Message))
	}
	if result.Message != "" {
		b.WriteString(fmt.Sprintf("\n%s\n", result.Message))
	}

	return b.String()
}

// FormatConfirmationHTML renders the HTML confirmation email body.
func FormatConfirmationHTML(clinicName string, req Request, result Result) string {
	row := func(label, value string) string {
		return fmt.Sprintf(`<tr><td style="padding:6px 12px;font-weight:bold;">%s</td><td style="padding:6px 12px;">%s</td></tr>`,
			label, html.EscapeString(valueOrNA(value)))
	}

	var rows []string
	if result.AppointmentID != "" {
		rows = append(rows, row("Reference", result.AppointmentID))
	}
	rows = append(rows,
		row("Service", firstNonEmpty(req.ServiceName, req.ServiceID)),
		row("Doctor", firstNonEmpty(req.DoctorName, req.DoctorID)),
		row("Date", req.PreferredDate),
		row("Time", clockLabel(req.PreferredTime, req.Schedule)),
		row("Phone", req.Phone),
	)
	if strings.TrimSpace(req.Message) != "" {
		rows = append(rows, row("Reason for visit", req.Message))
	}

	var note string
	if result.Message != "" {
		note = fmt.Sprintf(`<p style="color:#333;">%s</p>`, html.EscapeString(result.Message))
	}

	return fmt.Sprintf(`<div style="font-family:sans-serif;max-width:600px;">
<h2 style="color:#333;">Appointment request received</h2>
<p>Hello %s, your appointment request with %s has been received.</p>
<table style="border-collapse:collapse;width:100%%;">
%s
</table>
%s
<p style="color:#666;font-size:12px;">Please arrive 10 minutes before your appointment time.</p>
</div>`,
		html.EscapeString(valueOrNA(req.FullName)),
		html.EscapeString(clinicOrDefault(clinicName)),
		strings.Join(rows, "\n"),
		note,
	)
}

// ConfirmationSubject is the email subject line for an accepted booking.
func ConfirmationSubject(clinicName string, req Request) string {
	return fmt.Sprintf("Appointment request received - %s (%s)", clinicOrDefault(clinicName), valueOrNA(req.PreferredDate))
}

func clockLabel(clock, schedule string) string {
	if len(clock) >= 5 {
		clock = clock[:5]
	}
	if clock != "" && schedule != "" {
		return fmt.Sprintf("%s (%s)", clock, schedule)
	}
	return clock
}

func clinicOrDefault(name string) string {
	if strings.TrimSpace(name) == "" {
		return "the clinic"
	}
	return name
}

func valueOrNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
