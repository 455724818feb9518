package clinicapi

import (
	"encoding/json"

	"github.com/wolfman30/clinic-booking/internal/catalog"
)

const (
	pathDoctors  = "fetch-doctor"
	pathServices = "fetch-service"
	pathSlots    = "fetch-slot-by-doctor-id"
	pathBook     = "book-appointment"
)

// bookResponse is the book-appointment body. Rejections use the same shape with success false,
// sometimes with a non-2xx status.
type bookResponse struct {
	Success *bool        `json:"success"`
	Message string       `json:"message"`
	Error   string       `json:"error"`
	Data    *bookData    `json:"data"`
	Details *bookDetails `json:"details"`
}

type bookData struct {
	Appointment struct {
		AppointmentID catalog.FlexString `json:"appointment_id"`
		ID            catalog.FlexString `json:"id"`
	} `json:"appointment"`
	SlotInfo json.RawMessage `json:"slot_info,omitempty"`
}

type bookDetails struct {
	AvailableSlots []alternativeSlot `json:"available_slots"`
}

type alternativeSlot struct {
	SlotID catalog.FlexString `json:"slot_id"`
	Date   string             `json:"date"`
	Time   string             `json:"time"`
}

// errorBody is the generic error envelope of the hosted functions.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
