// Package catalog filters, sorts and maps the doctor and service lists shown by the booking wizard.
package catalog

import "strings"

// Gender is the doctor gender used by the gender filter.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// ParseGender maps free-form input to a Gender. Unknown or empty values become GenderOther.
func ParseGender(s string) Gender {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male", "m", "nam":
		return GenderMale
	case "female", "f", "nu", "nữ":
		return GenderFemale
	default:
		return GenderOther
	}
}

// Doctor is a read-only doctor record.
type Doctor struct {
	ID         string   `json:"id"`
	FullName   string   `json:"full_name"`
	Gender     Gender   `json:"gender"`
	Specialty  string   `json:"specialty,omitempty"`
	ServiceIDs []string `json:"service_ids"`
}

// Supports reports whether the doctor offers the given service.
func (d Doctor) Supports(serviceID string) bool {
	for _, id := range d.ServiceIDs {
		if id == serviceID {
			return true
		}
	}
	return false
}

// Service is a read-only service record.
type Service struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
}

// FindDoctor returns the doctor with the given id.
func FindDoctor(doctors []Doctor, id string) (Doctor, bool) {
	for _, d := range doctors {
		if d.ID == id {
			return d, true
		}
	}
	return Doctor{}, false
}

// FindService returns the service with the given id.
func FindService(services []Service, id string) (Service, bool) {
	for _, s := range services {
		if s.ID == id {
			return s, true
		}
	}
	return Service{}, false
}
