package contact

import (
	"regexp"
	"strings"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	timePattern  = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d:[0-5]\d$`)
)

// Details are the contact fields collected by the wizard's contact step.
type Details struct {
	FullName string
	Email    string
	Phone    string
	Message  string
}

// Validate checks the contact step fields in display order and returns the first failure.
// The email is optional but must be well formed when present.
func Validate(d Details, region Region) error {
	if strings.TrimSpace(d.FullName) == "" {
		return ErrFullNameRequired
	}
	if strings.TrimSpace(d.Message) == "" {
		return ErrMessageRequired
	}
	if err := ValidatePhone(d.Phone, region); err != nil {
		return err
	}
	return ValidateEmail(d.Email)
}

// ValidatePhone applies the region digit-count rule to a display or raw phone value.
func ValidatePhone(phone string, region Region) error {
	if region == nil {
		return ErrUnknownRegion
	}
	digits := DigitsOnly(phone)
	if digits == "" {
		return ErrPhoneRequired
	}
	if !region.IsValid(digits) {
		return ErrInvalidPhone
	}
	return nil
}

// ValidateEmail accepts an empty value or a local@domain.tld address.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil
	}
	if !emailPattern.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

// ValidateTime requires a 24-hour HH:MM:SS value.
func ValidateTime(value string) error {
	if !timePattern.MatchString(value) {
		return ErrInvalidTime
	}
	return nil
}
