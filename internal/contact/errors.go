package contact

import "errors"

var (
	// ErrFullNameRequired is returned when the patient name is blank
	ErrFullNameRequired = errors.New("full name is required")

	// ErrMessageRequired is returned when the reason-for-visit message is blank
	ErrMessageRequired = errors.New("message is required")

	// ErrPhoneRequired is returned when no phone digits were entered
	ErrPhoneRequired = errors.New("phone number is required")

	// ErrInvalidPhone is returned when the digit count does not match the region rule
	ErrInvalidPhone = errors.New("phone number is not valid for the selected region")

	// ErrInvalidEmail is returned when a non-empty email is malformed
	ErrInvalidEmail = errors.New("email address is not valid")

	// ErrInvalidTime is returned when a slot time is not HH:MM:SS
	ErrInvalidTime = errors.New("time must be in HH:MM:SS format")

	// ErrUnknownRegion is returned when a region code is not registered
	ErrUnknownRegion = errors.New("unknown phone region")
)
