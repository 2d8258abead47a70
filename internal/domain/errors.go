package domain

import "errors"

// Error taxonomy shared by the booking engine.
// Packages above the domain wrap these with fmt.Errorf("%w: ...") so callers
// can branch on the category with errors.Is.
var (
	// ErrValidation malformed or missing input, unacceptable species, bad date format
	ErrValidation = errors.New("validation error")

	// ErrConflict slot or range already booked
	ErrConflict = errors.New("conflict: already booked")

	// ErrNotFound unknown offering, reservation, user or pet
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransition illegal status change
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrAuthorization actor is not a party allowed to perform the action
	ErrAuthorization = errors.New("not authorized")
)
