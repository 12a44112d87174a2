package domain

import "errors"

// Sentinel errors shared across services and repositories. Controllers map
// these to HTTP statuses at the delivery boundary.
var (
	// ErrNotFound is returned when a referenced event or RSVP does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned when the acting user is not the event owner.
	ErrForbidden = errors.New("forbidden")

	// ErrDuplicateRsvp is returned when an RSVP already exists for the same
	// (event, email) pair. Raised both by the service pre-check and by the
	// serialized re-check inside the insert transaction on concurrent
	// submissions.
	ErrDuplicateRsvp = errors.New("duplicate rsvp for this email")

	// ErrInvalidInput is returned for structurally invalid values that survive
	// boundary validation (e.g. an unknown response literal).
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidCredentials is returned on login with an unknown email or a
	// wrong password. The two cases are indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUserNotFound is returned for lookups of unknown users.
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateEmail is returned when signing up with an email already in use.
	ErrDuplicateEmail = errors.New("email already in use")
)
