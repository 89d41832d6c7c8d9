package domain

import "errors"

var (
	// ErrValidation indicates missing or malformed required input.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound is returned when a referenced entity cannot be located.
	ErrNotFound = errors.New("not found")
	// ErrIneligible indicates a business rule blocks the operation, e.g. an
	// inactive member attempting to check in.
	ErrIneligible = errors.New("member not eligible")
	// ErrConflict indicates a uniqueness violation such as a duplicate email
	// or a second open attendance session.
	ErrConflict = errors.New("conflict")
	// ErrInvalidState indicates the operation is not valid for the entity's
	// current state, e.g. checking out a closed session.
	ErrInvalidState = errors.New("invalid state")
	// ErrStoreUnavailable indicates the persistence layer is unreachable.
	ErrStoreUnavailable = errors.New("store unavailable")
)
