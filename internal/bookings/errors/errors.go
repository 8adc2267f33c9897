package errors

import "errors"

var (
	// ErrNotFound is returned when a booking does not exist.
	ErrNotFound = errors.New("booking not found")

	// ErrInvalidID is returned when a booking ID is not a valid ObjectID.
	ErrInvalidID = errors.New("invalid booking ID")

	// ErrGroupNotFound is returned when the referenced ownership group does
	// not exist.
	ErrGroupNotFound = errors.New("ownership group not found")
)
