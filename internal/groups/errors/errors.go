package errors

import "errors"

var (
	// ErrNotFound is returned when an ownership group does not exist.
	ErrNotFound = errors.New("ownership group not found")

	// ErrInvalidID is returned when a group ID is not a valid ObjectID.
	ErrInvalidID = errors.New("invalid group ID")
)
