package store

import "errors"

var (
	// ErrNotFound is returned when the referenced record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidTransition is returned when a status change is not reachable
	// from the event's current status. The stored record is left unchanged.
	ErrInvalidTransition = errors.New("invalid status transition")
)
