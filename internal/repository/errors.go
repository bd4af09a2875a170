package repository

import "errors"

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a write collides with an existing row,
	// such as a duplicate slug or menu node id. Allocation conflicts are
	// safe to retry.
	ErrConflict = errors.New("conflict")
)
