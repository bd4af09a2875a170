package service

import "errors"

var (
	// ErrUnauthenticated is returned when an operation needs a signed-in
	// actor.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrForbidden is returned when the actor lacks the required
	// privilege.
	ErrForbidden = errors.New("permission denied")
)
