package spam

import "errors"

var (
	// ErrUnavailable indicates the spam service is unreachable.
	ErrUnavailable = errors.New("spam service unavailable")

	// ErrTimeout indicates a request exceeded the configured timeout.
	ErrTimeout = errors.New("spam check timed out")

	// ErrInvalidKey indicates the service rejected the API key.
	ErrInvalidKey = errors.New("spam service rejected api key")

	// ErrInvalidResponse indicates a reply that is neither a verdict nor a
	// key status.
	ErrInvalidResponse = errors.New("invalid spam service response")

	// ErrRetryExhausted indicates all retry attempts have been exhausted.
	ErrRetryExhausted = errors.New("spam check retry attempts exhausted")
)
