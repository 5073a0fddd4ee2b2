package reembed

import "errors"

var (
	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrUserRequired is returned when no user id is given to re-embed.
	ErrUserRequired = errors.New("user id required")
)
