package feed

import "errors"

// Sentinel errors the handlers map onto HTTP statuses. Detected before
// any mutation so a failed call leaves no side effects.
var (
	// ErrValidation means a required field was empty or malformed.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidArgument means an identifier did not parse as an object id,
	// or violated policy (e.g. self-follow).
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound means a well-formed id resolved to nothing. Empty pages
	// are not ErrNotFound.
	ErrNotFound = errors.New("not found")
)
