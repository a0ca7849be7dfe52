package core

import "errors"

var (
	// ErrDuplicateKey is returned when a user record already exists for the username.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrNotFound is returned when a summary is requested for an unknown username.
	ErrNotFound = errors.New("user not found")

	// ErrConnection is returned when the store cannot be reached.
	ErrConnection = errors.New("store connection failed")

	// ErrGeneration is returned for every completion service failure:
	// quota, network, timeout or a malformed response.
	ErrGeneration = errors.New("generation failed")

	ErrInvalidUsername = errors.New("invalid username")
	ErrEmptyQuery      = errors.New("empty query")
	ErrSessionNotFound = errors.New("session not found")

	// ErrNotAllowed is returned when a user runs an admin-only command.
	ErrNotAllowed = errors.New("not allowed")
)
