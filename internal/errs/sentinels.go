// Package errs contains sentinel errors shared by repositories, services and handlers.
package errs

import "errors"

var (
	// ErrNotFound indicates the entity does not exist or is not owned by the caller.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates input that failed normalization.
	ErrInvalidInput = errors.New("invalid input")

	// ErrAlreadyExists indicates a unique constraint violation (username taken).
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidCredentials indicates a username/password pair that does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken indicates a missing, malformed, expired or badly signed token.
	ErrInvalidToken = errors.New("invalid token")
)
