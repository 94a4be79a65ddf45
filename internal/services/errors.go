package services

import (
	"errors"
	"fmt"

	"curio/internal/repositories"
)

// Error taxonomy shared by every service. Handlers map these to HTTP
// responses with errors.Is; everything else is an internal error.
var (
	// ErrNotFound covers both true absence and access to a resource owned
	// by someone else. The two are deliberately indistinguishable so
	// existence never leaks through status codes.
	ErrNotFound = repositories.ErrNotFound

	// ErrInvalidCredentials is returned for any failed username/password
	// check, without revealing which part was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken collapses every token failure mode (expired,
	// malformed, bad signature, wrong type) into one kind.
	ErrInvalidToken = errors.New("invalid token")

	// ErrConflict marks uniqueness violations (username, email, tag name).
	ErrConflict = errors.New("conflict")

	// ErrValidation marks requests rejected before any write: order-set
	// mismatches, disallowed file types, malformed shapes.
	ErrValidation = errors.New("validation failed")
)

func conflictf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrConflict)...)
}

func validationf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrValidation)...)
}
