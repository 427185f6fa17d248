package services

import (
	"errors"
	"fmt"

	"salonpro-api/repository"
)

var (
	// ErrDataUnavailable: the backing store is unreachable or unconfigured.
	ErrDataUnavailable = repository.ErrDataUnavailable
	// ErrNotConfigured is the unconfigured case of ErrDataUnavailable.
	ErrNotConfigured = repository.ErrNotConfigured
	ErrNotFound      = repository.ErrNotFound
	ErrConflict      = repository.ErrConflict

	ErrValidation   = errors.New("validation failed")
	ErrQueryFailed  = errors.New("query failed")
	ErrUnauthorized = errors.New("unauthorized")

	ErrInvalidCredentials = fmt.Errorf("%w: invalid username or password", ErrUnauthorized)
)

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
