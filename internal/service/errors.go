package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/budgify/budgify/internal/repository"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrForbidden  = errors.New("access to another user's data is not allowed")
)

// ValidationError carries a client-facing message and matches ErrValidation.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// asValidation wraps a validation package error so handlers map it to 400.
func asValidation(err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Message: err.Error()}
}

// IsNotFound reports whether err means the requested row does not exist for the user.
func IsNotFound(err error) bool {
	return errors.Is(err, repository.ErrEntryNotFound) ||
		errors.Is(err, repository.ErrSavingsGoalNotFound) ||
		errors.Is(err, repository.ErrUserNotFound)
}

// Clock returns the current time. Services take one so tests can pin "now".
type Clock func() time.Time

func systemClock() time.Time {
	return time.Now()
}
