package store

import (
	"errors"
	"fmt"
)

// ValidationError is a client mistake; its message is safe to return as is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

var (
	ErrNothingToUpdate = &ValidationError{Message: "no updatable fields supplied"}
	ErrEmailTaken      = errors.New("email already in use")
)
