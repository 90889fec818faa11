package booking

import "errors"

var (
	ErrValidation   = errors.New("validation failed")
	ErrSlotConflict = errors.New("requested time overlaps an existing booking")
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("not allowed to manage this booking")
)

// ValidationError names the input field that was rejected. It matches
// ErrValidation with errors.Is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
