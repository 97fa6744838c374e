package dashboard

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTransition is returned when an event is not allowed in the
	// current view state. The state is left unchanged.
	ErrInvalidTransition = errors.New("invalid view transition")

	// ErrValidation wraps user-facing messages for input rejected before
	// any network call.
	ErrValidation = errors.New("validation failed")

	// ErrMutationInFlight is returned when an attendance mutation for the
	// same child is still pending.
	ErrMutationInFlight = errors.New("a registration for this child is already in progress")

	// ErrStale is returned when a response arrived after it was superseded
	// or after Close; its data was discarded.
	ErrStale = errors.New("response discarded")

	// ErrUnknownChild is returned for a child ID the controller has not loaded.
	ErrUnknownChild = errors.New("unknown child")
)

// ValidationError carries the message shown to the user.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// Message returns the user-facing text of a validation error, or "".
func Message(err error) string {
	var v *ValidationError
	if errors.As(err, &v) {
		return v.Message
	}
	return ""
}
