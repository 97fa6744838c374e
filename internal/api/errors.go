package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// FallbackMessage is shown when an error response carries no message.
const FallbackMessage = "Noe gikk galt ved kall mot serveren."

var (
	// ErrNotFound matches any *Error with status 404.
	ErrNotFound = errors.New("not found")

	// ErrTimeout indicates the request exceeded the configured timeout.
	ErrTimeout = errors.New("backend request timed out")

	// ErrUnavailable indicates the backend could not be reached at all.
	ErrUnavailable = errors.New("backend unavailable")

	// ErrInvalidResponse indicates a 2xx body that was not the expected JSON.
	ErrInvalidResponse = errors.New("invalid backend response")
)

// Error is a non-2xx response from the backend.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

// Is lets errors.Is(err, ErrNotFound) match 404 responses.
func (e *Error) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

func newError(status int, body []byte) *Error {
	msg := FallbackMessage
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err == nil {
		if m, ok := payload["message"]; ok && m != nil {
			msg = fmt.Sprint(m)
		}
	}
	return &Error{Status: status, Message: msg}
}

// UserMessage turns any client error into text fit for a notification.
func UserMessage(err error) string {
	var apiErr *Error
	switch {
	case err == nil:
		return ""
	case errors.As(err, &apiErr):
		return apiErr.Message
	case errors.Is(err, ErrTimeout):
		return "Serveren svarte ikke i tide. Prøv igjen."
	case errors.Is(err, ErrUnavailable):
		return "Får ikke kontakt med serveren."
	default:
		return FallbackMessage
	}
}

func errorCode(err error) string {
	var apiErr *Error
	switch {
	case err == nil:
		return ""
	case errors.As(err, &apiErr):
		return fmt.Sprintf("HTTP_%d", apiErr.Status)
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrInvalidResponse):
		return "INVALID_RESPONSE"
	default:
		return "UNKNOWN"
	}
}
