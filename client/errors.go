package client

import (
	"errors"
	"net/http"
	"strconv"
)

// Errors for input validation.
var (
	ErrEndpointRequired = errors.New("endpoint is required")
	ErrNoIDs            = errors.New("no user ids provided")
)

// APIError is a non-2xx response from the server. Code and Message come from
// the JSON error body when the server sent one.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.Code == "" {
		return "server error: " + strconv.Itoa(e.StatusCode) + " - " + msg
	}
	return "server error: " + strconv.Itoa(e.StatusCode) + " " + e.Code + " - " + msg
}

// Is matches any *APIError with the same StatusCode.
func (e *APIError) Is(target error) bool {
	var t *APIError
	if !errors.As(target, &t) {
		return false
	}
	return t.StatusCode == e.StatusCode
}

// Sentinel errors for common API error conditions.
// Use errors.Is() to check for these conditions.
var (
	// ErrNotFound is returned when the user does not exist (404).
	ErrNotFound = &APIError{StatusCode: http.StatusNotFound}

	// ErrInvalid is returned when the server rejected the payload (422).
	ErrInvalid = &APIError{StatusCode: http.StatusUnprocessableEntity}

	// ErrUnavailable is returned when the server cannot reach its database (503).
	ErrUnavailable = &APIError{StatusCode: http.StatusServiceUnavailable}
)
