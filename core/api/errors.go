package api

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized is returned after the backend rejected the session
	// (or the stored token had already expired). Credentials are cleared.
	ErrUnauthorized = errors.New("unauthorized: please log in again")
	// ErrValidation marks input rejected before any request was made.
	ErrValidation = errors.New("validation failed")
	// ErrEmptyResponse is returned when the backend answers a single-entity
	// read with an empty or null body.
	ErrEmptyResponse = errors.New("empty response")
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API returned status %d", e.Status)
	}
	return fmt.Sprintf("API returned status %d: %s", e.Status, e.Message)
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func required(field, value string) error {
	if value == "" {
		return invalid("%s is required", field)
	}
	return nil
}
