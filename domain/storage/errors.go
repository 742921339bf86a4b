package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork is returned when a request failed before any HTTP
	// response was received.
	ErrNetwork = errors.New("network failure")

	// ErrTimeout is returned when a transfer exceeded its time bound.
	// Distinct from ErrNetwork so callers can word retry prompts.
	ErrTimeout = errors.New("transfer timed out")

	// ErrMalformedResponse is returned when the store answered with a
	// success status but the body lacks the expected fields.
	ErrMalformedResponse = errors.New("malformed store response")

	// ErrConflict is returned when an optimistic write precondition
	// failed. The caller may re-read and retry.
	ErrConflict = errors.New("write conflict")

	// ErrFolderConflict is returned when multiple application folders
	// exist and the conflict policy is set to fail.
	ErrFolderConflict = errors.New("multiple application folders found")
)

// StatusError preserves a non-2xx HTTP status from the store.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("store returned status %d", e.Code)
}
