package drive

import (
	"context"
	"errors"
	"fmt"

	"videoverse/domain/storage"

	"google.golang.org/api/googleapi"
)

// classify maps a raw Drive API error onto the storage error taxonomy so
// callers can distinguish timeout, HTTP status and transport failures
// with errors.Is/errors.As.
func classify(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", storage.ErrTimeout, err)
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return fmt.Errorf("%v: %w", err, &storage.StatusError{Code: gerr.Code})
	}

	// No HTTP response was obtained.
	return fmt.Errorf("%w: %v", storage.ErrNetwork, err)
}
