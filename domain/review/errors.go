package review

import "errors"

var (
	// ErrNotAuthenticated is returned when a non-guest operation is
	// attempted without a signed-in user. Raised before any network call.
	ErrNotAuthenticated = errors.New("operation requires a signed-in user")

	// ErrEmptyComment is returned when a comment draft has no text.
	ErrEmptyComment = errors.New("comment text is required")

	// ErrEmptyLabel is returned when a version is created without a label.
	ErrEmptyLabel = errors.New("version label is required")

	// ErrVideoNotFound is returned when a video id resolves to nothing.
	ErrVideoNotFound = errors.New("video not found")
)
