package storage

import (
	"context"
	"io"
	"time"
)

// ObjectDescriptor is the metadata the store returns for a stored object.
type ObjectDescriptor struct {
	ID            string
	Name          string
	ContentLink   string
	ThumbnailLink string
	CreatedAt     time.Time
	ModifiedAt    time.Time
}

// Query selects objects within a folder. Zero-value fields are not applied.
type Query struct {
	// MimePrefix matches objects whose MIME type starts with the prefix
	// (e.g. "video/").
	MimePrefix string

	// NameEquals matches objects by exact name.
	NameEquals string

	// NameContains matches objects whose name contains the substring.
	NameContains string
}

// PutOptions carries optional behavior for PutJSONObject.
type PutOptions struct {
	// ExpectedModified, when non-zero, requires the existing object's
	// modification time to equal it. A mismatch fails the write with
	// ErrConflict before any bytes are sent.
	ExpectedModified time.Time
}

// PutOption is a functional option for PutJSONObject.
type PutOption func(*PutOptions)

// WithExpectedModified enables an optimistic precondition on an in-place
// JSON document update.
func WithExpectedModified(t time.Time) PutOption {
	return func(o *PutOptions) {
		o.ExpectedModified = t
	}
}

// Store defines the generic object store operations every repository is
// built on. This is a port implemented by the Drive adapter.
type Store interface {
	// EnsureAppFolder finds or creates the application folder and returns
	// its id. Implementations cache the id for the lifetime of the store.
	EnsureAppFolder(ctx context.Context) (string, error)

	// ListObjects returns the non-trashed objects in folderID matching the
	// query. The result is never nil; no matches yields an empty slice.
	ListObjects(ctx context.Context, folderID string, q Query) ([]ObjectDescriptor, error)

	// GetObjectContent fetches the raw bytes of an object.
	GetObjectContent(ctx context.Context, objectID string) ([]byte, error)

	// PutJSONObject writes value as a JSON document named name in folderID.
	// An existing object with that exact name is overwritten in place,
	// preserving its id; otherwise a new object is created. Returns the
	// object id.
	PutJSONObject(ctx context.Context, folderID, name string, value any, opts ...PutOption) (string, error)
}

// UploadRequest describes one binary payload bound for the store.
type UploadRequest struct {
	Name     string
	MimeType string // empty falls back to MimeTypeVideo
	Size     int64
	Content  io.Reader

	// OnProgress, when set, receives a monotonically non-decreasing
	// integer percentage 0-100 with exactly one terminal call at 100 on
	// success. Nothing is reported after a failure.
	OnProgress func(percent int)
}

// UploadResult is the outcome of a successful upload.
type UploadResult struct {
	ID            string
	Name          string
	ThumbnailLink string
	CreatedAt     time.Time
	ModifiedAt    time.Time
}

// Uploader is the binary upload pipeline port.
type Uploader interface {
	// Upload transfers req into folderID and returns the stored object.
	// The transfer is bounded by the uploader's configured timeout.
	Upload(ctx context.Context, folderID string, req UploadRequest) (*UploadResult, error)
}

// MIME type constants used throughout the store.
const (
	MimeTypeVideo  = "video/mp4"
	MimeTypeJSON   = "application/json"
	MimeTypeFolder = "application/vnd.google-apps.folder"
)
