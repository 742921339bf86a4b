package drive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"videoverse/domain/storage"

	"google.golang.org/api/drive/v3"
)

// DefaultFolderName is the well-known application folder in the user's
// Drive that scopes every object this application touches.
const DefaultFolderName = "VideoVerse"

// FolderConflictPolicy decides what to do when more than one application
// folder exists (two clients racing on first run can each create one).
type FolderConflictPolicy string

const (
	// FolderConflictOldest deterministically picks the earliest-created
	// folder and keeps going.
	FolderConflictOldest FolderConflictPolicy = "oldest"

	// FolderConflictFail refuses to pick and surfaces the conflict.
	FolderConflictFail FolderConflictPolicy = "fail"
)

// Store implements storage.Store against Google Drive, using the flat
// object namespace of the application folder as a JSON document store.
type Store struct {
	svc        DriveService
	folderName string
	conflict   FolderConflictPolicy

	// folderID caches the resolved application folder for the lifetime
	// of this store. Correctness does not depend on the cache; it only
	// saves a list round trip per call.
	folderID string
}

// StoreOption is a functional option for configuring Store.
type StoreOption func(*Store)

// WithDriveService sets a custom drive service (for testing).
func WithDriveService(svc DriveService) StoreOption {
	return func(s *Store) {
		s.svc = svc
	}
}

// WithFolderName overrides the application folder name.
func WithFolderName(name string) StoreOption {
	return func(s *Store) {
		s.folderName = name
	}
}

// WithFolderConflictPolicy sets the duplicate-folder policy.
func WithFolderConflictPolicy(p FolderConflictPolicy) StoreOption {
	return func(s *Store) {
		s.conflict = p
	}
}

// NewStore creates a Drive-backed object store authenticated with the
// given bearer token. If no custom drive service is provided, a real one
// is initialized.
func NewStore(ctx context.Context, accessToken string, opts ...StoreOption) (*Store, error) {
	s := &Store{
		folderName: DefaultFolderName,
		conflict:   FolderConflictOldest,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.svc == nil {
		svc, err := NewGoogleDriveService(ctx, accessToken)
		if err != nil {
			return nil, err
		}
		s.svc = svc
	}

	return s, nil
}

// EnsureAppFolder implements storage.Store.
func (s *Store) EnsureAppFolder(ctx context.Context) (string, error) {
	if s.folderID != "" {
		return s.folderID, nil
	}

	query := fmt.Sprintf("name = '%s' and mimeType = '%s' and trashed = false",
		escapeQueryTerm(s.folderName), storage.MimeTypeFolder)
	folders, err := s.svc.ListFiles(ctx, query, "id, name, createdTime", "createdTime")
	if err != nil {
		return "", fmt.Errorf("failed to look up application folder: %w", classify(err))
	}

	switch {
	case len(folders) == 1:
		s.folderID = folders[0].Id
	case len(folders) > 1:
		if s.conflict == FolderConflictFail {
			return "", fmt.Errorf("%w: %d folders named %q", storage.ErrFolderConflict, len(folders), s.folderName)
		}
		// Results are ordered by createdTime, so the first is the oldest.
		s.folderID = folders[0].Id
	default:
		folder, err := s.svc.CreateFolder(ctx, s.folderName)
		if err != nil {
			return "", fmt.Errorf("failed to create application folder: %w", classify(err))
		}
		if folder.Id == "" {
			return "", fmt.Errorf("creating application folder: %w", storage.ErrMalformedResponse)
		}
		s.folderID = folder.Id
	}

	return s.folderID, nil
}

// ListObjects implements storage.Store.
func (s *Store) ListObjects(ctx context.Context, folderID string, q storage.Query) ([]storage.ObjectDescriptor, error) {
	files, err := s.svc.ListFiles(ctx, buildQuery(folderID, q),
		"id, name, webContentLink, thumbnailLink, createdTime, modifiedTime", "")
	if err != nil {
		return nil, fmt.Errorf("failed to list objects: %w", classify(err))
	}

	result := make([]storage.ObjectDescriptor, 0, len(files))
	for _, f := range files {
		result = append(result, toDescriptor(f))
	}
	return result, nil
}

// GetObjectContent implements storage.Store.
func (s *Store) GetObjectContent(ctx context.Context, objectID string) ([]byte, error) {
	data, err := s.svc.Download(ctx, objectID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch object %s: %w", objectID, classify(err))
	}
	return data, nil
}

// PutJSONObject implements storage.Store. The lookup is a list-query by
// exact name on every write; there is no keyed index in Drive.
func (s *Store) PutJSONObject(ctx context.Context, folderID, name string, value any, opts ...storage.PutOption) (string, error) {
	var putOpts storage.PutOptions
	for _, opt := range opts {
		opt(&putOpts)
	}

	data, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("failed to encode %s: %w", name, err)
	}

	existing, err := s.ListObjects(ctx, folderID, storage.Query{NameEquals: name})
	if err != nil {
		return "", err
	}

	if len(existing) > 0 {
		doc := existing[0]
		if !putOpts.ExpectedModified.IsZero() && !doc.ModifiedAt.Equal(putOpts.ExpectedModified) {
			return "", fmt.Errorf("document %s changed since read: %w", name, storage.ErrConflict)
		}
		updated, err := s.svc.UpdateContent(ctx, doc.ID, storage.MimeTypeJSON, bytes.NewReader(data))
		if err != nil {
			return "", fmt.Errorf("failed to update %s: %w", name, classify(err))
		}
		if updated.Id == "" {
			return doc.ID, nil
		}
		return updated.Id, nil
	}

	meta := &drive.File{
		Name:     name,
		Parents:  []string{folderID},
		MimeType: storage.MimeTypeJSON,
	}
	created, err := s.svc.CreateFile(ctx, meta, storage.MimeTypeJSON, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", name, classify(err))
	}
	if created.Id == "" {
		return "", fmt.Errorf("creating %s: %w", name, storage.ErrMalformedResponse)
	}
	return created.Id, nil
}

// buildQuery translates a storage.Query into Drive query syntax, always
// scoped to the folder and to non-trashed objects.
func buildQuery(folderID string, q storage.Query) string {
	clauses := []string{
		fmt.Sprintf("'%s' in parents", escapeQueryTerm(folderID)),
		"trashed = false",
	}
	if q.NameEquals != "" {
		clauses = append(clauses, fmt.Sprintf("name = '%s'", escapeQueryTerm(q.NameEquals)))
	}
	if q.NameContains != "" {
		clauses = append(clauses, fmt.Sprintf("name contains '%s'", escapeQueryTerm(q.NameContains)))
	}
	if q.MimePrefix != "" {
		clauses = append(clauses, fmt.Sprintf("mimeType contains '%s'", escapeQueryTerm(q.MimePrefix)))
	}
	return strings.Join(clauses, " and ")
}

// escapeQueryTerm escapes the characters Drive query string literals
// treat specially.
func escapeQueryTerm(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}

func toDescriptor(f *drive.File) storage.ObjectDescriptor {
	return storage.ObjectDescriptor{
		ID:            f.Id,
		Name:          f.Name,
		ContentLink:   f.WebContentLink,
		ThumbnailLink: f.ThumbnailLink,
		CreatedAt:     parseTime(f.CreatedTime),
		ModifiedAt:    parseTime(f.ModifiedTime),
	}
}

// parseTime parses a Google Drive timestamp string.
func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)
