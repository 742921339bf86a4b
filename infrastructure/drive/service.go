package drive

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// DriveService defines the interface for Google Drive API operations.
// This allows mocking the Google Drive API in tests.
type DriveService interface {
	// ListFiles lists files matching the query.
	ListFiles(ctx context.Context, query string, fields string, orderBy string) ([]*drive.File, error)

	// CreateFolder creates a folder with the given name.
	CreateFolder(ctx context.Context, name string) (*drive.File, error)

	// CreateFile creates a file with the given metadata and content.
	CreateFile(ctx context.Context, meta *drive.File, mimeType string, content io.Reader) (*drive.File, error)

	// UpdateContent overwrites the content of an existing file in place.
	UpdateContent(ctx context.Context, fileID string, mimeType string, content io.Reader) (*drive.File, error)

	// Download fetches the raw bytes of a file.
	Download(ctx context.Context, fileID string) ([]byte, error)
}

// GoogleDriveService is the production implementation using the Google
// Drive API.
type GoogleDriveService struct {
	service *drive.Service
}

// NewGoogleDriveService creates a Drive service authenticated with a
// bearer access token obtained from an interactive sign-in.
func NewGoogleDriveService(ctx context.Context, accessToken string) (*GoogleDriveService, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	srv, err := drive.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("unable to create drive service: %w", err)
	}
	return &GoogleDriveService{service: srv}, nil
}

// ListFiles lists files matching the query.
func (s *GoogleDriveService) ListFiles(ctx context.Context, query string, fields string, orderBy string) ([]*drive.File, error) {
	call := s.service.Files.List().
		Q(query).
		Fields(googleapi.Field("files(" + fields + ")")).
		Spaces("drive").
		Context(ctx)
	if orderBy != "" {
		call = call.OrderBy(orderBy)
	}
	r, err := call.Do()
	if err != nil {
		return nil, err
	}
	return r.Files, nil
}

// CreateFolder creates a folder with the given name.
func (s *GoogleDriveService) CreateFolder(ctx context.Context, name string) (*drive.File, error) {
	meta := &drive.File{
		Name:     name,
		MimeType: "application/vnd.google-apps.folder",
	}
	return s.service.Files.Create(meta).
		Fields("id, name, createdTime").
		Context(ctx).
		Do()
}

// CreateFile creates a file with the given metadata and content.
func (s *GoogleDriveService) CreateFile(ctx context.Context, meta *drive.File, mimeType string, content io.Reader) (*drive.File, error) {
	return s.service.Files.Create(meta).
		Media(content, googleapi.ContentType(mimeType)).
		Fields("id, name, thumbnailLink, createdTime, modifiedTime").
		Context(ctx).
		Do()
}

// UpdateContent overwrites the content of an existing file in place. The
// file keeps its id and name.
func (s *GoogleDriveService) UpdateContent(ctx context.Context, fileID string, mimeType string, content io.Reader) (*drive.File, error) {
	return s.service.Files.Update(fileID, &drive.File{}).
		Media(content, googleapi.ContentType(mimeType)).
		Fields("id, name, createdTime, modifiedTime").
		Context(ctx).
		Do()
}

// Download fetches the raw bytes of a file.
func (s *GoogleDriveService) Download(ctx context.Context, fileID string) ([]byte, error) {
	resp, err := s.service.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// Ensure GoogleDriveService implements DriveService
var _ DriveService = (*GoogleDriveService)(nil)
