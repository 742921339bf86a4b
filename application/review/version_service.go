package review

import (
	"context"
	"fmt"
	"io"

	"videoverse/domain/auth"
	"videoverse/domain/review"
	"videoverse/domain/storage"
)

// VersionService manages the named, numbered versions of a video. A
// version is just another uploaded object whose name ties it back to the
// original; there is no structural foreign key.
type VersionService struct {
	store    storage.Store
	uploader storage.Uploader
}

// NewVersionService creates a version service on top of the object store
// and the upload pipeline.
func NewVersionService(store storage.Store, uploader storage.Uploader) *VersionService {
	return &VersionService{
		store:    store,
		uploader: uploader,
	}
}

// Versions lists the versions of a video. An object whose name does not
// follow the convention is reported as version 1, "Unknown", rather than
// failing the whole listing.
func (s *VersionService) Versions(ctx context.Context, videoID string) ([]review.Version, error) {
	folderID, err := s.store.EnsureAppFolder(ctx)
	if err != nil {
		return nil, err
	}

	objects, err := s.store.ListObjects(ctx, folderID, storage.Query{
		NameContains: review.VersionPrefix(videoID),
	})
	if err != nil {
		return nil, err
	}

	versions := make([]review.Version, 0, len(objects))
	for _, obj := range objects {
		number, label := review.ParseVersionName(obj.Name).OrUnknown()
		versions = append(versions, review.Version{
			ID:            obj.ID,
			Label:         label,
			VersionNumber: number,
			VideoID:       videoID,
			CreatedAt:     obj.CreatedAt,
		})
	}
	return versions, nil
}

// AddVersionRequest carries the payload for a new version.
type AddVersionRequest struct {
	Label      string
	MimeType   string
	Size       int64
	Content    io.Reader
	OnProgress func(percent int)
}

// AddVersion uploads a new version of a video. The version number is the
// count of existing versions plus one; two concurrent creations can
// observe the same count and receive the same number.
func (s *VersionService) AddVersion(ctx context.Context, session *auth.Session, videoID string, req AddVersionRequest) (*review.Version, error) {
	if req.Label == "" {
		return nil, review.ErrEmptyLabel
	}
	if !session.Valid() {
		return nil, review.ErrNotAuthenticated
	}

	folderID, err := s.store.EnsureAppFolder(ctx)
	if err != nil {
		return nil, err
	}

	existing, err := s.store.ListObjects(ctx, folderID, storage.Query{
		NameContains: review.VersionPrefix(videoID),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to count existing versions: %w", err)
	}
	number := len(existing) + 1

	result, err := s.uploader.Upload(ctx, folderID, storage.UploadRequest{
		Name:       review.VersionObjectName(videoID, number, req.Label),
		MimeType:   req.MimeType,
		Size:       req.Size,
		Content:    req.Content,
		OnProgress: req.OnProgress,
	})
	if err != nil {
		return nil, err
	}

	return &review.Version{
		ID:            result.ID,
		Label:         req.Label,
		VersionNumber: number,
		VideoID:       videoID,
		CreatedAt:     result.CreatedAt,
	}, nil
}
