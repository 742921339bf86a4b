package review

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"

	"videoverse/domain/auth"
	"videoverse/domain/review"
	"videoverse/domain/storage"
)

// VideoService lists reviewable videos and runs the upload pipeline,
// enriching new uploads with locally extracted metadata when available.
type VideoService struct {
	store     storage.Store
	uploader  storage.Uploader
	extractor review.MetadataExtractor
	output    io.Writer
}

// NewVideoService creates a video service. extractor may be nil when no
// metadata extraction is wanted.
func NewVideoService(store storage.Store, uploader storage.Uploader, extractor review.MetadataExtractor, output io.Writer) *VideoService {
	if output == nil {
		output = io.Discard
	}
	return &VideoService{
		store:     store,
		uploader:  uploader,
		extractor: extractor,
		output:    output,
	}
}

// Videos lists the videos in the application folder. Version objects are
// excluded; they are reachable through VersionService.
func (s *VideoService) Videos(ctx context.Context) ([]review.Video, error) {
	folderID, err := s.store.EnsureAppFolder(ctx)
	if err != nil {
		return nil, err
	}

	objects, err := s.store.ListObjects(ctx, folderID, storage.Query{MimePrefix: "video/"})
	if err != nil {
		return nil, err
	}

	videos := make([]review.Video, 0, len(objects))
	for _, obj := range objects {
		if review.IsVersionName(obj.Name) {
			continue
		}
		videos = append(videos, review.Video{
			ID:        obj.ID,
			Name:      review.DisplayName(obj.Name),
			Thumbnail: obj.ThumbnailLink,
			CreatedAt: obj.CreatedAt,
			UpdatedAt: obj.ModifiedAt,
		})
	}
	return videos, nil
}

// Upload transfers a local video file into the application folder and
// returns the stored Video. Metadata extraction runs first; its failure
// never aborts the upload, the video simply carries no duration.
func (s *VideoService) Upload(ctx context.Context, session *auth.Session, path string, onProgress func(percent int)) (*review.Video, error) {
	if !session.Valid() {
		return nil, review.ErrNotAuthenticated
	}

	var meta *review.Metadata
	if s.extractor != nil {
		var err error
		meta, err = s.extractor.Extract(ctx, path)
		if err != nil {
			fmt.Fprintf(s.output, "Warning: could not read video metadata: %v\n", err)
			meta = nil
		}
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open video file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat video file: %w", err)
	}

	folderID, err := s.store.EnsureAppFolder(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.uploader.Upload(ctx, folderID, storage.UploadRequest{
		Name:       filepath.Base(path),
		MimeType:   mime.TypeByExtension(filepath.Ext(path)),
		Size:       info.Size(),
		Content:    file,
		OnProgress: onProgress,
	})
	if err != nil {
		return nil, err
	}

	video := &review.Video{
		ID:        result.ID,
		Name:      review.DisplayName(filepath.Base(path)),
		Thumbnail: result.ThumbnailLink,
		CreatedAt: result.CreatedAt,
		UpdatedAt: result.ModifiedAt,
	}
	if meta != nil {
		video.Duration = meta.Duration
		video.AspectRatio = meta.AspectRatio
	}
	return video, nil
}

// Video resolves a single video by id from the listing.
func (s *VideoService) Video(ctx context.Context, videoID string) (*review.Video, error) {
	videos, err := s.Videos(ctx)
	if err != nil {
		return nil, err
	}
	for i := range videos {
		if videos[i].ID == videoID {
			return &videos[i], nil
		}
	}
	return nil, review.ErrVideoNotFound
}
