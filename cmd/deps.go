package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	appreview "videoverse/application/review"
	"videoverse/domain/auth"
	"videoverse/infrastructure/config"
	"videoverse/infrastructure/drive"
	"videoverse/infrastructure/googleauth"
	"videoverse/infrastructure/media"
)

// newProvider wires the credential provider from the loaded config.
func newProvider(cfg *config.Config) (*googleauth.Provider, error) {
	sessions := googleauth.NewFileSessionStore(cfg.Google.SessionFile)
	return googleauth.NewProvider(cfg.Google.CredentialsFile, sessions,
		googleauth.WithOutput(os.Stdout))
}

// requireSession loads the provider and insists on a signed-in user.
func requireSession(cfg *config.Config) (*googleauth.Provider, *auth.Session, error) {
	provider, err := newProvider(cfg)
	if err != nil {
		return nil, nil, err
	}
	session := provider.Session()
	if session == nil {
		return nil, nil, errors.New("not signed in; run 'videoverse login' first")
	}
	return provider, session, nil
}

// newStores builds the Drive-backed object store and upload pipeline for
// a session.
func newStores(ctx context.Context, cfg *config.Config, session *auth.Session) (*drive.Store, *drive.Uploader, error) {
	storeOpts := []drive.StoreOption{
		drive.WithFolderName(cfg.Drive.FolderName),
	}
	if cfg.Drive.FolderConflict != "" {
		storeOpts = append(storeOpts, drive.WithFolderConflictPolicy(drive.FolderConflictPolicy(cfg.Drive.FolderConflict)))
	}

	store, err := drive.NewStore(ctx, session.AccessToken, storeOpts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create Drive store: %w", err)
	}

	uploader, err := drive.NewUploader(ctx, session.AccessToken,
		drive.WithUploadTimeout(time.Duration(cfg.Upload.TimeoutMinutes)*time.Minute))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create Drive uploader: %w", err)
	}

	return store, uploader, nil
}

// newCommentService builds the comment service with the configured write
// strategy.
func newCommentService(cfg *config.Config, store *drive.Store) *appreview.CommentService {
	return appreview.NewCommentService(store,
		appreview.WithOptimisticWrites(cfg.Drive.OptimisticWrites))
}

// newVideoService builds the video service with the local metadata
// extractor.
func newVideoService(store *drive.Store, uploader *drive.Uploader) *appreview.VideoService {
	return appreview.NewVideoService(store, uploader, media.NewExtractor(), os.Stdout)
}
