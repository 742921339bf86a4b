package review

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"videoverse/domain/auth"
	"videoverse/domain/review"
	"videoverse/domain/storage"

	"github.com/google/uuid"
)

// CommentService stores the comments of a video as one named JSON
// document. Every mutation is a read-modify-write of the whole list;
// without optimistic writes enabled the last writer wins.
type CommentService struct {
	store      storage.Store
	optimistic bool
	now        func() time.Time
	newID      func() string
}

// CommentServiceOption is a functional option for configuring CommentService.
type CommentServiceOption func(*CommentService)

// WithOptimisticWrites enables the modification-time precondition on
// comment writes. A concurrent writer then surfaces as a conflict and the
// write is retried once against the fresh list.
func WithOptimisticWrites(enabled bool) CommentServiceOption {
	return func(s *CommentService) {
		s.optimistic = enabled
	}
}

// WithClock sets a custom time source (for testing).
func WithClock(now func() time.Time) CommentServiceOption {
	return func(s *CommentService) {
		s.now = now
	}
}

// WithIDGenerator sets a custom comment id generator (for testing).
func WithIDGenerator(gen func() string) CommentServiceOption {
	return func(s *CommentService) {
		s.newID = gen
	}
}

// NewCommentService creates a comment service on top of the object store.
func NewCommentService(store storage.Store, opts ...CommentServiceOption) *CommentService {
	s := &CommentService{
		store: store,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Comments returns the stored comments of a video in insertion order.
// An absent comments document yields an empty list, not an error.
func (s *CommentService) Comments(ctx context.Context, videoID string) ([]review.Comment, error) {
	folderID, err := s.store.EnsureAppFolder(ctx)
	if err != nil {
		return nil, err
	}

	comments, _, err := s.read(ctx, folderID, videoID)
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// AddComment appends a comment to a video's document. Guest drafts are
// accepted without a session; a non-guest draft with no signed-in user is
// rejected before any network call.
func (s *CommentService) AddComment(ctx context.Context, session *auth.Session, videoID string, draft review.CommentDraft) (*review.Comment, error) {
	if draft.Text == "" {
		return nil, review.ErrEmptyComment
	}
	if !draft.AsGuest && !session.Valid() {
		return nil, review.ErrNotAuthenticated
	}

	folderID, err := s.store.EnsureAppFolder(ctx)
	if err != nil {
		return nil, err
	}

	comment := review.Comment{
		ID:        s.newID(),
		Text:      draft.Text,
		Timestamp: draft.Timestamp,
		User:      s.author(session, draft),
		CreatedAt: s.now(),
	}

	if err := s.append(ctx, folderID, videoID, comment); err != nil {
		if s.optimistic && errors.Is(err, storage.ErrConflict) {
			// A concurrent writer won the race; re-read and retry once.
			err = s.append(ctx, folderID, videoID, comment)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to save comment: %w", err)
		}
	}

	return &comment, nil
}

// append performs one read-modify-write cycle. A failed read is
// normalized to an empty list so a transient glitch never blocks comment
// submission.
func (s *CommentService) append(ctx context.Context, folderID, videoID string, comment review.Comment) error {
	comments, modifiedAt, err := s.read(ctx, folderID, videoID)
	if err != nil {
		comments = []review.Comment{}
		modifiedAt = time.Time{}
	}
	comments = append(comments, comment)

	var opts []storage.PutOption
	if s.optimistic && !modifiedAt.IsZero() {
		opts = append(opts, storage.WithExpectedModified(modifiedAt))
	}

	_, err = s.store.PutJSONObject(ctx, folderID, review.CommentsDocName(videoID), comments, opts...)
	return err
}

// read fetches the comments document and its modification stamp. Zero
// matches is "no comments yet", not an error.
func (s *CommentService) read(ctx context.Context, folderID, videoID string) ([]review.Comment, time.Time, error) {
	docs, err := s.store.ListObjects(ctx, folderID, storage.Query{
		NameEquals: review.CommentsDocName(videoID),
	})
	if err != nil {
		return nil, time.Time{}, err
	}
	if len(docs) == 0 {
		return []review.Comment{}, time.Time{}, nil
	}

	data, err := s.store.GetObjectContent(ctx, docs[0].ID)
	if err != nil {
		return nil, time.Time{}, err
	}

	var comments []review.Comment
	if err := json.Unmarshal(data, &comments); err != nil {
		return nil, time.Time{}, fmt.Errorf("comments document for %s is not valid JSON: %w", videoID, err)
	}
	if comments == nil {
		comments = []review.Comment{}
	}
	return comments, docs[0].ModifiedAt, nil
}

func (s *CommentService) author(session *auth.Session, draft review.CommentDraft) review.CommentAuthor {
	if draft.AsGuest {
		name := draft.GuestName
		if name == "" {
			name = "Guest"
		}
		return review.CommentAuthor{
			ID:      "guest-" + s.newID(),
			Name:    name,
			IsGuest: true,
		}
	}
	return review.CommentAuthor{
		ID:        session.User.ID,
		Name:      session.User.Name,
		AvatarURL: session.User.AvatarURL,
	}
}
