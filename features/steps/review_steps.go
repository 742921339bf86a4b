//go:build integration

package steps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	appreview "videoverse/application/review"
	"videoverse/domain/auth"
	"videoverse/domain/review"
	"videoverse/domain/storage"

	"github.com/cucumber/godog"
)

// memObject is one entry in the in-memory object store.
type memObject struct {
	desc storage.ObjectDescriptor
	mime string
	data []byte
}

// memStore is an in-memory storage.Store standing in for the Drive
// adapter during feature runs.
type memStore struct {
	objects []*memObject
	nextID  int
	clock   time.Time
}

var _ storage.Store = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{clock: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Minute)
	return m.clock
}

func (m *memStore) add(name, mimeType string, data []byte) *memObject {
	m.nextID++
	now := m.tick()
	obj := &memObject{
		desc: storage.ObjectDescriptor{
			ID:         fmt.Sprintf("obj-%d", m.nextID),
			Name:       name,
			CreatedAt:  now,
			ModifiedAt: now,
		},
		mime: mimeType,
		data: data,
	}
	m.objects = append(m.objects, obj)
	return obj
}

func (m *memStore) EnsureAppFolder(ctx context.Context) (string, error) {
	return "folder-1", nil
}

func (m *memStore) ListObjects(ctx context.Context, folderID string, q storage.Query) ([]storage.ObjectDescriptor, error) {
	result := []storage.ObjectDescriptor{}
	for _, obj := range m.objects {
		if q.MimePrefix != "" && !strings.HasPrefix(obj.mime, q.MimePrefix) {
			continue
		}
		if q.NameEquals != "" && obj.desc.Name != q.NameEquals {
			continue
		}
		if q.NameContains != "" && !strings.Contains(obj.desc.Name, q.NameContains) {
			continue
		}
		result = append(result, obj.desc)
	}
	return result, nil
}

func (m *memStore) GetObjectContent(ctx context.Context, objectID string) ([]byte, error) {
	for _, obj := range m.objects {
		if obj.desc.ID == objectID {
			return obj.data, nil
		}
	}
	return nil, fmt.Errorf("object %s not found", objectID)
}

func (m *memStore) PutJSONObject(ctx context.Context, folderID, name string, value any, opts ...storage.PutOption) (string, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	for _, obj := range m.objects {
		if obj.desc.Name == name {
			obj.data = data
			obj.desc.ModifiedAt = m.tick()
			return obj.desc.ID, nil
		}
	}
	return m.add(name, storage.MimeTypeJSON, data).desc.ID, nil
}

// memUploader materializes uploads straight into the memStore.
type memUploader struct {
	store *memStore
}

var _ storage.Uploader = (*memUploader)(nil)

func (u *memUploader) Upload(ctx context.Context, folderID string, req storage.UploadRequest) (*storage.UploadResult, error) {
	data, err := io.ReadAll(req.Content)
	if err != nil {
		return nil, err
	}
	mimeType := req.MimeType
	if mimeType == "" {
		mimeType = storage.MimeTypeVideo
	}
	obj := u.store.add(req.Name, mimeType, data)
	if req.OnProgress != nil {
		req.OnProgress(100)
	}
	return &storage.UploadResult{
		ID:         obj.desc.ID,
		Name:       obj.desc.Name,
		CreatedAt:  obj.desc.CreatedAt,
		ModifiedAt: obj.desc.ModifiedAt,
	}, nil
}

type reviewContext struct {
	store    *memStore
	uploader *memUploader
	session  *auth.Session
	videoID  string

	comments []review.Comment
	versions []review.Version
	videos   []review.Video
	err      error
}

var SharedReviewContext = &reviewContext{}

func InitializeReviewScenario(ctx *godog.ScenarioContext) {
	testCtx := SharedReviewContext

	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		testCtx.store = newMemStore()
		testCtx.uploader = &memUploader{store: testCtx.store}
		testCtx.session = nil
		testCtx.videoID = ""
		testCtx.comments = nil
		testCtx.versions = nil
		testCtx.videos = nil
		testCtx.err = nil
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		SharedReviewContext = &reviewContext{}
		return c, nil
	})

	ctx.Step(`^a stored video "([^"]*)"$`, testCtx.aStoredVideo)
	ctx.Step(`^a signed-in user "([^"]*)"$`, testCtx.aSignedInUser)
	ctx.Step(`^a stray version object whose name ends in "([^"]*)"$`, testCtx.aStrayVersionObject)
	ctx.Step(`^the user comments "([^"]*)" at (\d+(?:\.\d+)?) seconds$`, testCtx.theUserComments)
	ctx.Step(`^a guest named "([^"]*)" comments "([^"]*)" at (\d+(?:\.\d+)?) seconds$`, testCtx.aGuestComments)
	ctx.Step(`^the user adds a version labeled "([^"]*)"$`, testCtx.theUserAddsAVersion)
	ctx.Step(`^I list the versions of the video$`, testCtx.iListTheVersions)
	ctx.Step(`^I list the videos$`, testCtx.iListTheVideos)
	ctx.Step(`^the video should have (\d+) comments?$`, testCtx.theVideoShouldHaveComments)
	ctx.Step(`^the video should have (\d+) versions?$`, testCtx.theVideoShouldHaveVersions)
	ctx.Step(`^comment (\d+) should read "([^"]*)" by "([^"]*)" at (\d+(?:\.\d+)?) seconds$`, testCtx.commentShouldRead)
	ctx.Step(`^comment (\d+) should be from guest "([^"]*)"$`, testCtx.commentShouldBeFromGuest)
	ctx.Step(`^the comment should be rejected$`, testCtx.theCommentShouldBeRejected)
	ctx.Step(`^version (\d+) should be numbered (\d+) with label "([^"]*)"$`, testCtx.versionShouldBe)
	ctx.Step(`^the listing should contain exactly (\d+) video named "([^"]*)"$`, testCtx.theListingShouldContain)
}

func (s *reviewContext) commentService() *appreview.CommentService {
	return appreview.NewCommentService(s.store)
}

func (s *reviewContext) versionService() *appreview.VersionService {
	return appreview.NewVersionService(s.store, s.uploader)
}

func (s *reviewContext) videoService() *appreview.VideoService {
	return appreview.NewVideoService(s.store, s.uploader, nil, io.Discard)
}

func (s *reviewContext) aStoredVideo(name string) error {
	obj := s.store.add(name, storage.MimeTypeVideo, []byte("frames"))
	s.videoID = obj.desc.ID
	return nil
}

func (s *reviewContext) aSignedInUser(name string) error {
	s.session = &auth.Session{
		AccessToken: "feature-token",
		User: auth.User{
			ID:            "user-1",
			Name:          name,
			Authenticated: true,
		},
	}
	return nil
}

func (s *reviewContext) aStrayVersionObject(suffix string) error {
	if s.videoID == "" {
		return fmt.Errorf("no stored video to attach the stray version to")
	}
	s.store.add(review.VersionPrefix(s.videoID)+suffix, storage.MimeTypeVideo, []byte("frames"))
	return nil
}

func (s *reviewContext) theUserComments(text string, at float64) error {
	_, s.err = s.commentService().AddComment(context.Background(), s.session, s.videoID, review.CommentDraft{
		Text:      text,
		Timestamp: at,
	})
	return nil
}

func (s *reviewContext) aGuestComments(name, text string, at float64) error {
	_, s.err = s.commentService().AddComment(context.Background(), nil, s.videoID, review.CommentDraft{
		Text:      text,
		Timestamp: at,
		AsGuest:   true,
		GuestName: name,
	})
	return nil
}

func (s *reviewContext) theUserAddsAVersion(label string) error {
	content := strings.NewReader("frames")
	_, err := s.versionService().AddVersion(context.Background(), s.session, s.videoID, appreview.AddVersionRequest{
		Label:   label,
		Size:    int64(content.Len()),
		Content: content,
	})
	if err != nil {
		return fmt.Errorf("failed to add version: %w", err)
	}
	return nil
}

func (s *reviewContext) iListTheVersions() error {
	var err error
	s.versions, err = s.versionService().Versions(context.Background(), s.videoID)
	return err
}

func (s *reviewContext) iListTheVideos() error {
	var err error
	s.videos, err = s.videoService().Videos(context.Background())
	return err
}

func (s *reviewContext) theVideoShouldHaveComments(count int) error {
	var err error
	s.comments, err = s.commentService().Comments(context.Background(), s.videoID)
	if err != nil {
		return fmt.Errorf("failed to list comments: %w", err)
	}
	if len(s.comments) != count {
		return fmt.Errorf("expected %d comments, got %d", count, len(s.comments))
	}
	return nil
}

func (s *reviewContext) theVideoShouldHaveVersions(count int) error {
	if s.versions == nil {
		if err := s.iListTheVersions(); err != nil {
			return err
		}
	}
	if len(s.versions) != count {
		return fmt.Errorf("expected %d versions, got %d", count, len(s.versions))
	}
	return nil
}

func (s *reviewContext) commentShouldRead(index int, text, author string, at float64) error {
	if index < 1 || index > len(s.comments) {
		return fmt.Errorf("comment %d out of range (have %d)", index, len(s.comments))
	}
	c := s.comments[index-1]
	if c.Text != text {
		return fmt.Errorf("expected text %q, got %q", text, c.Text)
	}
	if c.User.Name != author {
		return fmt.Errorf("expected author %q, got %q", author, c.User.Name)
	}
	if c.Timestamp != at {
		return fmt.Errorf("expected timestamp %v, got %v", at, c.Timestamp)
	}
	return nil
}

func (s *reviewContext) commentShouldBeFromGuest(index int, name string) error {
	if index < 1 || index > len(s.comments) {
		return fmt.Errorf("comment %d out of range (have %d)", index, len(s.comments))
	}
	c := s.comments[index-1]
	if !c.User.IsGuest {
		return fmt.Errorf("expected a guest author, got %q", c.User.ID)
	}
	if c.User.Name != name {
		return fmt.Errorf("expected guest name %q, got %q", name, c.User.Name)
	}
	return nil
}

func (s *reviewContext) theCommentShouldBeRejected() error {
	if s.err == nil {
		return fmt.Errorf("expected the comment to be rejected")
	}
	return nil
}

func (s *reviewContext) versionShouldBe(index, number int, label string) error {
	if s.versions == nil {
		if err := s.iListTheVersions(); err != nil {
			return err
		}
	}
	if index < 1 || index > len(s.versions) {
		return fmt.Errorf("version %d out of range (have %d)", index, len(s.versions))
	}
	v := s.versions[index-1]
	if v.VersionNumber != number {
		return fmt.Errorf("expected version number %d, got %d", number, v.VersionNumber)
	}
	if v.Label != label {
		return fmt.Errorf("expected label %q, got %q", label, v.Label)
	}
	return nil
}

func (s *reviewContext) theListingShouldContain(count int, name string) error {
	if len(s.videos) != count {
		return fmt.Errorf("expected %d videos, got %d", count, len(s.videos))
	}
	for _, v := range s.videos {
		if v.Name == name {
			return nil
		}
	}
	return fmt.Errorf("video named %q not found in listing", name)
}
