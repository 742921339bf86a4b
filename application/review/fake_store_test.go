package review

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"videoverse/domain/storage"
)

// fakeObject is one stored object in the in-memory store.
type fakeObject struct {
	id         string
	name       string
	mimeType   string
	content    []byte
	thumbnail  string
	createdAt  time.Time
	modifiedAt time.Time
}

// fakeStore is an in-memory storage.Store for service tests.
type fakeStore struct {
	objects []*fakeObject
	nextID  int
	clock   time.Time

	listCalls int
	putCalls  int

	listErr      error
	getErr       error
	getFailures  int // fail this many GetObjectContent calls, then succeed
	putErr       error
	conflictOnce bool // fail the first put with ErrConflict
}

func newFakeStore() *fakeStore {
	return &fakeStore{clock: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)}
}

func (f *fakeStore) tick() time.Time {
	f.clock = f.clock.Add(time.Second)
	return f.clock
}

func (f *fakeStore) newObjectID() string {
	f.nextID++
	return fmt.Sprintf("obj-%d", f.nextID)
}

func (f *fakeStore) addObject(name, mimeType string, content []byte) *fakeObject {
	obj := &fakeObject{
		id:         f.newObjectID(),
		name:       name,
		mimeType:   mimeType,
		content:    content,
		createdAt:  f.tick(),
		modifiedAt: f.clock,
	}
	f.objects = append(f.objects, obj)
	return obj
}

func (f *fakeStore) EnsureAppFolder(ctx context.Context) (string, error) {
	return "folder-1", nil
}

func (f *fakeStore) ListObjects(ctx context.Context, folderID string, q storage.Query) ([]storage.ObjectDescriptor, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}

	result := make([]storage.ObjectDescriptor, 0)
	for _, obj := range f.objects {
		if q.NameEquals != "" && obj.name != q.NameEquals {
			continue
		}
		if q.NameContains != "" && !strings.Contains(obj.name, q.NameContains) {
			continue
		}
		if q.MimePrefix != "" && !strings.HasPrefix(obj.mimeType, q.MimePrefix) {
			continue
		}
		result = append(result, storage.ObjectDescriptor{
			ID:            obj.id,
			Name:          obj.name,
			ThumbnailLink: obj.thumbnail,
			CreatedAt:     obj.createdAt,
			ModifiedAt:    obj.modifiedAt,
		})
	}
	return result, nil
}

func (f *fakeStore) GetObjectContent(ctx context.Context, objectID string) ([]byte, error) {
	if f.getFailures > 0 {
		f.getFailures--
		return nil, storage.ErrNetwork
	}
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, obj := range f.objects {
		if obj.id == objectID {
			return obj.content, nil
		}
	}
	return nil, fmt.Errorf("object %s not found", objectID)
}

func (f *fakeStore) PutJSONObject(ctx context.Context, folderID, name string, value any, opts ...storage.PutOption) (string, error) {
	f.putCalls++
	if f.conflictOnce {
		f.conflictOnce = false
		return "", storage.ErrConflict
	}
	if f.putErr != nil {
		return "", f.putErr
	}

	var putOpts storage.PutOptions
	for _, opt := range opts {
		opt(&putOpts)
	}

	data, err := json.Marshal(value)
	if err != nil {
		return "", err
	}

	for _, obj := range f.objects {
		if obj.name == name {
			if !putOpts.ExpectedModified.IsZero() && !obj.modifiedAt.Equal(putOpts.ExpectedModified) {
				return "", storage.ErrConflict
			}
			obj.content = data
			obj.modifiedAt = f.tick()
			return obj.id, nil
		}
	}

	obj := f.addObject(name, storage.MimeTypeJSON, data)
	return obj.id, nil
}

var _ storage.Store = (*fakeStore)(nil)

// fakeUploader records uploads and materializes them as objects in the
// backing fake store so listings observe them.
type fakeUploader struct {
	store    *fakeStore
	uploaded []string // object names in upload order
	err      error
}

func (f *fakeUploader) Upload(ctx context.Context, folderID string, req storage.UploadRequest) (*storage.UploadResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	var content []byte
	if req.Content != nil {
		var err error
		content, err = io.ReadAll(req.Content)
		if err != nil {
			return nil, err
		}
	}

	mimeType := req.MimeType
	if mimeType == "" {
		mimeType = storage.MimeTypeVideo
	}

	obj := f.store.addObject(req.Name, mimeType, content)
	f.uploaded = append(f.uploaded, req.Name)

	if req.OnProgress != nil {
		req.OnProgress(100)
	}

	return &storage.UploadResult{
		ID:         obj.id,
		Name:       obj.name,
		CreatedAt:  obj.createdAt,
		ModifiedAt: obj.modifiedAt,
	}, nil
}

var _ storage.Uploader = (*fakeUploader)(nil)
