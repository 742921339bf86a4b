package drive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"videoverse/domain/storage"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
)

// mockDriveService is a mock implementation for testing
type mockDriveService struct {
	files         []*drive.File
	listQueries   []string
	listErr       error
	folderResult  *drive.File
	folderErr     error
	folderCreates int
	createResult  *drive.File
	createErr     error
	createdMetas  []*drive.File
	updateResult  *drive.File
	updateErr     error
	updatedIDs    []string
	downloadData  []byte
	downloadErr   error
}

func (m *mockDriveService) ListFiles(ctx context.Context, query string, fields string, orderBy string) ([]*drive.File, error) {
	m.listQueries = append(m.listQueries, query)
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.files, nil
}

func (m *mockDriveService) CreateFolder(ctx context.Context, name string) (*drive.File, error) {
	m.folderCreates++
	if m.folderErr != nil {
		return nil, m.folderErr
	}
	if m.folderResult != nil {
		return m.folderResult, nil
	}
	return &drive.File{Id: "new-folder-id", Name: name}, nil
}

func (m *mockDriveService) CreateFile(ctx context.Context, meta *drive.File, mimeType string, content io.Reader) (*drive.File, error) {
	m.createdMetas = append(m.createdMetas, meta)
	if content != nil {
		if _, err := io.Copy(io.Discard, content); err != nil {
			return nil, err
		}
	}
	if m.createErr != nil {
		return nil, m.createErr
	}
	return m.createResult, nil
}

func (m *mockDriveService) UpdateContent(ctx context.Context, fileID string, mimeType string, content io.Reader) (*drive.File, error) {
	m.updatedIDs = append(m.updatedIDs, fileID)
	if content != nil {
		io.Copy(io.Discard, content)
	}
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	if m.updateResult != nil {
		return m.updateResult, nil
	}
	return &drive.File{Id: fileID}, nil
}

func (m *mockDriveService) Download(ctx context.Context, fileID string) ([]byte, error) {
	if m.downloadErr != nil {
		return nil, m.downloadErr
	}
	return m.downloadData, nil
}

func newTestStore(t *testing.T, mock *mockDriveService, opts ...StoreOption) *Store {
	t.Helper()
	opts = append([]StoreOption{WithDriveService(mock)}, opts...)
	store, err := NewStore(context.Background(), "", opts...)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return store
}

func TestStore_EnsureAppFolder(t *testing.T) {
	tests := []struct {
		name        string
		mock        *mockDriveService
		opts        []StoreOption
		wantID      string
		wantCreates int
		wantErr     error
	}{
		{
			name: "returns existing folder",
			mock: &mockDriveService{
				files: []*drive.File{{Id: "folder-1", Name: "VideoVerse"}},
			},
			wantID:      "folder-1",
			wantCreates: 0,
		},
		{
			name:        "creates folder when absent",
			mock:        &mockDriveService{},
			wantID:      "new-folder-id",
			wantCreates: 1,
		},
		{
			name: "picks oldest on duplicates by default",
			mock: &mockDriveService{
				files: []*drive.File{
					{Id: "older", Name: "VideoVerse", CreatedTime: "2025-01-01T00:00:00Z"},
					{Id: "newer", Name: "VideoVerse", CreatedTime: "2025-06-01T00:00:00Z"},
				},
			},
			wantID:      "older",
			wantCreates: 0,
		},
		{
			name: "fails on duplicates with fail policy",
			mock: &mockDriveService{
				files: []*drive.File{
					{Id: "older", Name: "VideoVerse"},
					{Id: "newer", Name: "VideoVerse"},
				},
			},
			opts:    []StoreOption{WithFolderConflictPolicy(FolderConflictFail)},
			wantErr: storage.ErrFolderConflict,
		},
		{
			name: "surfaces create response without id",
			mock: &mockDriveService{
				folderResult: &drive.File{},
			},
			wantErr: storage.ErrMalformedResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t, tt.mock, tt.opts...)

			id, err := store.EnsureAppFolder(context.Background())

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected error %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if id != tt.wantID {
				t.Errorf("expected folder id %q, got %q", tt.wantID, id)
			}
			if tt.mock.folderCreates != tt.wantCreates {
				t.Errorf("expected %d folder creates, got %d", tt.wantCreates, tt.mock.folderCreates)
			}
		})
	}
}

func TestStore_EnsureAppFolder_CachesResult(t *testing.T) {
	mock := &mockDriveService{
		files: []*drive.File{{Id: "folder-1", Name: "VideoVerse"}},
	}
	store := newTestStore(t, mock)

	first, err := store.EnsureAppFolder(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := store.EnsureAppFolder(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first != second {
		t.Errorf("expected same folder id on both calls, got %q and %q", first, second)
	}
	if len(mock.listQueries) != 1 {
		t.Errorf("expected 1 list round trip, got %d", len(mock.listQueries))
	}
}

func TestStore_ListObjects(t *testing.T) {
	testTime := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	mock := &mockDriveService{
		files: []*drive.File{
			{
				Id:             "obj-1",
				Name:           "demo.mp4",
				WebContentLink: "https://drive.example/obj-1",
				ThumbnailLink:  "https://drive.example/obj-1/thumb",
				CreatedTime:    testTime.Format(time.RFC3339),
				ModifiedTime:   testTime.Add(time.Hour).Format(time.RFC3339),
			},
		},
	}
	store := newTestStore(t, mock)

	objects, err := store.ListObjects(context.Background(), "folder-1", storage.Query{MimePrefix: "video/"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(objects) != 1 {
		t.Fatalf("expected 1 object, got %d", len(objects))
	}

	obj := objects[0]
	if obj.ID != "obj-1" {
		t.Errorf("expected ID 'obj-1', got %q", obj.ID)
	}
	if obj.Name != "demo.mp4" {
		t.Errorf("expected Name 'demo.mp4', got %q", obj.Name)
	}
	if obj.ThumbnailLink != "https://drive.example/obj-1/thumb" {
		t.Errorf("unexpected thumbnail link %q", obj.ThumbnailLink)
	}
	if !obj.CreatedAt.Equal(testTime) {
		t.Errorf("expected CreatedAt %v, got %v", testTime, obj.CreatedAt)
	}
	if !obj.ModifiedAt.Equal(testTime.Add(time.Hour)) {
		t.Errorf("expected ModifiedAt %v, got %v", testTime.Add(time.Hour), obj.ModifiedAt)
	}

	query := mock.listQueries[0]
	for _, want := range []string{"'folder-1' in parents", "trashed = false", "mimeType contains 'video/'"} {
		if !strings.Contains(query, want) {
			t.Errorf("expected query to contain %q, got %q", want, query)
		}
	}
}

func TestStore_ListObjects_EmptyNeverNil(t *testing.T) {
	store := newTestStore(t, &mockDriveService{files: nil})

	objects, err := store.ListObjects(context.Background(), "folder-1", storage.Query{NameEquals: "missing.json"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if objects == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(objects) != 0 {
		t.Fatalf("expected 0 objects, got %d", len(objects))
	}
}

func TestStore_PutJSONObject(t *testing.T) {
	t.Run("updates existing document in place", func(t *testing.T) {
		mock := &mockDriveService{
			files: []*drive.File{{Id: "doc-1", Name: "vid_comments.json"}},
		}
		store := newTestStore(t, mock)

		id, err := store.PutJSONObject(context.Background(), "folder-1", "vid_comments.json", []string{"a"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if id != "doc-1" {
			t.Errorf("expected preserved id 'doc-1', got %q", id)
		}
		if len(mock.updatedIDs) != 1 || mock.updatedIDs[0] != "doc-1" {
			t.Errorf("expected update of 'doc-1', got %v", mock.updatedIDs)
		}
		if len(mock.createdMetas) != 0 {
			t.Errorf("expected no create, got %d", len(mock.createdMetas))
		}
	})

	t.Run("creates new document when absent", func(t *testing.T) {
		mock := &mockDriveService{
			createResult: &drive.File{Id: "doc-new"},
		}
		store := newTestStore(t, mock)

		id, err := store.PutJSONObject(context.Background(), "folder-1", "vid_comments.json", []string{"a"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if id != "doc-new" {
			t.Errorf("expected id 'doc-new', got %q", id)
		}
		if len(mock.createdMetas) != 1 {
			t.Fatalf("expected 1 create, got %d", len(mock.createdMetas))
		}
		meta := mock.createdMetas[0]
		if meta.Name != "vid_comments.json" {
			t.Errorf("expected name 'vid_comments.json', got %q", meta.Name)
		}
		if meta.MimeType != storage.MimeTypeJSON {
			t.Errorf("expected JSON mime type, got %q", meta.MimeType)
		}
		if len(meta.Parents) != 1 || meta.Parents[0] != "folder-1" {
			t.Errorf("expected parent 'folder-1', got %v", meta.Parents)
		}
	})

	t.Run("rejects stale precondition with conflict", func(t *testing.T) {
		stored := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
		mock := &mockDriveService{
			files: []*drive.File{{
				Id:           "doc-1",
				Name:         "vid_comments.json",
				ModifiedTime: stored.Format(time.RFC3339),
			}},
		}
		store := newTestStore(t, mock)

		_, err := store.PutJSONObject(context.Background(), "folder-1", "vid_comments.json", []string{"a"},
			storage.WithExpectedModified(stored.Add(-time.Minute)))
		if !errors.Is(err, storage.ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}
		if len(mock.updatedIDs) != 0 {
			t.Errorf("expected no write after conflict, got %v", mock.updatedIDs)
		}
	})

	t.Run("accepts matching precondition", func(t *testing.T) {
		stored := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
		mock := &mockDriveService{
			files: []*drive.File{{
				Id:           "doc-1",
				Name:         "vid_comments.json",
				ModifiedTime: stored.Format(time.RFC3339),
			}},
		}
		store := newTestStore(t, mock)

		_, err := store.PutJSONObject(context.Background(), "folder-1", "vid_comments.json", []string{"a"},
			storage.WithExpectedModified(stored))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(mock.updatedIDs) != 1 {
			t.Errorf("expected 1 update, got %d", len(mock.updatedIDs))
		}
	})

	t.Run("surfaces write failure with status", func(t *testing.T) {
		mock := &mockDriveService{
			createErr: &googleapi.Error{Code: 403},
		}
		store := newTestStore(t, mock)

		_, err := store.PutJSONObject(context.Background(), "folder-1", "vid_comments.json", []string{"a"})
		var statusErr *storage.StatusError
		if !errors.As(err, &statusErr) {
			t.Fatalf("expected StatusError, got %v", err)
		}
		if statusErr.Code != 403 {
			t.Errorf("expected status 403, got %d", statusErr.Code)
		}
	})
}

func TestStore_GetObjectContent(t *testing.T) {
	mock := &mockDriveService{downloadData: []byte(`[{"id":"c1"}]`)}
	store := newTestStore(t, mock)

	data, err := store.GetObjectContent(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `[{"id":"c1"}]` {
		t.Errorf("unexpected content %q", data)
	}
}

func TestBuildQuery_EscapesNames(t *testing.T) {
	query := buildQuery("folder-1", storage.Query{NameEquals: "it's.mp4"})
	if !strings.Contains(query, `name = 'it\'s.mp4'`) {
		t.Errorf("expected escaped quote in query, got %q", query)
	}
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantZero bool
	}{
		{name: "valid RFC3339 time", input: "2026-03-14T09:00:00Z", wantZero: false},
		{name: "invalid time format", input: "invalid", wantZero: true},
		{name: "empty string", input: "", wantZero: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseTime(tt.input)
			if tt.wantZero && !result.IsZero() {
				t.Error("expected zero time, got non-zero")
			}
			if !tt.wantZero && result.IsZero() {
				t.Error("expected non-zero time, got zero")
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "deadline maps to timeout",
			err:  fmt.Errorf("Post \"https://upload\": %w", context.DeadlineExceeded),
			want: storage.ErrTimeout,
		},
		{
			name: "transport failure maps to network",
			err:  errors.New("dial tcp: connection refused"),
			want: storage.ErrNetwork,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classify(tt.err); !errors.Is(got, tt.want) {
				t.Errorf("classify(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}

	t.Run("googleapi error preserves status", func(t *testing.T) {
		got := classify(&googleapi.Error{Code: 500})
		var statusErr *storage.StatusError
		if !errors.As(got, &statusErr) {
			t.Fatalf("expected StatusError, got %v", got)
		}
		if statusErr.Code != 500 {
			t.Errorf("expected status 500, got %d", statusErr.Code)
		}
	})

	t.Run("nil stays nil", func(t *testing.T) {
		if got := classify(nil); got != nil {
			t.Errorf("expected nil, got %v", got)
		}
	})
}
