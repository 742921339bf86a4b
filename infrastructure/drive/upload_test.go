package drive

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"videoverse/domain/storage"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
)

// uploadMockService consumes the content reader in small chunks so the
// progress reader fires more than once per transfer.
type uploadMockService struct {
	mockDriveService
	chunkSize int
	failAfter int // bytes to consume before failing; 0 means never
	consumed  int
}

func (m *uploadMockService) CreateFile(ctx context.Context, meta *drive.File, mimeType string, content io.Reader) (*drive.File, error) {
	m.createdMetas = append(m.createdMetas, meta)

	chunk := m.chunkSize
	if chunk <= 0 {
		chunk = 8
	}
	buf := make([]byte, chunk)
	for {
		n, err := content.Read(buf)
		m.consumed += n
		if m.failAfter > 0 && m.consumed >= m.failAfter {
			return nil, m.createErr
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
	}

	if m.createErr != nil {
		return nil, m.createErr
	}
	return m.createResult, nil
}

func newTestUploader(t *testing.T, svc DriveService, opts ...UploaderOption) *Uploader {
	t.Helper()
	opts = append([]UploaderOption{WithUploaderDriveService(svc)}, opts...)
	u, err := NewUploader(context.Background(), "", opts...)
	if err != nil {
		t.Fatalf("failed to create uploader: %v", err)
	}
	return u
}

func TestUploader_Upload_ProgressIsMonotonic(t *testing.T) {
	payload := bytes.Repeat([]byte("x"), 1000)
	mock := &uploadMockService{
		chunkSize: 64,
	}
	mock.createResult = &drive.File{
		Id:           "uploaded-id",
		Name:         "demo.mp4",
		CreatedTime:  "2026-03-14T09:00:00Z",
		ModifiedTime: "2026-03-14T09:00:00Z",
	}
	uploader := newTestUploader(t, mock)

	var reports []int
	result, err := uploader.Upload(context.Background(), "folder-1", storage.UploadRequest{
		Name:     "demo.mp4",
		MimeType: "video/mp4",
		Size:     int64(len(payload)),
		Content:  bytes.NewReader(payload),
		OnProgress: func(pct int) {
			reports = append(reports, pct)
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ID != "uploaded-id" {
		t.Errorf("expected id 'uploaded-id', got %q", result.ID)
	}

	if len(reports) == 0 {
		t.Fatal("expected progress reports")
	}
	prev := -1
	terminal := 0
	for _, pct := range reports {
		if pct < prev {
			t.Fatalf("progress went backwards: %v", reports)
		}
		if pct == 100 {
			terminal++
		}
		prev = pct
	}
	if terminal != 1 {
		t.Errorf("expected exactly one terminal 100, got %d (%v)", terminal, reports)
	}
	if reports[len(reports)-1] != 100 {
		t.Errorf("expected final report of 100, got %d", reports[len(reports)-1])
	}
}

func TestUploader_Upload_ZeroByteFile(t *testing.T) {
	mock := &uploadMockService{}
	mock.createResult = &drive.File{Id: "uploaded-id", Name: "empty.mp4"}
	uploader := newTestUploader(t, mock)

	var reports []int
	result, err := uploader.Upload(context.Background(), "folder-1", storage.UploadRequest{
		Name:    "empty.mp4",
		Size:    0,
		Content: bytes.NewReader(nil),
		OnProgress: func(pct int) {
			reports = append(reports, pct)
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ID != "uploaded-id" {
		t.Errorf("expected id 'uploaded-id', got %q", result.ID)
	}
	if len(reports) != 1 || reports[0] != 100 {
		t.Errorf("expected single terminal 100, got %v", reports)
	}
}

func TestUploader_Upload_MimeFallback(t *testing.T) {
	mock := &uploadMockService{}
	mock.createResult = &drive.File{Id: "uploaded-id"}
	uploader := newTestUploader(t, mock)

	_, err := uploader.Upload(context.Background(), "folder-1", storage.UploadRequest{
		Name:    "mystery-container",
		Size:    4,
		Content: strings.NewReader("data"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(mock.createdMetas) != 1 {
		t.Fatalf("expected 1 create, got %d", len(mock.createdMetas))
	}
	if mock.createdMetas[0].MimeType != storage.MimeTypeVideo {
		t.Errorf("expected fallback mime %q, got %q", storage.MimeTypeVideo, mock.createdMetas[0].MimeType)
	}
}

func TestUploader_Upload_NoProgressAfterFailure(t *testing.T) {
	payload := bytes.Repeat([]byte("x"), 1000)
	mock := &uploadMockService{
		chunkSize: 64,
		failAfter: 500,
	}
	mock.createErr = &googleapi.Error{Code: 503}
	uploader := newTestUploader(t, mock)

	var reports []int
	_, err := uploader.Upload(context.Background(), "folder-1", storage.UploadRequest{
		Name:    "demo.mp4",
		Size:    int64(len(payload)),
		Content: bytes.NewReader(payload),
		OnProgress: func(pct int) {
			reports = append(reports, pct)
		},
	})

	var statusErr *storage.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.Code != 503 {
		t.Errorf("expected status 503, got %d", statusErr.Code)
	}

	for _, pct := range reports {
		if pct >= 100 {
			t.Errorf("expected no terminal report after failure, got %v", reports)
		}
	}
}

func TestUploader_Upload_ErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name    string
		svcErr  error
		want    error
	}{
		{
			name:   "timeout distinct from network",
			svcErr: context.DeadlineExceeded,
			want:   storage.ErrTimeout,
		},
		{
			name:   "transport failure is network",
			svcErr: errors.New("dial tcp: connection refused"),
			want:   storage.ErrNetwork,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &uploadMockService{}
			mock.createErr = tt.svcErr
			uploader := newTestUploader(t, mock)

			_, err := uploader.Upload(context.Background(), "folder-1", storage.UploadRequest{
				Name:    "demo.mp4",
				Size:    4,
				Content: strings.NewReader("data"),
			})
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}

	t.Run("success response without id is malformed", func(t *testing.T) {
		mock := &uploadMockService{}
		mock.createResult = &drive.File{}
		uploader := newTestUploader(t, mock)

		_, err := uploader.Upload(context.Background(), "folder-1", storage.UploadRequest{
			Name:    "demo.mp4",
			Size:    4,
			Content: strings.NewReader("data"),
		})
		if !errors.Is(err, storage.ErrMalformedResponse) {
			t.Errorf("expected ErrMalformedResponse, got %v", err)
		}
	})
}

func TestProgressTracker_CapsIntermediateAt99(t *testing.T) {
	var reports []int
	tracker := &progressTracker{total: 10, report: func(pct int) {
		reports = append(reports, pct)
	}}

	tracker.add(10)
	for _, pct := range reports {
		if pct > 99 {
			t.Fatalf("intermediate report exceeded 99: %v", reports)
		}
	}

	tracker.complete()
	if reports[len(reports)-1] != 100 {
		t.Errorf("expected terminal 100, got %v", reports)
	}
}
