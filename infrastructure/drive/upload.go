package drive

import (
	"context"
	"fmt"
	"io"
	"time"

	"videoverse/domain/storage"

	"google.golang.org/api/drive/v3"
)

// DefaultUploadTimeout bounds a single video transfer. Sized for large
// files on slow links.
const DefaultUploadTimeout = 30 * time.Minute

// Uploader implements storage.Uploader against Google Drive using a
// single multipart request per upload. Progress is derived from the bytes
// the transport actually consumes, never from a timer.
type Uploader struct {
	svc     DriveService
	timeout time.Duration
}

// UploaderOption is a functional option for configuring Uploader.
type UploaderOption func(*Uploader)

// WithUploaderDriveService sets a custom drive service (for testing).
func WithUploaderDriveService(svc DriveService) UploaderOption {
	return func(u *Uploader) {
		u.svc = svc
	}
}

// WithUploadTimeout overrides the per-transfer time bound.
func WithUploadTimeout(d time.Duration) UploaderOption {
	return func(u *Uploader) {
		if d > 0 {
			u.timeout = d
		}
	}
}

// NewUploader creates a Drive-backed upload pipeline authenticated with
// the given bearer token. If no custom drive service is provided, a real
// one is initialized.
func NewUploader(ctx context.Context, accessToken string, opts ...UploaderOption) (*Uploader, error) {
	u := &Uploader{timeout: DefaultUploadTimeout}

	for _, opt := range opts {
		opt(u)
	}

	if u.svc == nil {
		svc, err := NewGoogleDriveService(ctx, accessToken)
		if err != nil {
			return nil, err
		}
		u.svc = svc
	}

	return u, nil
}

// Upload implements storage.Uploader. There is no retry here; a caller
// that wants to retry re-invokes Upload from scratch and progress starts
// over at zero.
func (u *Uploader) Upload(ctx context.Context, folderID string, req storage.UploadRequest) (*storage.UploadResult, error) {
	mimeType := req.MimeType
	if mimeType == "" {
		mimeType = storage.MimeTypeVideo
	}

	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	tracker := &progressTracker{total: req.Size, report: req.OnProgress}
	meta := &drive.File{
		Name:     req.Name,
		Parents:  []string{folderID},
		MimeType: mimeType,
	}

	created, err := u.svc.CreateFile(ctx, meta, mimeType, &progressReader{r: req.Content, tracker: tracker})
	if err != nil {
		return nil, fmt.Errorf("upload of %s failed: %w", req.Name, classify(err))
	}
	if created.Id == "" {
		return nil, fmt.Errorf("upload of %s: %w", req.Name, storage.ErrMalformedResponse)
	}

	// Terminal report only once the server has confirmed the object.
	tracker.complete()

	return &storage.UploadResult{
		ID:            created.Id,
		Name:          created.Name,
		ThumbnailLink: created.ThumbnailLink,
		CreatedAt:     parseTime(created.CreatedTime),
		ModifiedAt:    parseTime(created.ModifiedTime),
	}, nil
}

// progressTracker turns byte counts into percentage reports. The
// monotonic guard is local to one upload; concurrent uploads never share
// a tracker.
type progressTracker struct {
	total  int64
	read   int64
	max    int
	report func(int)
}

// add records n more bytes handed to the transport. Intermediate reports
// are capped at 99; 100 is reserved for confirmed completion.
func (t *progressTracker) add(n int) {
	t.read += int64(n)
	if t.report == nil || t.total <= 0 {
		return
	}
	pct := int(t.read * 100 / t.total)
	if pct > 99 {
		pct = 99
	}
	if pct > t.max {
		t.max = pct
		t.report(pct)
	}
}

func (t *progressTracker) complete() {
	if t.report == nil {
		return
	}
	t.max = 100
	t.report(100)
}

// progressReader counts bytes as the HTTP transport consumes them.
type progressReader struct {
	r       io.Reader
	tracker *progressTracker
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.tracker.add(n)
	}
	return n, err
}

// Ensure Uploader implements storage.Uploader
var _ storage.Uploader = (*Uploader)(nil)
