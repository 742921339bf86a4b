package review

import (
	"context"
	"time"
)

// Video is a reviewable video stored in the application folder. Its ID is
// the remote object id.
type Video struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Thumbnail   string    `json:"thumbnail,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Duration    float64   `json:"duration,omitempty"`    // seconds; zero when unknown
	AspectRatio float64   `json:"aspectRatio,omitempty"` // width/height; zero when unknown
	Versions    []Version `json:"versions,omitempty"`
}

// Version is a later upload of a video, tied back to the original purely
// by naming convention.
type Version struct {
	ID            string    `json:"id"`
	Label         string    `json:"label"`
	VersionNumber int       `json:"versionNumber"`
	VideoID       string    `json:"videoId"`
	CreatedAt     time.Time `json:"createdAt"`
}

// CommentAuthor is the author snapshot embedded in each stored comment.
type CommentAuthor struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"image,omitempty"`
	IsGuest   bool   `json:"isGuest,omitempty"`
}

// Comment is one timestamped remark on a video. Timestamp is seconds into
// the video and is not validated against the video's duration.
type Comment struct {
	ID        string        `json:"id"`
	Text      string        `json:"text"`
	Timestamp float64       `json:"timestamp"`
	User      CommentAuthor `json:"user"`
	CreatedAt time.Time     `json:"createdAt"`
}

// CommentDraft is the caller-supplied part of a new comment. The id and
// creation time are synthesized at submission.
type CommentDraft struct {
	Text      string
	Timestamp float64
	AsGuest   bool
	GuestName string // defaults to "Guest" when blank
}

// Metadata holds intrinsic properties decoded from a video file before
// upload.
type Metadata struct {
	Width       int
	Height      int
	Duration    float64 // seconds
	AspectRatio float64 // width/height
}

// MetadataExtractor decodes just enough of a video file to read its
// dimensions and duration. This is a port; the gocv adapter implements it.
type MetadataExtractor interface {
	Extract(ctx context.Context, path string) (*Metadata, error)
}
