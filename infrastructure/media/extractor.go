//go:build metadata

package media

import (
	"context"
	"fmt"

	"videoverse/domain/review"

	"gocv.io/x/gocv"
)

// Extractor implements review.MetadataExtractor using OpenCV's video
// decoding. Only the container headers are read; no frames are decoded.
type Extractor struct{}

// NewExtractor creates a new OpenCV-based metadata extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract implements review.MetadataExtractor.
func (e *Extractor) Extract(ctx context.Context, path string) (*review.Metadata, error) {
	capture, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open video %s: %w", path, err)
	}
	defer capture.Close()

	if !capture.IsOpened() {
		return nil, fmt.Errorf("unable to decode video container: %s", path)
	}

	width := int(capture.Get(gocv.VideoCaptureFrameWidth))
	height := int(capture.Get(gocv.VideoCaptureFrameHeight))
	fps := capture.Get(gocv.VideoCaptureFPS)
	frames := capture.Get(gocv.VideoCaptureFrameCount)

	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("video %s has no readable dimensions", path)
	}

	meta := &review.Metadata{
		Width:       width,
		Height:      height,
		AspectRatio: float64(width) / float64(height),
	}
	if fps > 0 && frames > 0 {
		meta.Duration = frames / fps
	}
	return meta, nil
}

// Ensure Extractor implements review.MetadataExtractor
var _ review.MetadataExtractor = (*Extractor)(nil)
