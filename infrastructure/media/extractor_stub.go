//go:build !metadata

package media

import (
	"context"
	"errors"

	"videoverse/domain/review"
)

// Extractor is a stub when OpenCV is not available. Callers already treat
// extraction failure as "no metadata", so uploads proceed without it.
type Extractor struct{}

// NewExtractor creates a stub extractor (requires building with -tags=metadata).
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns an error indicating metadata extraction is not available.
func (e *Extractor) Extract(ctx context.Context, path string) (*review.Metadata, error) {
	return nil, errors.New("metadata extraction requires -tags=metadata build with OpenCV installed")
}

// Ensure Extractor implements review.MetadataExtractor
var _ review.MetadataExtractor = (*Extractor)(nil)
