package driven

import (
	"context"

	"github.com/aditya-mahendru/docMgr/internal/core/domain"
)

// Extractor turns the bytes of one document format into plain text.
// Implementations wrap parse failures in domain.ErrExtractionFailed.
type Extractor interface {
	// Format returns the format this extractor handles.
	Format() domain.Format

	// Extract returns the document text.
	Extract(ctx context.Context, content []byte) (string, error)
}

// OCR recognises text in an image.
type OCR interface {
	Recognise(ctx context.Context, image []byte) (string, error)
}

// ImageDescriber produces a natural-language description of an image.
// The OCR text is supplied as context and may be empty.
type ImageDescriber interface {
	Describe(ctx context.Context, image []byte, ocrText string) (string, error)
}
