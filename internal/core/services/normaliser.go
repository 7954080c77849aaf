package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aditya-mahendru/docMgr/internal/core/domain"
	"github.com/aditya-mahendru/docMgr/internal/core/ports/driven"
	"github.com/aditya-mahendru/docMgr/internal/logger"
)

// Normaliser turns raw document bytes into clean text. It selects an
// extractor by the format of the declared content type. Images go through
// OCR and, when configured, an image describer.
type Normaliser struct {
	extractors map[domain.Format]driven.Extractor
	ocr        driven.OCR
	describer  driven.ImageDescriber
}

// NewNormaliser creates a normaliser over the given extractors. A later
// extractor for the same format replaces an earlier one.
func NewNormaliser(extractors ...driven.Extractor) *Normaliser {
	n := &Normaliser{extractors: make(map[domain.Format]driven.Extractor, len(extractors))}
	for _, e := range extractors {
		n.extractors[e.Format()] = e
	}
	return n
}

// SetOCR enables image uploads.
func (n *Normaliser) SetOCR(ocr driven.OCR) {
	n.ocr = ocr
}

// SetImageDescriber adds a generated description to image text.
// Without one, image text is the OCR output alone.
func (n *Normaliser) SetImageDescriber(describer driven.ImageDescriber) {
	n.describer = describer
}

// Supports reports whether contentType can be normalised.
func (n *Normaliser) Supports(contentType string) bool {
	format := domain.FormatOf(contentType)
	if format == domain.FormatImage {
		return n.ocr != nil
	}
	_, ok := n.extractors[format]
	return ok
}

// Normalise extracts the text of content. Errors wrap
// domain.ErrUnsupportedFormat, domain.ErrExtractionFailed or
// domain.ErrEmptyContent.
func (n *Normaliser) Normalise(ctx context.Context, content []byte, contentType string) (string, error) {
	format := domain.FormatOf(contentType)
	logger.Debug("Normalising %d bytes as %s (%q)", len(content), format, contentType)

	var (
		text string
		err  error
	)
	switch {
	case format == domain.FormatImage && n.ocr != nil:
		text, err = n.imageText(ctx, content)
	case format != domain.FormatImage && n.extractors[format] != nil:
		text, err = n.extractors[format].Extract(ctx, content)
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, contentType)
	}
	if err != nil {
		if errors.Is(err, domain.ErrExtractionFailed) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", domain.ErrExtractionFailed, err)
	}

	if strings.TrimSpace(text) == "" {
		return "", domain.ErrEmptyContent
	}
	return text, nil
}

// imageText joins OCR text and the image description, OCR first,
// separated by one blank line.
func (n *Normaliser) imageText(ctx context.Context, image []byte) (string, error) {
	ocrText, err := n.ocr.Recognise(ctx, image)
	if err != nil {
		return "", err
	}
	ocrText = strings.TrimSpace(ocrText)

	if n.describer == nil {
		return ocrText, nil
	}

	description, err := n.describer.Describe(ctx, image, ocrText)
	if err != nil {
		logger.Warn("Image description failed, using OCR text only: %v", err)
		return ocrText, nil
	}
	description = strings.TrimSpace(description)

	switch {
	case ocrText == "":
		return description, nil
	case description == "":
		return ocrText, nil
	default:
		return ocrText + "\n\n" + description, nil
	}
}
