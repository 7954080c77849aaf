// Package plaintext extracts text from plain text uploads.
package plaintext

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/aditya-mahendru/docMgr/internal/core/domain"
	"github.com/aditya-mahendru/docMgr/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles plain text documents.
type Extractor struct{}

// New creates a new plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Format returns the format this extractor handles.
func (e *Extractor) Format() domain.Format {
	return domain.FormatText
}

// Extract decodes the bytes as UTF-8. Invalid sequences are replaced
// rather than rejected so that legacy-encoded files still index.
func (e *Extractor) Extract(_ context.Context, content []byte) (string, error) {
	return Clean(string(content)), nil
}

// Clean normalises line endings, strips a byte order mark and replaces
// invalid UTF-8. Other extractors reuse it for their output.
func Clean(text string) string {
	text = strings.TrimPrefix(text, "\ufeff")
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "\uFFFD")
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.ReplaceAll(text, "\x00", "")
	return text
}
