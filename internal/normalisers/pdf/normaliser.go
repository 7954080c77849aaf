// Package pdf extracts text from PDF documents using poppler's pdftotext.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aditya-mahendru/docMgr/internal/core/domain"
	"github.com/aditya-mahendru/docMgr/internal/core/ports/driven"
	"github.com/aditya-mahendru/docMgr/internal/normalisers/plaintext"
	"github.com/aditya-mahendru/docMgr/internal/normalisers/runner"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// ToolName is the external binary used for extraction.
const ToolName = "pdftotext"

// ErrPDFToolNotFound indicates pdftotext is not installed.
var ErrPDFToolNotFound = errors.New("pdftotext not found")

// Extractor handles PDF documents.
type Extractor struct {
	runner runner.CommandRunner
}

// New creates a new PDF extractor that shells out to pdftotext.
func New() *Extractor {
	return NewWithRunner(runner.ExecRunner{})
}

// NewWithRunner creates a PDF extractor with a custom command runner.
func NewWithRunner(r runner.CommandRunner) *Extractor {
	return &Extractor{runner: r}
}

// Format returns the format this extractor handles.
func (e *Extractor) Format() domain.Format {
	return domain.FormatPDF
}

// CheckAvailable reports whether pdftotext is installed.
func CheckAvailable() error {
	if !runner.ToolAvailable(ToolName) {
		return ErrPDFToolNotFound
	}
	return nil
}

// InstallInstructions returns platform hints for installing pdftotext.
func InstallInstructions() string {
	return `pdftotext is required for PDF support. Install poppler:
  macOS:          brew install poppler
  Debian/Ubuntu:  apt install poppler-utils
  Fedora:         dnf install poppler-utils`
}

// Extract returns the text of every page, pages separated by a blank line.
// Encrypted or corrupt files make pdftotext exit non-zero, which is
// reported as an extraction failure.
func (e *Extractor) Extract(ctx context.Context, content []byte) (string, error) {
	var out []byte
	err := runner.WithTempFile("docmgr-*.pdf", content, func(path string) error {
		var runErr error
		out, runErr = e.runner.Run(ctx, ToolName, "-enc", "UTF-8", "-layout", path, "-")
		return runErr
	})
	if err != nil {
		if runner.IsToolMissing(err) {
			return "", fmt.Errorf("%w: %w", domain.ErrExtractionFailed, ErrPDFToolNotFound)
		}
		return "", fmt.Errorf("%w: %v", domain.ErrExtractionFailed, err)
	}

	return joinPages(plaintext.Clean(string(out))), nil
}

// joinPages replaces pdftotext's form feeds with paragraph breaks and
// drops trailing whitespace left by layout mode.
func joinPages(text string) string {
	pages := strings.Split(text, "\f")
	kept := pages[:0]
	for _, page := range pages {
		lines := strings.Split(page, "\n")
		for i, line := range lines {
			lines[i] = strings.TrimRight(line, " \t")
		}
		if page = strings.Trim(strings.Join(lines, "\n"), "\n"); strings.TrimSpace(page) != "" {
			kept = append(kept, page)
		}
	}
	return strings.Join(kept, "\n\n")
}
