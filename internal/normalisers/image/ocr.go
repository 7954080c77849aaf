// Package image provides OCR for image uploads using the tesseract CLI.
package image

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

// Ensure Tesseract implements the interface.
var _ driven.OCR = (*Tesseract)(nil)

// DefaultCommand is the tesseract binary name.
const DefaultCommand = "tesseract"

// pageSegModes are tried in order until one yields text. Mode 6 assumes a
// single uniform block, which suits receipts and forms. Mode 3 is fully
// automatic segmentation.
var pageSegModes = []string{"6", "3"}

// ErrOCRToolNotFound indicates tesseract is not installed.
var ErrOCRToolNotFound = errors.New("tesseract not found")

// Tesseract recognises text by shelling out to tesseract.
type Tesseract struct {
	runner   runner.CommandRunner
	command  string
	language string
}

// Option configures the OCR adapter.
type Option func(*Tesseract)

// WithCommand overrides the tesseract binary path.
func WithCommand(cmd string) Option {
	return func(t *Tesseract) {
		if cmd != "" {
			t.command = cmd
		}
	}
}

// WithLanguage sets the tesseract language pack (e.g. "eng+deu").
func WithLanguage(lang string) Option {
	return func(t *Tesseract) {
		t.language = lang
	}
}

// WithRunner substitutes the command runner.
func WithRunner(r runner.CommandRunner) Option {
	return func(t *Tesseract) {
		if r != nil {
			t.runner = r
		}
	}
}

// NewTesseract creates a tesseract-backed OCR adapter.
func NewTesseract(opts ...Option) *Tesseract {
	t := &Tesseract{
		runner:  runner.ExecRunner{},
		command: DefaultCommand,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Available reports whether the configured binary is installed.
func (t *Tesseract) Available() bool {
	return runner.ToolAvailable(t.command)
}

// Recognise returns the text tesseract finds in the image.
func (t *Tesseract) Recognise(ctx context.Context, image []byte) (string, error) {
	var text string
	err := runner.WithTempFile("docmgr-ocr-*", image, func(path string) error {
		for _, psm := range pageSegModes {
			args := []string{path, "stdout", "--psm", psm}
			if t.language != "" {
				args = append(args, "-l", t.language)
			}
			out, err := t.runner.Run(ctx, t.command, args...)
			if err != nil {
				return err
			}
			text = plaintext.Clean(string(out))
			if strings.TrimSpace(text) != "" {
				return nil
			}
		}
		return nil
	})
	if err != nil {
		if runner.IsToolMissing(err) {
			return "", fmt.Errorf("%w: %w", domain.ErrExtractionFailed, ErrOCRToolNotFound)
		}
		return "", fmt.Errorf("%w: ocr: %v", domain.ErrExtractionFailed, err)
	}
	return text, nil
}
