// Package docx extracts text from Word (.docx) documents.
package docx

import (
	"archive/zip"
	"bytes"
	"context"
		"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/aditya-mahendru/docMgr/internal/core/domain"
	"github.com/aditya-mahendru/docMgr/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles DOCX documents.
type Extractor struct{}

// New creates a new DOCX extractor.
func New() *Extractor {
	return &Extractor{}
}

// Format returns the format this extractor handles.
func (e *Extractor) Format() domain.Format {
	return domain.FormatDOCX
}

// Extract returns the body text in document order, tables rendered one row
// per line with cells joined by " | ", followed by header and footer text.
func (e *Extractor) Extract(_ context.Context, content []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("%w: open docx: %v", domain.ErrExtractionFailed, err)
	}

	var (
		margins  []string
		parts    = make(map[string]*zip.File)
		partKeys []string
	)
	for _, file := range reader.File {
		parts[file.Name] = file
		partKeys = append(partKeys, file.Name)
	}
	sort.Strings(partKeys)

	docPart, ok := parts["word/document.xml"]
	if !ok {
		return "", fmt.Errorf("%w: word/document.xml missing", domain.ErrExtractionFailed)
	}
	body, err := parsePart(docPart)
	if err != nil {
		return "", err
	}

	seen := make(map[string]bool)
	for _, name := range partKeys {
		base := path.Base(name)
		if path.Dir(name) != "word" || !(strings.HasPrefix(base, "header") || strings.HasPrefix(base, "footer")) {
			continue
		}
		part, err := parsePart(parts[name])
		if err != nil {
			return "", err
		}
		for _, block := range part.texts() {
			if !seen[block] {
				seen[block] = true
				margins = append(margins, block)
			}
		}
	}

	blocks := append(body.texts(), margins...)
	return strings.Join(blocks, "\n\n"), nil
}

// parsePart decodes a document, header or footer part.
func parsePart(file *zip.File) (*container, error) {
	rc, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", domain.ErrExtractionFailed, file.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrExtractionFailed, file.Name, err)
	}

	c, err := parseContainer(data)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", domain.ErrExtractionFailed, file.Name, err)
	}
	return c, nil
}
