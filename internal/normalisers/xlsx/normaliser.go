// Package xlsx extracts text from Excel workbooks.
package xlsx

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/aditya-mahendru/docMgr/internal/core/domain"
	"github.com/aditya-mahendru/docMgr/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles XLSX workbooks.
type Extractor struct{}

// New creates a new XLSX extractor.
func New() *Extractor {
	return &Extractor{}
}

// Format returns the format this extractor handles.
func (e *Extractor) Format() domain.Format {
	return domain.FormatXLSX
}

// Extract renders each sheet as a titled block, one row per line with
// cells joined by " | ". Empty rows and sheets are skipped.
func (e *Extractor) Extract(_ context.Context, content []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("%w: open workbook: %v", domain.ErrExtractionFailed, err)
	}
	defer f.Close()

	var sheets []string
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return "", fmt.Errorf("%w: read sheet %s: %v", domain.ErrExtractionFailed, name, err)
		}

		var lines []string
		for _, row := range rows {
			cells := make([]string, 0, len(row))
			for _, cell := range row {
				cells = append(cells, strings.TrimSpace(cell))
			}
			if line := strings.Join(cells, " | "); strings.Trim(line, " |") != "" {
				lines = append(lines, line)
			}
		}
		if len(lines) == 0 {
			continue
		}
		sheets = append(sheets, "Sheet: "+name+"\n"+strings.Join(lines, "\n"))
	}

	return strings.Join(sheets, "\n\n"), nil
}
