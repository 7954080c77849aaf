package normalisers

import (
	"github.com/aditya-mahendru/docMgr/internal/core/ports/driven"
	"github.com/aditya-mahendru/docMgr/internal/normalisers/docx"
	"github.com/aditya-mahendru/docMgr/internal/normalisers/eml"
	"github.com/aditya-mahendru/docMgr/internal/normalisers/html"
	"github.com/aditya-mahendru/docMgr/internal/normalisers/markdown"
	"github.com/aditya-mahendru/docMgr/internal/normalisers/pdf"
	"github.com/aditya-mahendru/docMgr/internal/normalisers/plaintext"
	"github.com/aditya-mahendru/docMgr/internal/normalisers/xlsx"
)

// Defaults returns the built-in extractors, one per text format.
// Images are handled by the OCR and describer capabilities instead.
func Defaults() []driven.Extractor {
	return []driven.Extractor{
		plaintext.New(),
		markdown.New(),
		html.New(),
		pdf.New(),
		docx.New(),
		xlsx.New(),
		eml.New(),
	}
}
