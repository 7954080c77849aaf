package normalisers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aditya-mahendru/docMgr/internal/core/domain"
)

func TestDefaults_OnePerFormat(t *testing.T) {
	seen := make(map[domain.Format]bool)
	for _, e := range Defaults() {
		assert.False(t, seen[e.Format()], "duplicate extractor for %s", e.Format())
		seen[e.Format()] = true
	}

	for _, f := range []domain.Format{
		domain.FormatText, domain.FormatMarkdown, domain.FormatHTML,
		domain.FormatPDF, domain.FormatDOCX, domain.FormatXLSX,
		domain.FormatEmail,
	} {
		assert.True(t, seen[f], "missing extractor for %s", f)
	}
	assert.False(t, seen[domain.FormatImage])
}
