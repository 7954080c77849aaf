package plaintext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aditya-mahendru/docMgr/internal/core/domain"
	"github.com/aditya-mahendru/docMgr/internal/core/ports/driven"
)

func TestNew(t *testing.T) {
	extractor := New()
	require.NotNil(t, extractor)
	assert.Equal(t, domain.FormatText, extractor.Format())
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		content  []byte
		expected string
	}{
		{"simple", []byte("hello world"), "hello world"},
		{"windows line endings", []byte("a\r\nb\rc"), "a\nb\nc"},
		{"byte order mark", []byte("\ufeffhello"), "hello"},
		{"invalid utf8", []byte{'a', 0xff, 'b'}, "a\uFFFDb"},
		{"nul bytes", []byte("a\x00b"), "ab"},
		{"empty", nil, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			text, err := New().Extract(context.Background(), tc.content)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, text)
		})
	}
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.Extractor = (*Extractor)(nil)
}
