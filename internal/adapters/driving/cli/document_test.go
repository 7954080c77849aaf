package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aditya-mahendru/docMgr/internal/core/domain"
)

func TestDocumentCmd_HasSubcommands(t *testing.T) {
	names := make([]string, 0, len(documentCmd.Commands()))
	for _, cmd := range documentCmd.Commands() {
		names = append(names, cmd.Name())
	}
	assert.ElementsMatch(t, []string{"list", "get", "chunks", "reprocess", "delete"}, names)
}

func TestDocumentListCmd(t *testing.T) {
	m := setupTestServices(t)

	out, err := execute(t, "document", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No documents found.")

	m.documents.documents["doc-1"] = domain.DocumentInfo{
		ID:          "doc-1",
		Filename:    "report.pdf",
		ContentType: domain.MIMEPDF,
		Description: "quarterly",
	}

	out, err = execute(t, "document", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "doc-1")
	assert.Contains(t, out, "File: report.pdf (application/pdf)")
	assert.Contains(t, out, "Description: quarterly")
	assert.Contains(t, out, "Total: 1 documents")
}

func TestDocumentGetCmd(t *testing.T) {
	m := setupTestServices(t)
	m.documents.documents["doc-1"] = domain.DocumentInfo{ID: "doc-1", Filename: "a.txt", Size: 12}
	m.collection.chunks["doc-1"] = []domain.Chunk{{Text: "one"}, {Text: "two"}}

	out, err := execute(t, "document", "get", "doc-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Document: doc-1")
	assert.Contains(t, out, "Size:     12 bytes")
	assert.Contains(t, out, "Chunks:   2")

	_, err = execute(t, "document", "get", "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentGetCmd_RequiresExactlyOneArg(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "document", "get")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestDocumentChunksCmd(t *testing.T) {
	m := setupTestServices(t)
	m.collection.chunks["doc-1"] = []domain.Chunk{
		{DocumentID: "doc-1", ChunkIndex: 0, Text: "first chunk", TokenCount: 2},
		{DocumentID: "doc-1", ChunkIndex: 1, Text: "second chunk", TokenCount: 2},
	}

	out, err := execute(t, "document", "chunks", "doc-1")
	require.NoError(t, err)
	assert.Contains(t, out, "--- chunk 0 (2 tokens) ---")
	assert.Contains(t, out, "second chunk")
	assert.Contains(t, out, "Total: 2 chunks")

	out, err = execute(t, "document", "chunks", "other")
	require.NoError(t, err)
	assert.Contains(t, out, "No chunks found for document: other")
}

func TestDocumentChunksCmd_JSON(t *testing.T) {
	m := setupTestServices(t)
	m.collection.chunks["doc-1"] = []domain.Chunk{{DocumentID: "doc-1", Text: "only", TokenCount: 1}}

	out, err := execute(t, "document", "chunks", "--json", "doc-1")
	require.NoError(t, err)

	var chunks []domain.Chunk
	require.NoError(t, json.Unmarshal([]byte(out), &chunks))
	require.Len(t, chunks, 1)
	assert.Equal(t, "only", chunks[0].Text)
}

func TestDocumentReprocessCmd(t *testing.T) {
	m := setupTestServices(t)

	out, err := execute(t, "document", "reprocess", "doc-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Document doc-1 reprocessed: 3 chunks stored.")
	assert.Equal(t, []string{"doc-1"}, m.ingestion.reprocessed)

	m.ingestion.err = domain.ErrNotFound
	_, err = execute(t, "document", "reprocess", "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentDeleteCmd(t *testing.T) {
	m := setupTestServices(t)
	m.documents.documents["doc-1"] = domain.DocumentInfo{ID: "doc-1"}

	out, err := execute(t, "document", "delete", "doc-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Document doc-1 deleted.")
	assert.Equal(t, []string{"doc-1"}, m.documents.removed)

	_, err = execute(t, "document", "delete", "doc-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentCmds_NoServices(t *testing.T) {
	setupTestServices(t)
	documentService = nil
	ingestionService = nil
	collectionService = nil

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"document", "list"}, "document service not configured"},
		{[]string{"document", "get", "x"}, "document service not configured"},
		{[]string{"document", "chunks", "x"}, "collection service not configured"},
		{[]string{"document", "reprocess", "x"}, "ingestion service not configured"},
		{[]string{"document", "delete", "x"}, "document service not configured"},
	}

	for _, tt := range tests {
		t.Run(tt.args[1], func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
