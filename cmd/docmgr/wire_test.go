package main

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aditya-mahendru/docMgr/internal/adapters/driven/embedding/local"
	"github.com/aditya-mahendru/docMgr/internal/adapters/driven/storage/memory"
	"github.com/aditya-mahendru/docMgr/internal/config"
	"github.com/aditya-mahendru/docMgr/internal/core/domain"
	"github.com/aditya-mahendru/docMgr/internal/core/ports/driving"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Vision.OCRCommand = "docmgr-test-missing-ocr"
	return cfg
}

func TestAssemble_EndToEnd(t *testing.T) {
	ctx := context.Background()
	svc, release, err := assemble(testConfig(),
		memory.NewVectorStore("documents"), memory.NewMetadataStore(), memory.NewBlobStore())
	require.NoError(t, err)
	t.Cleanup(func() { _ = release() })

	text := strings.Repeat("the harbour ferry timetable changes in winter ", 30)
	outcome, err := svc.Document.Upload(ctx, driving.Upload{Filename: "ferry.txt", Content: []byte(text)})
	require.NoError(t, err)
	require.NoError(t, outcome.Err)
	assert.Equal(t, domain.StateStored, outcome.Report.State)

	results, err := svc.Search.Search(ctx, "harbour ferry timetable", domain.DefaultSearchOptions())
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, outcome.Document.ID, results[0].DocumentID)
	assert.Equal(t, "ferry.txt", results[0].Metadata.Filename)

	stats, err := svc.Collection.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, local.DefaultDimensions, stats.Dimensions)
	assert.Equal(t, 1, stats.DocumentCount)

	report, err := svc.Ingestion.Reprocess(ctx, outcome.Document.ID)
	require.NoError(t, err)
	assert.Equal(t, stats.RecordCount, report.Chunks)
}

func TestAssemble_ImagesRejectedWithoutOCR(t *testing.T) {
	svc, release, err := assemble(testConfig(),
		memory.NewVectorStore("documents"), memory.NewMetadataStore(), memory.NewBlobStore())
	require.NoError(t, err)
	t.Cleanup(func() { _ = release() })

	outcome, err := svc.Document.Upload(context.Background(), driving.Upload{
		Filename: "scan.png",
		Content:  []byte{0x89, 'P', 'N', 'G'},
	})
	require.NoError(t, err)
	assert.ErrorIs(t, outcome.Err, domain.ErrUnsupportedFormat)
}

func TestAssemble_ChunkingFromConfig(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	cfg.Chunking.MaxTokens = 10
	cfg.Chunking.OverlapTokens = 2
	svc, release, err := assemble(cfg,
		memory.NewVectorStore("documents"), memory.NewMetadataStore(), memory.NewBlobStore())
	require.NoError(t, err)
	t.Cleanup(func() { _ = release() })

	words := strings.TrimSpace(strings.Repeat("word ", 26))
	outcome, err := svc.Document.Upload(ctx, driving.Upload{Filename: "w.txt", Content: []byte(words)})
	require.NoError(t, err)
	require.NoError(t, outcome.Err)

	chunks, err := svc.Collection.Chunks(ctx, outcome.Document.ID)
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	assert.Equal(t, 10, chunks[0].TokenCount)
	assert.Equal(t, 10, chunks[1].TokenCount)
	assert.Equal(t, 10, chunks[2].TokenCount)
}

func TestAssemble_MisconfiguredEmbedding(t *testing.T) {
	cfg := testConfig()
	cfg.Embedding.Provider = config.ProviderOpenAI

	_, _, err := assemble(cfg,
		memory.NewVectorStore("documents"), memory.NewMetadataStore(), memory.NewBlobStore())
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestBootstrap(t *testing.T) {
	cfg := testConfig()
	cfg.Data.Dir = t.TempDir()

	svc, closeFn, err := bootstrap(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeFn() })

	stats, err := svc.Collection.Stats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.RecordCount)
	assert.Equal(t, "documents", stats.Collection)
}
