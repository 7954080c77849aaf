package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/aditya-mahendru/docMgr/internal/config"
	"github.com/aditya-mahendru/docMgr/internal/core/domain"
	"github.com/aditya-mahendru/docMgr/internal/core/ports/driving"
)

// testMocks holds the mock services installed by setupTestServices.
type testMocks struct {
	search     *mockSearchService
	documents  *mockDocumentService
	ingestion  *mockIngestionService
	collection *mockCollectionService
}

// setupTestServices installs mock services and a default configuration,
// restoring the previous state when the test ends.
func setupTestServices(t *testing.T) *testMocks {
	t.Helper()

	origConfig := appConfig
	origServices := &Services{
		Search:     searchService,
		Document:   documentService,
		Ingestion:  ingestionService,
		Collection: collectionService,
	}
	origBootstrap := bootstrap

	m := &testMocks{
		search:     &mockSearchService{},
		documents:  newMockDocumentService(),
		ingestion:  &mockIngestionService{},
		collection: &mockCollectionService{chunks: map[string][]domain.Chunk{}},
	}
	appConfig = config.Default()
	bootstrap = nil
	SetServices(&Services{
		Search:     m.search,
		Document:   m.documents,
		Ingestion:  m.ingestion,
		Collection: m.collection,
	})
	resetFlags(rootCmd)

	t.Cleanup(func() {
		appConfig = origConfig
		bootstrap = origBootstrap
		SetServices(origServices)
		resetFlags(rootCmd)
	})
	return m
}

// resetFlags restores every flag of cmd and its children to its default.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, child := range cmd.Commands() {
		resetFlags(child)
	}
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	results []domain.SearchResult
	err     error

	gotQuery string
	gotOpts  domain.SearchOptions
}

func (m *mockSearchService) Search(
	_ context.Context,
	query string,
	opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	m.gotQuery = query
	m.gotOpts = opts
	return m.results, m.err
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	documents map[string]domain.DocumentInfo
	failing   map[string]error

	uploads []driving.Upload
	batches int
	removed []string
}

func newMockDocumentService() *mockDocumentService {
	return &mockDocumentService{
		documents: make(map[string]domain.DocumentInfo),
		failing:   make(map[string]error),
	}
}

func (m *mockDocumentService) upload(upload driving.Upload) driving.UploadOutcome {
	m.uploads = append(m.uploads, upload)
	name := filepath.Base(upload.Filename)
	info := domain.DocumentInfo{
		ID:          "doc-" + name,
		Filename:    name,
		ContentType: domain.ResolveContentType(name, upload.ContentType),
		Size:        int64(len(upload.Content)),
		Description: upload.Description,
	}
	m.documents[info.ID] = info

	if err := m.failing[name]; err != nil {
		return driving.UploadOutcome{
			Document: info,
			Report:   &domain.IngestReport{DocumentID: info.ID, State: domain.StateFailed},
			Err:      err,
		}
	}
	return driving.UploadOutcome{
		Document: info,
		Report:   &domain.IngestReport{DocumentID: info.ID, State: domain.StateStored, Chunks: 2},
	}
}

func (m *mockDocumentService) Upload(_ context.Context, upload driving.Upload) (*driving.UploadOutcome, error) {
	outcome := m.upload(upload)
	return &outcome, nil
}

func (m *mockDocumentService) UploadBatch(_ context.Context, uploads []driving.Upload) ([]driving.UploadOutcome, error) {
	m.batches++
	outcomes := make([]driving.UploadOutcome, len(uploads))
	for i := range uploads {
		outcomes[i] = m.upload(uploads[i])
	}
	return outcomes, nil
}

func (m *mockDocumentService) Get(_ context.Context, id string) (*domain.DocumentInfo, error) {
	doc, ok := m.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

func (m *mockDocumentService) List(_ context.Context) ([]domain.DocumentInfo, error) {
	docs := make([]domain.DocumentInfo, 0, len(m.documents))
	for _, doc := range m.documents {
		docs = append(docs, doc)
	}
	return docs, nil
}

func (m *mockDocumentService) Remove(_ context.Context, id string) error {
	if _, ok := m.documents[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.documents, id)
	m.removed = append(m.removed, id)
	return nil
}

// mockIngestionService is a mock implementation of driving.IngestionService.
type mockIngestionService struct {
	err error

	reprocessed []string
}

func (m *mockIngestionService) Ingest(_ context.Context, raw domain.RawDocument) (*domain.IngestReport, error) {
	return &domain.IngestReport{DocumentID: raw.DocumentID, State: domain.StateStored}, m.err
}

func (m *mockIngestionService) IngestBatch(_ context.Context, _ []domain.RawDocument) (*domain.BatchResult, error) {
	return &domain.BatchResult{}, m.err
}

func (m *mockIngestionService) Reprocess(_ context.Context, documentID string) (*domain.IngestReport, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.reprocessed = append(m.reprocessed, documentID)
	return &domain.IngestReport{DocumentID: documentID, State: domain.StateStored, Chunks: 3}, nil
}

// mockCollectionService is a mock implementation of driving.CollectionService.
type mockCollectionService struct {
	chunks map[string][]domain.Chunk
	err    error
}

func (m *mockCollectionService) Chunks(_ context.Context, documentID string) ([]domain.Chunk, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.chunks[documentID], nil
}

func (m *mockCollectionService) Delete(_ context.Context, _ string) error {
	return m.err
}

func (m *mockCollectionService) Stats(_ context.Context) (*domain.VectorStats, error) {
	if m.err != nil {
		return nil, m.err
	}
	records := 0
	for _, chunks := range m.chunks {
		records += len(chunks)
	}
	return &domain.VectorStats{
		RecordCount:   records,
		DocumentCount: len(m.chunks),
		Dimensions:    512,
		Collection:    "documents",
	}, nil
}
