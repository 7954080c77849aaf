package api

import (
	"context"

	"github.com/aditya-mahendru/docMgr/internal/core/domain"
	"github.com/aditya-mahendru/docMgr/internal/core/ports/driving"
)

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	documents map[string]domain.DocumentInfo
	ingestErr error
	err       error

	uploads []driving.Upload
	removed []string
}

func newMockDocumentService() *mockDocumentService {
	return &mockDocumentService{documents: make(map[string]domain.DocumentInfo)}
}

func (m *mockDocumentService) register(upload driving.Upload) driving.UploadOutcome {
	m.uploads = append(m.uploads, upload)
	if upload.Filename == "" {
		return driving.UploadOutcome{Err: domain.ErrInvalidParameter}
	}
	info := domain.DocumentInfo{
		ID:          "doc-" + upload.Filename,
		Filename:    upload.Filename,
		ContentType: domain.ResolveContentType(upload.Filename, upload.ContentType),
		Size:        int64(len(upload.Content)),
		Description: upload.Description,
	}
	m.documents[info.ID] = info

	outcome := driving.UploadOutcome{Document: info}
	if m.ingestErr != nil {
		outcome.Report = &domain.IngestReport{DocumentID: info.ID, State: domain.StateFailed}
		outcome.Err = m.ingestErr
		return outcome
	}
	outcome.Report = &domain.IngestReport{DocumentID: info.ID, State: domain.StateStored, Chunks: 1}
	return outcome
}

func (m *mockDocumentService) Upload(_ context.Context, upload driving.Upload) (*driving.UploadOutcome, error) {
	if m.err != nil {
		return nil, m.err
	}
	outcome := m.register(upload)
	if outcome.Document.ID == "" {
		return nil, outcome.Err
	}
	return &outcome, nil
}

func (m *mockDocumentService) UploadBatch(_ context.Context, uploads []driving.Upload) ([]driving.UploadOutcome, error) {
	if m.err != nil {
		return nil, m.err
	}
	if len(uploads) == 0 {
		return nil, domain.ErrInvalidParameter
	}
	outcomes := make([]driving.UploadOutcome, len(uploads))
	for i := range uploads {
		outcomes[i] = m.register(uploads[i])
		if outcomes[i].Document.ID == "" {
			outcomes[i].Document.Filename = uploads[i].Filename
		}
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
	if m.err != nil {
		return nil, m.err
	}
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
	return &domain.IngestReport{
		DocumentID: documentID,
		State:      domain.StateStored,
		Chunks:     3,
		Trace: []domain.IngestState{
			domain.StateNormalizing, domain.StateChunking, domain.StateEmbedding,
			domain.StateStoring, domain.StateStored,
		},
	}, nil
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

// mockCollectionService is a mock implementation of driving.CollectionService.
type mockCollectionService struct {
	chunks map[string][]domain.Chunk
	stats  *domain.VectorStats
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
	return m.stats, nil
}
