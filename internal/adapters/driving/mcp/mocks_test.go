package mcp

import (
	"context"

	"github.com/aditya-mahendru/docMgr/internal/core/domain"
	"github.com/aditya-mahendru/docMgr/internal/core/ports/driving"
)

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

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	documents []domain.DocumentInfo
	err       error
}

func (m *mockDocumentService) Upload(_ context.Context, _ driving.Upload) (*driving.UploadOutcome, error) {
	return nil, m.err
}

func (m *mockDocumentService) UploadBatch(_ context.Context, _ []driving.Upload) ([]driving.UploadOutcome, error) {
	return nil, m.err
}

func (m *mockDocumentService) Get(_ context.Context, _ string) (*domain.DocumentInfo, error) {
	return nil, m.err
}

func (m *mockDocumentService) List(_ context.Context) ([]domain.DocumentInfo, error) {
	return m.documents, m.err
}

func (m *mockDocumentService) Remove(_ context.Context, _ string) error {
	return m.err
}
