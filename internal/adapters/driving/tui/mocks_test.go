package tui

import (
	"context"
	"errors"

	"github.com/aditya-mahendru/docMgr/internal/core/domain"
	"github.com/aditya-mahendru/docMgr/internal/core/ports/driving"
)

type mockSearchService struct {
	results []domain.SearchResult
	err     error
	gotOpts domain.SearchOptions
}

func (m *mockSearchService) Search(_ context.Context, _ string, opts domain.SearchOptions) ([]domain.SearchResult, error) {
	m.gotOpts = opts
	return m.results, m.err
}

type mockDocumentService struct {
	docs []domain.DocumentInfo
}

func (m *mockDocumentService) Upload(context.Context, driving.Upload) (*driving.UploadOutcome, error) {
	return nil, errors.New("not implemented")
}

func (m *mockDocumentService) UploadBatch(context.Context, []driving.Upload) ([]driving.UploadOutcome, error) {
	return nil, errors.New("not implemented")
}

func (m *mockDocumentService) Get(_ context.Context, id string) (*domain.DocumentInfo, error) {
	for i := range m.docs {
		if m.docs[i].ID == id {
			return &m.docs[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockDocumentService) List(context.Context) ([]domain.DocumentInfo, error) {
	return m.docs, nil
}

func (m *mockDocumentService) Remove(context.Context, string) error {
	return nil
}

type mockCollectionService struct {
	chunks   map[string][]domain.Chunk
	stats    *domain.VectorStats
	chunkErr error
}

func (m *mockCollectionService) Chunks(_ context.Context, id string) ([]domain.Chunk, error) {
	return m.chunks[id], m.chunkErr
}

func (m *mockCollectionService) Delete(context.Context, string) error {
	return nil
}

func (m *mockCollectionService) Stats(context.Context) (*domain.VectorStats, error) {
	return m.stats, nil
}
