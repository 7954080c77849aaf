package services

import (
	"context"
	"fmt"

	"github.com/aditya-mahendru/docMgr/internal/core/domain"
	"github.com/aditya-mahendru/docMgr/internal/core/ports/driven"
	"github.com/aditya-mahendru/docMgr/internal/core/ports/driving"
)

// Ensure CollectionService implements the interface.
var _ driving.CollectionService = (*CollectionService)(nil)

// CollectionService reads and prunes the stored chunk collection.
type CollectionService struct {
	vectorStore driven.VectorStore
}

// NewCollectionService creates a new collection service.
func NewCollectionService(vectorStore driven.VectorStore) *CollectionService {
	return &CollectionService{vectorStore: vectorStore}
}

// Chunks returns the chunks of a document ordered by index. Unknown
// documents have no chunks.
func (s *CollectionService) Chunks(ctx context.Context, documentID string) ([]domain.Chunk, error) {
	records, err := s.vectorStore.Records(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrVectorStoreUnavailable, err)
	}
	chunks := make([]domain.Chunk, len(records))
	for i := range records {
		chunks[i] = records[i].Chunk()
	}
	return chunks, nil
}

// Delete removes a document's records.
func (s *CollectionService) Delete(ctx context.Context, documentID string) error {
	if err := s.vectorStore.Delete(ctx, documentID); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrVectorStoreUnavailable, err)
	}
	return nil
}

// Stats returns the vector store statistics.
func (s *CollectionService) Stats(ctx context.Context) (*domain.VectorStats, error) {
	stats, err := s.vectorStore.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrVectorStoreUnavailable, err)
	}
	return stats, nil
}
