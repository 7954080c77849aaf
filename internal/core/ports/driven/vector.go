package driven

import (
	"context"

	"github.com/aditya-mahendru/docMgr/internal/core/domain"
)

// VectorStore persists embedding records and answers similarity queries.
//
// Mutations are serialised per document ID. Queries may run concurrently
// with mutations and observe either the old or the new record set of an
// in-flight upsert, never a mix.
type VectorStore interface {
	// Upsert atomically replaces all records of documentID with records.
	Upsert(ctx context.Context, documentID string, records []domain.EmbeddingRecord) error

	// Delete removes all records of documentID. Absent documents are not an error.
	Delete(ctx context.Context, documentID string) error

	// Query returns up to k records nearest to vector by cosine similarity,
	// scored in [0, 1]. Ties are ordered by document ID then chunk index.
	Query(ctx context.Context, vector []float32, k int) ([]domain.ScoredRecord, error)

	// Records returns the records of documentID ordered by chunk index.
	Records(ctx context.Context, documentID string) ([]domain.EmbeddingRecord, error)

	// Stats returns record and document counts.
	Stats(ctx context.Context) (*domain.VectorStats, error)
}
