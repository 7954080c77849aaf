package driving

import (
	"context"

	"github.com/aditya-mahendru/docMgr/internal/core/domain"
)

// IngestionService drives documents through the vectorisation pipeline.
type IngestionService interface {
	// Ingest runs one document to Stored or Failed.
	// The report is always returned; err is a *domain.StageError on failure.
	Ingest(ctx context.Context, raw domain.RawDocument) (*domain.IngestReport, error)

	// IngestBatch ingests documents independently. Individual failures are
	// listed in the result and never fail the call.
	IngestBatch(ctx context.Context, raws []domain.RawDocument) (*domain.BatchResult, error)

	// Reprocess re-ingests a stored document from its persisted bytes.
	Reprocess(ctx context.Context, documentID string) (*domain.IngestReport, error)
}

// CollectionService exposes the stored chunk collection.
type CollectionService interface {
	// Chunks returns the chunks of a document ordered by index.
	Chunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// Delete removes a document's records. Absent documents are not an error.
	Delete(ctx context.Context, documentID string) error

	// Stats returns the vector store statistics.
	Stats(ctx context.Context) (*domain.VectorStats, error)
}
