package driven

import (
	"context"

	"github.com/aditya-mahendru/docMgr/internal/core/domain"
)

// MetadataStore is the registry of uploaded documents.
type MetadataStore interface {
	// Save stores or updates a document.
	Save(ctx context.Context, info domain.DocumentInfo) error

	// Get retrieves a document by ID. Returns domain.ErrNotFound if absent.
	Get(ctx context.Context, id string) (*domain.DocumentInfo, error)

	// Delete removes a document. Absent documents are not an error.
	Delete(ctx context.Context, id string) error

	// List returns all documents, newest first.
	List(ctx context.Context) ([]domain.DocumentInfo, error)
}

// BlobStore persists the raw bytes of uploads for reprocessing.
type BlobStore interface {
	// Put stores the bytes for a document, replacing any previous value.
	Put(ctx context.Context, id string, data []byte) error

	// Get returns the bytes for a document. Returns domain.ErrNotFound if absent.
	Get(ctx context.Context, id string) ([]byte, error)

	// Delete removes the bytes for a document. Absent documents are not an error.
	Delete(ctx context.Context, id string) error
}
