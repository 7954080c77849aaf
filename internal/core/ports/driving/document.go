package driving

import (
	"context"

	"github.com/aditya-mahendru/docMgr/internal/core/domain"
)

// Upload is a file handed to the DocumentService.
type Upload struct {
	Filename    string
	ContentType string
	Description string
	Content     []byte
}

// UploadOutcome pairs a registered document with its ingestion report.
type UploadOutcome struct {
	Document domain.DocumentInfo  `json:"document"`
	Report   *domain.IngestReport `json:"report"`
	Err      error                `json:"-"`
}

// DocumentService manages uploaded documents end to end.
type DocumentService interface {
	// Upload registers a document, stores its bytes and ingests it.
	Upload(ctx context.Context, upload Upload) (*UploadOutcome, error)

	// UploadBatch uploads several files, recording per-file failures.
	UploadBatch(ctx context.Context, uploads []Upload) ([]UploadOutcome, error)

	// Get returns a registered document.
	Get(ctx context.Context, id string) (*domain.DocumentInfo, error)

	// List returns all registered documents.
	List(ctx context.Context) ([]domain.DocumentInfo, error)

	// Remove deletes a document's vectors, bytes and registration.
	Remove(ctx context.Context, id string) error
}
