package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aditya-mahendru/docMgr/internal/core/domain"
	"github.com/aditya-mahendru/docMgr/internal/core/ports/driven"
	"github.com/aditya-mahendru/docMgr/internal/core/ports/driving"
	"github.com/aditya-mahendru/docMgr/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService registers uploads, keeps their bytes and ingests them.
// A document stays registered when its ingestion fails, so it can be
// reprocessed later.
type DocumentService struct {
	ingestion   *IngestionService
	vectorStore driven.VectorStore
	metadata    driven.MetadataStore
	blobs       driven.BlobStore
	now         func() time.Time
	newID       func() string
}

// NewDocumentService creates a new document service.
func NewDocumentService(
	ingestion *IngestionService,
	vectorStore driven.VectorStore,
	metadata driven.MetadataStore,
	blobs driven.BlobStore,
) *DocumentService {
	return &DocumentService{
		ingestion:   ingestion,
		vectorStore: vectorStore,
		metadata:    metadata,
		blobs:       blobs,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// Upload registers a document, stores its bytes and ingests it. The error
// is non-nil only when the document could not be registered; ingestion
// failures are reported in the outcome.
func (s *DocumentService) Upload(ctx context.Context, upload driving.Upload) (*driving.UploadOutcome, error) {
	info, err := s.register(ctx, upload)
	if err != nil {
		return nil, err
	}
	report, err := s.ingestion.Ingest(ctx, rawDocument(info, upload))
	return &driving.UploadOutcome{Document: *info, Report: report, Err: err}, nil
}

// UploadBatch registers every file, then ingests the registered ones as
// one batch. Outcomes keep input order and carry per-file errors.
func (s *DocumentService) UploadBatch(ctx context.Context, uploads []driving.Upload) ([]driving.UploadOutcome, error) {
	if len(uploads) == 0 {
		return nil, fmt.Errorf("%w: no files provided", domain.ErrInvalidParameter)
	}
	if limit := s.ingestion.MaxBatch(); len(uploads) > limit {
		return nil, fmt.Errorf("%w: maximum %d files allowed per request", domain.ErrInvalidParameter, limit)
	}

	outcomes := make([]driving.UploadOutcome, len(uploads))
	raws := make([]domain.RawDocument, 0, len(uploads))
	registered := make([]int, 0, len(uploads))
	for i := range uploads {
		info, err := s.register(ctx, uploads[i])
		if err != nil {
			outcomes[i] = driving.UploadOutcome{
				Document: domain.DocumentInfo{Filename: uploads[i].Filename},
				Err:      err,
			}
			continue
		}
		outcomes[i].Document = *info
		raws = append(raws, rawDocument(info, uploads[i]))
		registered = append(registered, i)
	}

	result, err := s.ingestion.IngestBatch(ctx, raws)
	if err != nil {
		return nil, err
	}
	failed := make(map[string]error, len(result.Failed))
	for _, f := range result.Failed {
		failed[f.DocumentID] = f.Err
	}
	for _, i := range registered {
		outcomes[i].Err = failed[outcomes[i].Document.ID]
	}
	return outcomes, nil
}

// register records the document and stores its bytes. A failed blob
// write removes the registration.
func (s *DocumentService) register(ctx context.Context, upload driving.Upload) (*domain.DocumentInfo, error) {
	filename := filepath.Base(strings.TrimSpace(upload.Filename))
	if filename == "" || filename == "." || filename == string(filepath.Separator) {
		return nil, fmt.Errorf("%w: filename is required", domain.ErrInvalidParameter)
	}

	info := &domain.DocumentInfo{
		ID:          s.newID(),
		Filename:    filename,
		ContentType: domain.ResolveContentType(filename, upload.ContentType),
		Size:        int64(len(upload.Content)),
		Description: strings.TrimSpace(upload.Description),
		UploadedAt:  s.now().UTC(),
	}

	if err := s.metadata.Save(ctx, *info); err != nil {
		return nil, fmt.Errorf("registering %s: %w", filename, err)
	}
	if err := s.blobs.Put(ctx, info.ID, upload.Content); err != nil {
		_ = s.metadata.Delete(ctx, info.ID)
		return nil, fmt.Errorf("storing %s: %w", filename, err)
	}
	logger.Info("Registered %s as %s (%s, %d bytes)", filename, info.ID, info.ContentType, info.Size)
	return info, nil
}

func rawDocument(info *domain.DocumentInfo, upload driving.Upload) domain.RawDocument {
	return domain.RawDocument{
		DocumentID:  info.ID,
		ContentType: info.ContentType,
		Content:     upload.Content,
	}
}

// Get returns a registered document.
func (s *DocumentService) Get(ctx context.Context, id string) (*domain.DocumentInfo, error) {
	return s.metadata.Get(ctx, id)
}

// List returns all registered documents, newest first.
func (s *DocumentService) List(ctx context.Context) ([]domain.DocumentInfo, error) {
	return s.metadata.List(ctx)
}

// Remove deletes a document's vectors, bytes and registration. It waits
// for an ingestion of the same document that is already storing; one that
// has not reached the store stage yet finds the document gone and stores
// nothing. Returns domain.ErrNotFound if the document is not registered.
func (s *DocumentService) Remove(ctx context.Context, id string) error {
	unlock := s.ingestion.lockDocument(id)
	defer unlock()

	if _, err := s.metadata.Get(ctx, id); err != nil {
		return err
	}
	if err := s.vectorStore.Delete(ctx, id); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrVectorStoreUnavailable, err)
	}
	if err := s.blobs.Delete(ctx, id); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("deleting content of %s: %w", id, err)
	}
	if err := s.metadata.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting document %s: %w", id, err)
	}
	logger.Info("Removed document %s", id)
	return nil
}
