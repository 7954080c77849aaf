package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/aditya-mahendru/docMgr/internal/core/domain"
	"github.com/aditya-mahendru/docMgr/internal/core/ports/driven"
	"github.com/aditya-mahendru/docMgr/internal/core/ports/driving"
	"github.com/aditya-mahendru/docMgr/internal/keylock"
	"github.com/aditya-mahendru/docMgr/internal/logger"
)

// Ensure IngestionService implements the interface.
var _ driving.IngestionService = (*IngestionService)(nil)

// Ingestion defaults.
const (
	DefaultIngestWorkers = 4
	DefaultMaxBatch      = 10
)

// IngestConfig configures an IngestionService. Zero fields take defaults.
type IngestConfig struct {
	// Workers bounds how many batch documents are processed at once.
	Workers int

	// MaxBatch is the largest accepted batch.
	MaxBatch int
}

// IngestionService drives documents through normalise, chunk, embed and
// store. Records are written only after every chunk is embedded, so a
// failed run leaves the vector store as it was.
type IngestionService struct {
	normaliser  *Normaliser
	chunker     driven.Chunker
	embedder    *EmbeddingGateway
	vectorStore driven.VectorStore
	metadata    driven.MetadataStore
	blobs       driven.BlobStore
	cfg         IngestConfig

	// docs serialises the store stage with document removal.
	docs *keylock.Locker
}

// NewIngestionService creates a new ingestion service.
func NewIngestionService(
	normaliser *Normaliser,
	chunker driven.Chunker,
	embedder *EmbeddingGateway,
	vectorStore driven.VectorStore,
	cfg IngestConfig,
) *IngestionService {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultIngestWorkers
	}
	if cfg.MaxBatch <= 0 {
		cfg.MaxBatch = DefaultMaxBatch
	}
	return &IngestionService{
		normaliser:  normaliser,
		chunker:     chunker,
		embedder:    embedder,
		vectorStore: vectorStore,
		cfg:         cfg,
		docs:        keylock.New(),
	}
}

// lockDocument holds documentID against concurrent store or removal.
func (s *IngestionService) lockDocument(documentID string) func() {
	return s.docs.Lock(documentID)
}

// SetMetadataStore enables record provenance from the document registry.
func (s *IngestionService) SetMetadataStore(store driven.MetadataStore) {
	s.metadata = store
}

// SetBlobStore enables Reprocess.
func (s *IngestionService) SetBlobStore(store driven.BlobStore) {
	s.blobs = store
}

// MaxBatch returns the largest accepted batch.
func (s *IngestionService) MaxBatch() int {
	return s.cfg.MaxBatch
}

// Ingest runs one document through the pipeline.
func (s *IngestionService) Ingest(ctx context.Context, raw domain.RawDocument) (*domain.IngestReport, error) {
	if strings.TrimSpace(raw.DocumentID) == "" {
		return nil, fmt.Errorf("%w: document id is required", domain.ErrInvalidParameter)
	}
	run := newIngestRun(raw.DocumentID)
	if s.metadata != nil {
		_, err := s.metadata.Get(ctx, raw.DocumentID)
		run.registered = err == nil
	}
	run.enter(domain.StateReceived)
	return s.process(ctx, run, raw)
}

// Reprocess re-ingests a registered document from its stored bytes. The
// run starts at the normalising stage.
func (s *IngestionService) Reprocess(ctx context.Context, documentID string) (*domain.IngestReport, error) {
	if s.metadata == nil || s.blobs == nil {
		return nil, errors.New("reprocessing requires a metadata store and a blob store")
	}
	info, err := s.metadata.Get(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("loading document %s: %w", documentID, err)
	}
	content, err := s.blobs.Get(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("loading content of %s: %w", documentID, err)
	}

	logger.Info("Reprocessing %s (%s)", documentID, info.Filename)
	raw := domain.RawDocument{
		DocumentID:  documentID,
		ContentType: info.ContentType,
		Content:     content,
	}
	run := newIngestRun(documentID)
	run.registered = true
	return s.process(ctx, run, raw)
}

// IngestBatch ingests each document independently with bounded parallelism.
// Results keep input order.
func (s *IngestionService) IngestBatch(ctx context.Context, raws []domain.RawDocument) (*domain.BatchResult, error) {
	if len(raws) > s.cfg.MaxBatch {
		return nil, fmt.Errorf("%w: batch of %d exceeds the limit of %d",
			domain.ErrInvalidParameter, len(raws), s.cfg.MaxBatch)
	}
	logger.Section("Batch Ingestion")
	logger.Debug("Ingesting %d documents with %d workers", len(raws), s.cfg.Workers)

	errs := make([]error, len(raws))
	var g errgroup.Group
	g.SetLimit(s.cfg.Workers)
	for i := range raws {
		g.Go(func() error {
			_, errs[i] = s.Ingest(ctx, raws[i])
			return nil
		})
	}
	_ = g.Wait()

	result := &domain.BatchResult{
		Succeeded: []string{},
		Failed:    []domain.BatchFailure{},
	}
	for i, err := range errs {
		if err == nil {
			result.Succeeded = append(result.Succeeded, raws[i].DocumentID)
			continue
		}
		failure := domain.BatchFailure{DocumentID: raws[i].DocumentID, Stage: domain.StateReceived, Err: err}
		var stageErr *domain.StageError
		if errors.As(err, &stageErr) {
			failure.Stage = stageErr.Stage
		}
		result.Failed = append(result.Failed, failure)
	}
	logger.Info("Batch done: %d stored, %d failed", len(result.Succeeded), len(result.Failed))
	return result, nil
}

// process runs the stages after Received.
func (s *IngestionService) process(
	ctx context.Context, run *ingestRun, raw domain.RawDocument,
) (*domain.IngestReport, error) {
	run.enter(domain.StateNormalizing)
	text, err := s.normaliser.Normalise(ctx, raw.Content, raw.ContentType)
	if err != nil {
		return run.fail(err)
	}

	run.enter(domain.StateChunking)
	chunks := s.chunker.Chunk(text)
	if len(chunks) == 0 {
		return run.fail(domain.ErrEmptyContent)
	}
	logger.Debug("Document %s: %d chunks", raw.DocumentID, len(chunks))

	run.enter(domain.StateEmbedding)
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return run.fail(err)
	}

	run.enter(domain.StateStoring)
	records := s.records(ctx, raw, chunks, vectors)

	unlock := s.lockDocument(raw.DocumentID)
	defer unlock()
	if run.registered {
		if _, err := s.metadata.Get(ctx, raw.DocumentID); errors.Is(err, domain.ErrNotFound) {
			return run.fail(fmt.Errorf("%w: document %s was removed during ingestion", domain.ErrNotFound, raw.DocumentID))
		}
	}
	if err := s.vectorStore.Upsert(ctx, raw.DocumentID, records); err != nil {
		return run.fail(fmt.Errorf("%w: %v", domain.ErrVectorStoreUnavailable, err))
	}

	run.report.Chunks = len(records)
	run.enter(domain.StateStored)
	return run.report, nil
}

// records builds the embedding records with their provenance.
func (s *IngestionService) records(
	ctx context.Context, raw domain.RawDocument, chunks []driven.TextChunk, vectors [][]float32,
) []domain.EmbeddingRecord {
	base := domain.RecordMetadata{
		ContentType: raw.ContentType,
		TotalChunks: len(chunks),
	}
	if s.metadata != nil {
		if info, err := s.metadata.Get(ctx, raw.DocumentID); err == nil {
			base.Filename = info.Filename
			base.Description = info.Description
			if info.ContentType != "" {
				base.ContentType = info.ContentType
			}
		}
	}

	records := make([]domain.EmbeddingRecord, len(chunks))
	for i, c := range chunks {
		md := base
		md.Text = c.Text
		md.TokenCount = c.TokenCount
		md.ChunkSize = utf8.RuneCountInString(c.Text)
		records[i] = domain.EmbeddingRecord{
			DocumentID: raw.DocumentID,
			ChunkIndex: i,
			Vector:     vectors[i],
			Metadata:   md,
		}
	}
	return records
}

// ingestRun tracks one document's walk through the state machine.
type ingestRun struct {
	report *domain.IngestReport

	// registered is set when the document was in the registry at the
	// start; its removal mid-run aborts the store.
	registered bool
}

func newIngestRun(documentID string) *ingestRun {
	return &ingestRun{report: &domain.IngestReport{DocumentID: documentID}}
}

func (r *ingestRun) enter(state domain.IngestState) {
	r.report.State = state
	r.report.Trace = append(r.report.Trace, state)
	logger.Debug("Document %s: %s", r.report.DocumentID, state)
}

// fail moves the run to Failed, recording the stage that was active.
func (r *ingestRun) fail(err error) (*domain.IngestReport, error) {
	stage := r.report.State
	r.report.FailedStage = stage
	r.enter(domain.StateFailed)
	logger.Warn("Document %s failed at %s: %v", r.report.DocumentID, stage, err)
	return r.report, &domain.StageError{DocumentID: r.report.DocumentID, Stage: stage, Err: err}
}
