package main

import (
	"errors"
	"fmt"

	"github.com/aditya-mahendru/docMgr/internal/adapters/driven/ai"
	"github.com/aditya-mahendru/docMgr/internal/adapters/driven/storage/sqlite"
	"github.com/aditya-mahendru/docMgr/internal/adapters/driving/cli"
	"github.com/aditya-mahendru/docMgr/internal/config"
	"github.com/aditya-mahendru/docMgr/internal/core/ports/driven"
	"github.com/aditya-mahendru/docMgr/internal/core/services"
	"github.com/aditya-mahendru/docMgr/internal/logger"
	"github.com/aditya-mahendru/docMgr/internal/normalisers"
	"github.com/aditya-mahendru/docMgr/internal/normalisers/image"
	"github.com/aditya-mahendru/docMgr/internal/postprocessors"
)

// bootstrap opens the store and assembles the pipeline described by cfg.
func bootstrap(cfg *config.Config) (*cli.Services, func() error, error) {
	dataDir, err := cfg.DataDir()
	if err != nil {
		return nil, nil, fmt.Errorf("resolving data directory: %w", err)
	}

	logger.Section("Bootstrap")
	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Database: %s", store.Path())

	svc, release, err := assemble(cfg, store.VectorStore(sqlite.DefaultCollection), store.MetadataStore(), store.BlobStore())
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	return svc, func() error {
		return errors.Join(release(), store.Close())
	}, nil
}

// assemble builds the services over the given stores. The returned
// function releases the AI backends.
func assemble(
	cfg *config.Config,
	vectors driven.VectorStore,
	metadata driven.MetadataStore,
	blobs driven.BlobStore,
) (*cli.Services, func() error, error) {
	backends, err := ai.Init(cfg)
	if err != nil {
		return nil, nil, err
	}
	for _, w := range backends.Warnings {
		logger.Warn("%s", w)
	}
	embedder := backends.EmbeddingService
	logger.Info("Embedding model: %s (%d dimensions)", embedder.ModelName(), embedder.Dimensions())

	gateway := services.NewEmbeddingGateway(embedder, services.GatewayConfig{
		BatchSize: cfg.Embedding.BatchSize,
		Timeout:   cfg.Embedding.Timeout.Std(),
		Retry: services.RetryPolicy{
			MaxAttempts:    cfg.Embedding.MaxAttempts,
			InitialBackoff: cfg.Embedding.InitialBackoff.Std(),
			MaxBackoff:     cfg.Embedding.MaxBackoff.Std(),
			Multiplier:     services.DefaultBackoffMultiplier,
		},
		RequestsPerSecond: cfg.Embedding.RequestsPerSecond,
	})

	normaliser := services.NewNormaliser(normalisers.Defaults()...)
	configureVision(normaliser, cfg.Vision, backends.Describer)

	chunker, err := postprocessors.NewDefaultRegistry().Build("token", map[string]any{
		"max_tokens":     cfg.Chunking.MaxTokens,
		"overlap_tokens": cfg.Chunking.OverlapTokens,
		"tokenizer":      cfg.Chunking.Tokenizer,
	})
	if err != nil {
		backends.Close()
		return nil, nil, err
	}

	ingestion := services.NewIngestionService(normaliser, chunker, gateway, vectors, services.IngestConfig{
		Workers:  cfg.Ingest.Workers,
		MaxBatch: cfg.Ingest.MaxBatch,
	})
	ingestion.SetMetadataStore(metadata)
	ingestion.SetBlobStore(blobs)

	search := services.NewSearchService(gateway, vectors)
	search.SetMetadataStore(metadata)
	search.SetOverfetch(cfg.Search.OverfetchFactor, cfg.Search.CandidateCeiling)

	return &cli.Services{
		Search:     search,
		Document:   services.NewDocumentService(ingestion, vectors, metadata, blobs),
		Ingestion:  ingestion,
		Collection: services.NewCollectionService(vectors),
	}, backends.Close, nil
}

// configureVision attaches OCR and, when present, an image describer.
// Without tesseract, images are unsupported.
func configureVision(n *services.Normaliser, cfg config.VisionConfig, describer driven.ImageDescriber) {
	ocr := image.NewTesseract(image.WithCommand(cfg.OCRCommand), image.WithLanguage(cfg.OCRLanguage))
	if ocr.Available() {
		n.SetOCR(ocr)
	} else {
		logger.Warn("OCR tool %q not found, images will be rejected", cfg.OCRCommand)
	}

	if describer != nil {
		n.SetImageDescriber(describer)
	}
}
