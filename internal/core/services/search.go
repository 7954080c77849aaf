package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/aditya-mahendru/docMgr/internal/core/domain"
	"github.com/aditya-mahendru/docMgr/internal/core/ports/driven"
	"github.com/aditya-mahendru/docMgr/internal/core/ports/driving"
	"github.com/aditya-mahendru/docMgr/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// Candidate overfetch defaults.
const (
	DefaultOverfetch        = 3
	DefaultCandidateCeiling = 60
)

// SearchService embeds queries and ranks stored chunks against them.
type SearchService struct {
	embedder    *EmbeddingGateway
	vectorStore driven.VectorStore
	metadata    driven.MetadataStore
	overfetch   int
	ceiling     int
}

// NewSearchService creates a new search service.
func NewSearchService(embedder *EmbeddingGateway, vectorStore driven.VectorStore) *SearchService {
	return &SearchService{
		embedder:    embedder,
		vectorStore: vectorStore,
		overfetch:   DefaultOverfetch,
		ceiling:     DefaultCandidateCeiling,
	}
}

// SetMetadataStore enables filename and description enrichment of results
// from the document registry.
func (s *SearchService) SetMetadataStore(store driven.MetadataStore) {
	s.metadata = store
}

// SetOverfetch sets the candidate multiplier and the hard candidate ceiling.
// Non-positive values keep the current setting.
func (s *SearchService) SetOverfetch(factor, ceiling int) {
	if factor > 0 {
		s.overfetch = factor
	}
	if ceiling > 0 {
		s.ceiling = ceiling
	}
}

// Search returns up to opts.NResults chunks scoring at least opts.Threshold.
// Backend failures surface as *domain.UnavailableError; the cause is logged
// under the error's correlation ID.
func (s *SearchService) Search(
	ctx context.Context, query string, opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	logger.Section("Search Execution")
	logger.Debug("Query: %q, n_results=%d, threshold=%.2f", query, opts.NResults, opts.Threshold)

	if opts.NResults < 1 || opts.NResults > domain.MaxNResults {
		return nil, fmt.Errorf("%w: n_results must be between 1 and %d, got %d",
			domain.ErrInvalidParameter, domain.MaxNResults, opts.NResults)
	}
	if math.IsNaN(opts.Threshold) || opts.Threshold < 0 || opts.Threshold > 1 {
		return nil, fmt.Errorf("%w: threshold must be between 0 and 1, got %v",
			domain.ErrInvalidParameter, opts.Threshold)
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: query is empty", domain.ErrInvalidParameter)
	}

	vector, err := s.embedder.Embed(ctx, query)
	if errors.Is(err, domain.ErrInvalidInput) {
		logger.Debug("Query has no embeddable content: %v", err)
		return []domain.SearchResult{}, nil
	}
	if err != nil {
		return nil, unavailable(domain.ErrEmbeddingUnavailable, err)
	}

	k := min(opts.NResults*s.overfetch, s.ceiling)
	candidates, err := s.vectorStore.Query(ctx, vector, k)
	if err != nil {
		return nil, unavailable(domain.ErrVectorStoreUnavailable, err)
	}
	logger.Debug("Vector store returned %d candidates (k=%d)", len(candidates), k)

	results := make([]domain.SearchResult, 0, opts.NResults)
	for _, c := range candidates {
		if c.Score < opts.Threshold {
			continue
		}
		results = append(results, domain.SearchResult{
			DocumentID: c.Record.DocumentID,
			ChunkIndex: c.Record.ChunkIndex,
			Text:       c.Record.Metadata.Text,
			Score:      c.Score,
			Metadata:   c.Record.Metadata,
		})
		if len(results) == opts.NResults {
			break
		}
	}

	s.enrich(ctx, results)
	logger.Debug("Returning %d results", len(results))
	return results, nil
}

// enrich fills provenance fields from the metadata store. Lookup failures
// leave the record's own metadata in place.
func (s *SearchService) enrich(ctx context.Context, results []domain.SearchResult) {
	if s.metadata == nil {
		return
	}
	seen := make(map[string]*domain.DocumentInfo)
	for i := range results {
		id := results[i].DocumentID
		info, ok := seen[id]
		if !ok {
			var err error
			info, err = s.metadata.Get(ctx, id)
			if err != nil {
				logger.Debug("Metadata lookup for %s failed: %v", id, err)
				info = nil
			}
			seen[id] = info
		}
		if info == nil {
			continue
		}
		md := &results[i].Metadata
		if info.Filename != "" {
			md.Filename = info.Filename
		}
		if info.ContentType != "" {
			md.ContentType = info.ContentType
		}
		if info.Description != "" {
			md.Description = info.Description
		}
	}
}

// unavailable logs cause and returns a generic error carrying a
// correlation ID.
func unavailable(kind, cause error) error {
	id := uuid.NewString()
	logger.Error("search failed: %v (correlation id %s): %v", kind, id, cause)
	return &domain.UnavailableError{Kind: kind, CorrelationID: id}
}
