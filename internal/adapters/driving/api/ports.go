package api

import (
	"github.com/aditya-mahendru/docMgr/internal/core/domain"
	"github.com/aditya-mahendru/docMgr/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces used by the HTTP server.
type Ports struct {
	Document   driving.DocumentService
	Ingestion  driving.IngestionService
	Search     driving.SearchService
	Collection driving.CollectionService

	// SearchDefaults fill search parameters the caller leaves out.
	// Zero fields take domain.DefaultSearchOptions.
	SearchDefaults domain.SearchOptions
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	switch {
	case p.Document == nil:
		return ErrMissingDocumentService
	case p.Ingestion == nil:
		return ErrMissingIngestionService
	case p.Search == nil:
		return ErrMissingSearchService
	case p.Collection == nil:
		return ErrMissingCollectionService
	}
	return nil
}

func (p *Ports) searchDefaults() domain.SearchOptions {
	opts := p.SearchDefaults
	def := domain.DefaultSearchOptions()
	if opts.NResults == 0 {
		opts.NResults = def.NResults
	}
	if opts.Threshold == 0 {
		opts.Threshold = def.Threshold
	}
	return opts
}
