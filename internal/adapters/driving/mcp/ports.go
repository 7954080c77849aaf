package mcp

import (
	"github.com/aditya-mahendru/docMgr/internal/core/domain"
	"github.com/aditya-mahendru/docMgr/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces used by the MCP server.
type Ports struct {
	// Search answers the search tool.
	Search driving.SearchService

	// Collection answers the get_chunks and vector_stats tools.
	Collection driving.CollectionService

	// Document lists registered documents. Optional.
	Document driving.DocumentService

	// Defaults fill search parameters the caller leaves out.
	// Zero fields take domain.DefaultSearchOptions.
	Defaults domain.SearchOptions
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	if p.Collection == nil {
		return ErrMissingCollectionService
	}
	return nil
}

// searchDefaults returns Defaults with zero fields filled in.
func (p *Ports) searchDefaults() domain.SearchOptions {
	opts := p.Defaults
	def := domain.DefaultSearchOptions()
	if opts.NResults == 0 {
		opts.NResults = def.NResults
	}
	if opts.Threshold == 0 {
		opts.Threshold = def.Threshold
	}
	return opts
}
