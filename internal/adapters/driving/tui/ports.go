// Package tui provides an interactive terminal interface for docmgr.
// It is a driving adapter over the same ports as the CLI and HTTP API.
package tui

import (
	"github.com/aditya-mahendru/docMgr/internal/core/domain"
	"github.com/aditya-mahendru/docMgr/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the TUI.
type Ports struct {
	Search     driving.SearchService
	Document   driving.DocumentService
	Collection driving.CollectionService

	// Ingestion enables reprocessing from the document list. Optional.
	Ingestion driving.IngestionService

	// SearchDefaults seeds the search view. Zero selects the domain defaults.
	SearchDefaults domain.SearchOptions
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	if p.Document == nil {
		return ErrMissingDocumentService
	}
	if p.Collection == nil {
		return ErrMissingCollectionService
	}
	return nil
}
