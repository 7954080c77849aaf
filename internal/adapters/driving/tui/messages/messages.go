// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/aditya-mahendru/docMgr/internal/core/domain"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewSearch is the search input and results view.
	ViewSearch
	// ViewDocuments lists uploaded documents.
	ViewDocuments
	// ViewChunks shows the stored chunks of one document.
	ViewChunks
	// ViewDocDetails shows document metadata.
	ViewDocDetails
	// ViewStats shows vector store statistics.
	ViewStats
	// ViewHelp is the keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewSearch:
		return "search"
	case ViewDocuments:
		return "documents"
	case ViewChunks:
		return "chunks"
	case ViewDocDetails:
		return "doc_details"
	case ViewStats:
		return "stats"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// SearchCompleted carries search results back to the model.
type SearchCompleted struct {
	Query   string
	Results []domain.SearchResult
	Err     error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// DocumentsLoaded carries the list of uploaded documents.
type DocumentsLoaded struct {
	Documents []domain.DocumentInfo
	Err       error
}

// ChunksRequested asks for the chunks of a document to be shown.
// Title labels the view; it falls back to the document ID.
type ChunksRequested struct {
	DocumentID string
	Title      string

	// Focus is the chunk index to scroll to first.
	Focus int
}

// ChunksLoaded carries the chunks of a document.
type ChunksLoaded struct {
	DocumentID string
	Chunks     []domain.Chunk
	Err        error
}

// DocumentDetails is a document with its stored chunk count.
type DocumentDetails struct {
	Document   domain.DocumentInfo
	ChunkCount int
}

// DocumentDetailsLoaded carries the metadata of a document.
type DocumentDetailsLoaded struct {
	DocumentID string
	Details    *DocumentDetails
	Err        error
}

// DocumentReprocessed signals a document was run through ingestion again.
type DocumentReprocessed struct {
	DocumentID string
	Report     *domain.IngestReport
	Err        error
}

// DocumentRemoved signals a document was deleted.
type DocumentRemoved struct {
	DocumentID string
	Err        error
}

// StatsLoaded carries vector store statistics.
type StatsLoaded struct {
	Stats *domain.VectorStats
	Err   error
}
