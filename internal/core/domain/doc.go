// Package domain defines the core business entities for docMgr.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - RawDocument: Uploaded bytes with a declared content type
//   - Format: The extraction variant selected from a content type
//   - Chunk: A token-bounded slice of a document's normalised text
//   - EmbeddingRecord: A chunk vector with provenance metadata
//   - SearchResult: A ranked, thresholded match for a query
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
