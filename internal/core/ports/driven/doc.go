// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Extractor: Turns one document format into plain text
//   - Chunker: Splits normalised text into overlapping token-bounded chunks
//   - EmbeddingService: Generates vector embeddings
//   - VectorStore: Persists embedding records and answers nearest-neighbour queries
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - OCR, ImageDescriber: Image text. Without OCR, images are unsupported.
//   - MetadataStore: Document registry. Without it, results carry record metadata only.
//   - BlobStore: Raw upload bytes. Without it, reprocessing is unavailable.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
