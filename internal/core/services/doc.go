// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The pipeline runs Normaliser, Chunker, EmbeddingGateway and VectorStore
// in that order under the IngestionService. SearchService depends only on
// the EmbeddingGateway and the VectorStore.
//
// Services are pure Go with no CGO or external dependencies.
package services
