package domain

import "fmt"

// Chunk is a token-bounded slice of a document's normalised text.
// Chunks are never mutated; reprocessing replaces the whole set.
type Chunk struct {
	// DocumentID is the owning document.
	DocumentID string `json:"document_id"`

	// ChunkIndex is the zero-based ordinal within the document.
	ChunkIndex int `json:"chunk_index"`

	// Text is the chunk content.
	Text string `json:"text"`

	// TokenCount is the number of tokens in Text.
	TokenCount int `json:"token_count"`
}

// RecordMetadata is the provenance stored alongside each vector.
// It carries the chunk text so results need no second lookup.
type RecordMetadata struct {
	Filename    string `json:"filename,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Description string `json:"description,omitempty"`
	Text        string `json:"text"`
	TokenCount  int    `json:"token_count"`

	// ChunkSize is the chunk length in characters.
	ChunkSize int `json:"chunk_size"`

	// TotalChunks is the number of chunks in the document.
	TotalChunks int `json:"total_chunks"`
}

// EmbeddingRecord is a chunk vector owned by the vector store.
type EmbeddingRecord struct {
	DocumentID string         `json:"document_id"`
	ChunkIndex int            `json:"chunk_index"`
	Vector     []float32      `json:"-"`
	Metadata   RecordMetadata `json:"metadata"`
}

// ID returns the deterministic record identifier.
func (r *EmbeddingRecord) ID() string {
	return RecordID(r.DocumentID, r.ChunkIndex)
}

// Chunk returns the chunk view of the record.
func (r *EmbeddingRecord) Chunk() Chunk {
	return Chunk{
		DocumentID: r.DocumentID,
		ChunkIndex: r.ChunkIndex,
		Text:       r.Metadata.Text,
		TokenCount: r.Metadata.TokenCount,
	}
}

// RecordID formats the identifier for a document's chunk.
func RecordID(documentID string, chunkIndex int) string {
	return fmt.Sprintf("%s_%d", documentID, chunkIndex)
}
