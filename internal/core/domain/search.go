package domain

// Search defaults and limits.
const (
	DefaultNResults  = 5
	MaxNResults      = 20
	DefaultThreshold = 0.5
)

// SearchOptions configures a search query.
type SearchOptions struct {
	// NResults is the number of results wanted, within [1, MaxNResults].
	NResults int

	// Threshold is the minimum normalised similarity in [0, 1].
	Threshold float64
}

// DefaultSearchOptions returns the options used when a caller sets none.
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{
		NResults:  DefaultNResults,
		Threshold: DefaultThreshold,
	}
}

// SearchResult represents a single search hit.
type SearchResult struct {
	DocumentID string         `json:"document_id"`
	ChunkIndex int            `json:"chunk_index"`
	Text       string         `json:"text"`
	Score      float64        `json:"similarity_score"`
	Metadata   RecordMetadata `json:"metadata"`
}

// ScoredRecord is a vector store match.
// Score is cosine similarity mapped to [0, 1] as (1 + cos) / 2.
type ScoredRecord struct {
	Record EmbeddingRecord
	Score  float64
}

// VectorStats summarises the vector store contents.
type VectorStats struct {
	RecordCount   int    `json:"record_count"`
	DocumentCount int    `json:"distinct_document_count"`
	Dimensions    int    `json:"dimensions"`
	Collection    string `json:"collection"`

	// Sample is the metadata of one stored record, if any.
	Sample *RecordMetadata `json:"sample_metadata,omitempty"`
}
