package driven

// TextChunk is one segment produced by a Chunker.
type TextChunk struct {
	Text       string
	TokenCount int
}

// Chunker splits normalised text into ordered, overlapping chunks.
// Output must be deterministic for identical input and configuration.
type Chunker interface {
	// Name returns the chunker name.
	Name() string

	// Chunk splits text. Empty text yields no chunks.
	Chunk(text string) []TextChunk
}
