// Package similarity scores and ranks embedding records by cosine similarity.
//
// Scores are cosine similarity mapped from [-1, 1] onto [0, 1] as
// (1 + cos) / 2, so a score of 0.5 means orthogonal vectors. Search
// thresholds are calibrated against this scale.
package similarity

import (
	"container/heap"
	"math"

	"github.com/viant/vec/search"

	"github.com/aditya-mahendru/docMgr/internal/core/domain"
)

// Vector is a query or stored vector with its magnitude cached.
type Vector struct {
	values    search.Float32s
	magnitude float32
}

// NewVector wraps v and precomputes its magnitude.
func NewVector(v []float32) Vector {
	values := search.Float32s(v)
	return Vector{values: values, magnitude: values.Magnitude()}
}

// Comparable reports whether v and other can be scored against each other:
// both non-zero with the same number of dimensions.
func (v Vector) Comparable(other Vector) bool {
	return len(v.values) > 0 && len(v.values) == len(other.values) &&
		v.magnitude > 0 && other.magnitude > 0
}

// Cosine returns the cosine similarity of two vectors, or 0 when they are
// not Comparable. The magnitudes cached by NewVector are reused.
func (v Vector) Cosine(other Vector) float64 {
	if !v.Comparable(other) {
		return 0
	}
	var dot float64
	for i, x := range v.values {
		dot += float64(x) * float64(other.values[i])
	}
	cos := dot / (float64(v.magnitude) * float64(other.magnitude))
	return math.Max(-1, math.Min(1, cos))
}

// IsZero reports whether v has no non-zero component.
func IsZero(v []float32) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}

// Score maps cosine similarity onto [0, 1].
func Score(cos float64) float64 {
	return (1 + cos) / 2
}

// Less orders a before b: higher score first, then ascending document ID,
// then ascending chunk index.
func Less(a, b domain.ScoredRecord) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.Record.DocumentID != b.Record.DocumentID {
		return a.Record.DocumentID < b.Record.DocumentID
	}
	return a.Record.ChunkIndex < b.Record.ChunkIndex
}

// TopK keeps the k best records offered to it.
type TopK struct {
	k     int
	query Vector
	h     worstFirst
}

// NewTopK creates a collector for the k records nearest to query.
func NewTopK(query []float32, k int) *TopK {
	return &TopK{k: k, query: NewVector(query)}
}

// Offer scores rec against the query and keeps it if it ranks in the top k.
// Records that are not Comparable with the query are skipped, so a zero
// vector or one from another embedding model never ranks.
func (t *TopK) Offer(rec domain.EmbeddingRecord) {
	if t.k <= 0 {
		return
	}
	vec := NewVector(rec.Vector)
	if !t.query.Comparable(vec) {
		return
	}
	scored := domain.ScoredRecord{
		Record: rec,
		Score:  Score(t.query.Cosine(vec)),
	}
	if t.h.Len() < t.k {
		heap.Push(&t.h, scored)
		return
	}
	if Less(scored, t.h[0]) {
		t.h[0] = scored
		heap.Fix(&t.h, 0)
	}
}

// Results returns the kept records, best first.
func (t *TopK) Results() []domain.ScoredRecord {
	out := make([]domain.ScoredRecord, t.h.Len())
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(&t.h).(domain.ScoredRecord)
	}
	return out
}

// worstFirst is a heap whose root is the lowest-ranked record.
type worstFirst []domain.ScoredRecord

func (h worstFirst) Len() int           { return len(h) }
func (h worstFirst) Less(i, j int) bool { return Less(h[j], h[i]) }
func (h worstFirst) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *worstFirst) Push(x any) {
	*h = append(*h, x.(domain.ScoredRecord))
}

func (h *worstFirst) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
