package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/aditya-mahendru/docMgr/internal/core/domain"
	"github.com/aditya-mahendru/docMgr/internal/core/ports/driven"
	"github.com/aditya-mahendru/docMgr/internal/keylock"
	"github.com/aditya-mahendru/docMgr/internal/similarity"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

// ErrInvalidRecord is returned when an upsert contains a malformed record.
var ErrInvalidRecord = errors.New("invalid embedding record")

// VectorStore is an in-memory implementation of driven.VectorStore.
type VectorStore struct {
	mu         sync.RWMutex
	records    map[string][]domain.EmbeddingRecord
	dimensions int
	collection string
	docs       *keylock.Locker
}

// NewVectorStore creates a new in-memory vector store.
func NewVectorStore(collection string) *VectorStore {
	return &VectorStore{
		records:    make(map[string][]domain.EmbeddingRecord),
		collection: collection,
		docs:       keylock.New(),
	}
}

// Upsert replaces all records of documentID. The new set is built and
// validated before it becomes visible.
func (s *VectorStore) Upsert(ctx context.Context, documentID string, records []domain.EmbeddingRecord) error {
	unlock := s.docs.Lock(documentID)
	defer unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	next := make([]domain.EmbeddingRecord, 0, len(records))
	dims := 0
	for i := range records {
		rec := records[i]
		if rec.DocumentID != documentID {
			return fmt.Errorf("%w: record %s belongs to %q", ErrInvalidRecord, rec.ID(), rec.DocumentID)
		}
		if len(rec.Vector) == 0 {
			return fmt.Errorf("%w: record %s has no vector", ErrInvalidRecord, rec.ID())
		}
		if dims == 0 {
			dims = len(rec.Vector)
		} else if len(rec.Vector) != dims {
			return fmt.Errorf("%w: record %s has %d dimensions, want %d",
				ErrInvalidRecord, rec.ID(), len(rec.Vector), dims)
		}
		rec.Vector = append([]float32(nil), rec.Vector...)
		next = append(next, rec)
	}
	sort.Slice(next, func(i, j int) bool { return next[i].ChunkIndex < next[j].ChunkIndex })

	s.mu.Lock()
	defer s.mu.Unlock()
	if dims > 0 && s.dimensions > 0 && dims != s.dimensions && !s.onlyDocument(documentID) {
		return fmt.Errorf("%w: %d dimensions, store holds %d", ErrInvalidRecord, dims, s.dimensions)
	}
	if len(next) == 0 {
		delete(s.records, documentID)
	} else {
		s.records[documentID] = next
		s.dimensions = dims
	}
	if len(s.records) == 0 {
		s.dimensions = 0
	}
	return nil
}

// onlyDocument reports whether documentID is the sole document stored.
// Caller must hold s.mu.
func (s *VectorStore) onlyDocument(documentID string) bool {
	if len(s.records) != 1 {
		return false
	}
	_, ok := s.records[documentID]
	return ok
}

// Delete removes all records of documentID.
func (s *VectorStore) Delete(_ context.Context, documentID string) error {
	unlock := s.docs.Lock(documentID)
	defer unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, documentID)
	if len(s.records) == 0 {
		s.dimensions = 0
	}
	return nil
}

// Query scans every record and returns the k nearest to vector.
func (s *VectorStore) Query(ctx context.Context, vector []float32, k int) ([]domain.ScoredRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	top := similarity.NewTopK(vector, k)

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, recs := range s.records {
		for _, rec := range recs {
			top.Offer(rec)
		}
	}
	return top.Results(), nil
}

// Records returns the records of documentID ordered by chunk index.
func (s *VectorStore) Records(_ context.Context, documentID string) ([]domain.EmbeddingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	recs := s.records[documentID]
	out := make([]domain.EmbeddingRecord, len(recs))
	copy(out, recs)
	return out, nil
}

// Stats returns record and document counts.
func (s *VectorStore) Stats(_ context.Context) (*domain.VectorStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &domain.VectorStats{
		DocumentCount: len(s.records),
		Dimensions:    s.dimensions,
		Collection:    s.collection,
	}
	ids := make([]string, 0, len(s.records))
	for id, recs := range s.records {
		stats.RecordCount += len(recs)
		ids = append(ids, id)
	}
	if len(ids) > 0 {
		sort.Strings(ids)
		sample := s.records[ids[0]][0].Metadata
		stats.Sample = &sample
	}
	return stats, nil
}
