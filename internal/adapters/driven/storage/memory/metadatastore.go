package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aditya-mahendru/docMgr/internal/core/domain"
	"github.com/aditya-mahendru/docMgr/internal/core/ports/driven"
)

// Ensure MetadataStore implements the interface.
var _ driven.MetadataStore = (*MetadataStore)(nil)

// MetadataStore is an in-memory implementation of driven.MetadataStore.
type MetadataStore struct {
	mu   sync.RWMutex
	docs map[string]domain.DocumentInfo
}

// NewMetadataStore creates a new in-memory metadata store.
func NewMetadataStore() *MetadataStore {
	return &MetadataStore{docs: make(map[string]domain.DocumentInfo)}
}

// Save stores or updates a document.
func (s *MetadataStore) Save(_ context.Context, info domain.DocumentInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[info.ID] = info
	return nil
}

// Get retrieves a document by ID.
func (s *MetadataStore) Get(_ context.Context, id string) (*domain.DocumentInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	info, ok := s.docs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &info, nil
}

// Delete removes a document.
func (s *MetadataStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, id)
	return nil
}

// List returns all documents, newest first.
func (s *MetadataStore) List(_ context.Context) ([]domain.DocumentInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.DocumentInfo, 0, len(s.docs))
	for _, info := range s.docs {
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UploadedAt.Equal(out[j].UploadedAt) {
			return out[i].UploadedAt.After(out[j].UploadedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
