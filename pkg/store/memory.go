package store

import (
	"context"
	"slices"
	"sync"

	"github.com/matzehuels/gridboard/pkg/document"
)

// MemoryStore keeps encoded documents in memory. It is safe for concurrent
// use, and callers never share document values with it.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: map[string][]byte{}}
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*document.Document, error) {
	s.mu.RLock()
	data, ok := s.docs[id]
	s.mu.RUnlock()
	if !ok {
		return nil, notFound(id)
	}
	return decode(id, data)
}

func (s *MemoryStore) Put(ctx context.Context, doc *document.Document) error {
	data, err := encode(doc)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.DashboardID] = data
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, id)
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.docs))
	for id := range s.docs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
