package widget

import (
	"encoding/json"
	"sync"
)

// SharedStateProvider stores state bundles shared by all instances of a type.
// Bundles are opaque to the engine.
type SharedStateProvider interface {
	// CollectSharedState returns the bundles for the given active type ids.
	// Types without a bundle are omitted.
	CollectSharedState(typeIDs []string) map[string]json.RawMessage

	// RestoreSharedState replaces the bundles for every type id in states.
	RestoreSharedState(states map[string]json.RawMessage)
}

// SharedStore is a concurrent in-memory [SharedStateProvider].
type SharedStore struct {
	mu     sync.RWMutex
	states map[string]json.RawMessage
}

// NewSharedStore returns an empty store.
func NewSharedStore() *SharedStore {
	return &SharedStore{states: make(map[string]json.RawMessage)}
}

// Set stores the bundle for typeID. A nil state removes it.
func (s *SharedStore) Set(typeID string, state json.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if state == nil {
		delete(s.states, typeID)
		return
	}
	s.states[typeID] = append(json.RawMessage(nil), state...)
}

// Get returns the bundle for typeID.
func (s *SharedStore) Get(typeID string) (json.RawMessage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.states[typeID]
	return st, ok
}

// CollectSharedState implements [SharedStateProvider].
func (s *SharedStore) CollectSharedState(typeIDs []string) map[string]json.RawMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]json.RawMessage)
	for _, id := range typeIDs {
		if st, ok := s.states[id]; ok {
			out[id] = append(json.RawMessage(nil), st...)
		}
	}
	return out
}

// RestoreSharedState implements [SharedStateProvider].
func (s *SharedStore) RestoreSharedState(states map[string]json.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, st := range states {
		s.states[id] = append(json.RawMessage(nil), st...)
	}
}

var _ SharedStateProvider = (*SharedStore)(nil)
