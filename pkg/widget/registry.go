package widget

import (
	"cmp"
	"slices"
	"sync"

	"github.com/matzehuels/gridboard/pkg/errors"
)

// Registry is a concurrent, in-memory [Provider].
//
// Registered definitions are stored by pointer, so every ResolveFactory call
// for the same registration returns the identical Factory value.
type Registry struct {
	mu        sync.RWMutex
	types     map[string]*Definition
	listeners map[int]func()
	nextID    int
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		types:     make(map[string]*Definition),
		listeners: make(map[int]func()),
	}
}

// Register adds or replaces a definition and notifies subscribers.
func (r *Registry) Register(defs ...Definition) error {
	for _, d := range defs {
		if err := errors.ValidateTypeID(d.ID); err != nil {
			return err
		}
		if d.ID == UnknownTypeID {
			return errors.New(errors.ErrCodeInvalidID, "widget type id %q is reserved", d.ID)
		}
	}
	if len(defs) == 0 {
		return nil
	}

	r.mu.Lock()
	for _, d := range defs {
		r.types[d.ID] = &d
	}
	r.mu.Unlock()

	r.notify()
	return nil
}

// Unregister removes definitions and notifies subscribers if any was present.
func (r *Registry) Unregister(ids ...string) {
	r.mu.Lock()
	removed := false
	for _, id := range ids {
		if _, ok := r.types[id]; ok {
			delete(r.types, id)
			removed = true
		}
	}
	r.mu.Unlock()

	if removed {
		r.notify()
	}
}

// ResolveFactory implements [Provider].
func (r *Registry) ResolveFactory(typeID string) Factory {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if d, ok := r.types[typeID]; ok {
		return d
	}
	return Placeholder
}

// Lookup returns the definition registered for typeID.
func (r *Registry) Lookup(typeID string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.types[typeID]
	if !ok {
		return Definition{}, false
	}
	return *d, true
}

// Definitions returns all registered definitions sorted by type id.
func (r *Registry) Definitions() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Definition, 0, len(r.types))
	for _, d := range r.types {
		out = append(out, *d)
	}
	slices.SortFunc(out, func(a, b Definition) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

// Subscribe implements [Provider].
func (r *Registry) Subscribe(fn func()) func() {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.listeners[id] = fn
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.listeners, id)
			r.mu.Unlock()
		})
	}
}

// Subscribers returns the number of active subscriptions.
func (r *Registry) Subscribers() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.listeners)
}

func (r *Registry) notify() {
	r.mu.RLock()
	ids := make([]int, 0, len(r.listeners))
	for id := range r.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]func(), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, r.listeners[id])
	}
	r.mu.RUnlock()

	for _, fn := range fns {
		fn()
	}
}

var _ Provider = (*Registry)(nil)
