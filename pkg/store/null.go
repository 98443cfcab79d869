package store

import (
	"context"

	"github.com/matzehuels/gridboard/pkg/document"
)

// NullStore is a no-op store that never keeps anything.
// Useful for testing or when persistence should be disabled.
type NullStore struct{}

// NewNullStore creates a null store.
func NewNullStore() *NullStore {
	return &NullStore{}
}

// Get always reports the board as missing.
func (s *NullStore) Get(ctx context.Context, id string) (*document.Document, error) {
	return nil, notFound(id)
}

// Put validates the document and discards it.
func (s *NullStore) Put(ctx context.Context, doc *document.Document) error {
	_, err := encode(doc)
	return err
}

// Delete does nothing.
func (s *NullStore) Delete(ctx context.Context, id string) error {
	return nil
}

// List always returns no boards.
func (s *NullStore) List(ctx context.Context) ([]string, error) {
	return nil, nil
}

// Close does nothing.
func (s *NullStore) Close() error {
	return nil
}

// Ensure NullStore implements Store.
var _ Store = (*NullStore)(nil)
