package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/matzehuels/gridboard/pkg/document"
	errs "github.com/matzehuels/gridboard/pkg/errors"
)

// FileStore is a file-based store for CLI usage.
// Each board is a JSON file in a hashed subdirectory of the base directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// fileEntry wraps a stored document with metadata.
type fileEntry struct {
	ID        string          `json:"id"`
	UpdatedAt time.Time       `json:"updated_at"`
	Document  json.RawMessage `json:"document"`
}

// NewFileStore creates a file-based store in the given directory.
// If baseDir is empty, defaults to ~/.config/gridboard/boards/.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		baseDir = dir
	}
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, errs.Wrap(errs.ErrCodeStore, err, "create store dir")
	}
	return &FileStore{baseDir: baseDir}, nil
}

// DefaultDir returns the default board directory.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "gridboard", "boards"), nil
}

// Get retrieves a board.
func (s *FileStore) Get(ctx context.Context, id string) (*document.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path(id))
	if os.IsNotExist(err) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStore, err, "read board %q", id)
	}

	var entry fileEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, errs.Wrap(errs.ErrCodeStore, err, "parse board %q", id)
	}
	return decode(id, entry.Document)
}

// Put stores a board.
func (s *FileStore) Put(ctx context.Context, doc *document.Document) error {
	body, err := encode(doc)
	if err != nil {
		return err
	}
	entry := fileEntry{ID: doc.DashboardID, UpdatedAt: time.Now().UTC(), Document: body}
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal board: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(doc.DashboardID)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errs.Wrap(errs.ErrCodeStore, err, "create board dir")
	}
	if err := writeFileAtomic(path, data); err != nil {
		return errs.Wrap(errs.ErrCodeStore, err, "write board %q", doc.DashboardID)
	}
	return nil
}

// writeFileAtomic writes data to a temporary file in path's directory and
// renames it over path.
func writeFileAtomic(path string, data []byte) error {
	f, err := os.CreateTemp(filepath.Dir(path), ".board-*.tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Chmod(0644); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Delete removes a board.
func (s *FileStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(id)); err != nil && !os.IsNotExist(err) {
		return errs.Wrap(errs.ErrCodeStore, err, "remove board %q", id)
	}
	return nil
}

// List returns the ids of all stored boards.
func (s *FileStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []string
	err := filepath.WalkDir(s.baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		var entry fileEntry
		if json.Unmarshal(data, &entry) != nil || entry.ID == "" {
			return nil
		}
		ids = append(ids, entry.ID)
		return nil
	})
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStore, err, "read store dir")
	}
	slices.Sort(ids)
	return ids, nil
}

// Close does nothing for the file store.
func (s *FileStore) Close() error { return nil }

// Path returns the base directory for board files.
func (s *FileStore) Path() string { return s.baseDir }

// FilePath returns the file a board is stored in.
func (s *FileStore) FilePath(id string) string { return s.path(id) }

// path converts a dashboard id to a file path.
// The first two hash characters name a subdirectory to spread files out.
func (s *FileStore) path(id string) string {
	hash := Hash([]byte(id))
	return filepath.Join(s.baseDir, hash[:2], hash[2:]+".json")
}

var _ Store = (*FileStore)(nil)
