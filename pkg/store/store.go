// Package store persists board documents.
//
// This package defines the [Store] interface with implementations for
// different backends:
//   - file: one JSON file per board, for the CLI
//   - memory: in-process map, for tests and ephemeral servers
//   - redis: shared storage for multi-instance servers
//   - mongo: one MongoDB document per board
//   - sqlite: a single local database file
//   - none: discards writes
//
// # Architecture
//
// Stores deal in whole [document.Document] values keyed by dashboard id.
// They never interpret widget state. Every implementation returns an error
// matching [ErrNotFound] (and coded BOARD_NOT_FOUND) for missing boards, so
// callers can handle absence uniformly:
//
//	doc, err := s.Get(ctx, "home")
//	if errors.Is(err, store.ErrNotFound) {
//	    doc = document.New("home", 16, 16, 0)
//	}
//
// Network backends are pinged on open and retried with exponential backoff
// (see [RetryWithBackoff]). [Open] picks a backend from a [Config] and wraps it
// so that every call reports to the observability store hooks.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/matzehuels/gridboard/pkg/document"
	errs "github.com/matzehuels/gridboard/pkg/errors"
	"github.com/matzehuels/gridboard/pkg/observability"
)

// ErrNotFound is returned when a requested board does not exist.
var ErrNotFound = errors.New("board not found")

func notFound(id string) error {
	return errs.Wrap(errs.ErrCodeBoardNotFound, ErrNotFound, "board %q", id)
}

// Store is the interface for board document storage backends.
type Store interface {
	// Get retrieves a board document by dashboard id.
	Get(ctx context.Context, id string) (*document.Document, error)

	// Put stores a document under its dashboard id, replacing any previous one.
	Put(ctx context.Context, doc *document.Document) error

	// Delete removes a board. Deleting a missing board is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the stored dashboard ids in ascending order.
	List(ctx context.Context) ([]string, error)

	// Close releases backend resources.
	Close() error
}

// Backend names a storage backend.
type Backend string

// Supported backends.
const (
	BackendFile   Backend = "file"
	BackendMemory Backend = "memory"
	BackendRedis  Backend = "redis"
	BackendMongo  Backend = "mongo"
	BackendSQLite Backend = "sqlite"
	BackendNone   Backend = "none"
)

// Config selects and configures a backend.
type Config struct {
	Backend Backend `toml:"backend"`

	// File backend.
	Dir string `toml:"dir"`

	// Redis backend.
	RedisURL    string        `toml:"redis_url"`
	RedisPrefix string        `toml:"redis_prefix"`
	TTL         time.Duration `toml:"ttl"`

	// Mongo backend.
	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`

	// SQLite backend.
	SQLitePath string `toml:"sqlite_path"`
}

// Open creates the configured backend. An empty backend selects the file store.
func Open(ctx context.Context, cfg Config) (Store, error) {
	var (
		s   Store
		err error
	)
	backend := cfg.Backend
	if backend == "" {
		backend = BackendFile
	}
	switch backend {
	case BackendFile:
		s, err = NewFileStore(cfg.Dir)
	case BackendMemory:
		s = NewMemoryStore()
	case BackendNone:
		s = NewNullStore()
	case BackendRedis:
		s, err = NewRedisStore(ctx, RedisConfig{URL: cfg.RedisURL, Prefix: cfg.RedisPrefix, TTL: cfg.TTL})
	case BackendMongo:
		s, err = NewMongoStore(ctx, MongoConfig{URI: cfg.MongoURI, Database: cfg.MongoDatabase, Collection: cfg.MongoCollection})
	case BackendSQLite:
		s, err = NewSQLiteStore(ctx, cfg.SQLitePath)
	default:
		return nil, errs.New(errs.ErrCodeInvalidConfig, "unknown store backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	return Instrument(s, string(backend)), nil
}

// Instrument wraps s so that every Get, Put and Delete is reported to the
// registered observability store hooks under the given backend name.
func Instrument(s Store, backend string) Store {
	return &instrumented{Store: s, backend: backend}
}

type instrumented struct {
	Store
	backend string
}

func (s *instrumented) Get(ctx context.Context, id string) (*document.Document, error) {
	start := time.Now()
	doc, err := s.Store.Get(ctx, id)
	observability.Store().OnLoad(ctx, s.backend, id, time.Since(start), err)
	return doc, err
}

func (s *instrumented) Put(ctx context.Context, doc *document.Document) error {
	start := time.Now()
	err := s.Store.Put(ctx, doc)
	var (
		id    string
		cells int
	)
	if doc != nil {
		id, cells = doc.DashboardID, len(doc.Cells)
	}
	observability.Store().OnSave(ctx, s.backend, id, cells, time.Since(start), err)
	return err
}

func (s *instrumented) Delete(ctx context.Context, id string) error {
	err := s.Store.Delete(ctx, id)
	observability.Store().OnDelete(ctx, s.backend, id, err)
	return err
}

// Unwrap returns the backend behind an instrumented store.
func Unwrap(s Store) Store {
	if i, ok := s.(*instrumented); ok {
		return i.Store
	}
	return s
}

// encode validates doc for storage and returns its JSON form.
func encode(doc *document.Document) ([]byte, error) {
	if doc == nil {
		return nil, errs.New(errs.ErrCodeInvalidInput, "nil document")
	}
	if err := errs.ValidateDashboardID(doc.DashboardID); err != nil {
		return nil, err
	}
	return document.Encode(doc)
}

func decode(id string, data []byte) (*document.Document, error) {
	doc, err := document.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("board %q: %w", id, err)
	}
	return doc, nil
}
