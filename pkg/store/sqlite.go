package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/matzehuels/gridboard/pkg/document"
	errs "github.com/matzehuels/gridboard/pkg/errors"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS boards (
    id         TEXT PRIMARY KEY,
    body       TEXT NOT NULL,
    updated_at TEXT NOT NULL
)`

// SQLiteStore keeps boards in a single SQLite database file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at path and applies
// the schema. An empty path defaults to boards.db in the default directory.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "boards.db")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errs.Wrap(errs.ErrCodeStore, err, "mkdir db dir")
	}

	dsn := fmt.Sprintf("file:%s?mode=rwc&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStore, err, "open sqlite")
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, errs.Wrap(errs.ErrCodeStore, err, "apply schema")
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*document.Document, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM boards WHERE id = ?`, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStore, err, "sqlite get %q", id)
	}
	return decode(id, []byte(body))
}

func (s *SQLiteStore) Put(ctx context.Context, doc *document.Document) error {
	data, err := encode(doc)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
        INSERT INTO boards (id, body, updated_at)
        VALUES (?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at
    `, doc.DashboardID, string(data), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return errs.Wrap(errs.ErrCodeStore, err, "sqlite put %q", doc.DashboardID)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM boards WHERE id = ?`, id); err != nil {
		return errs.Wrap(errs.ErrCodeStore, err, "sqlite delete %q", id)
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM boards ORDER BY id`)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStore, err, "sqlite list")
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errs.Wrap(errs.ErrCodeStore, err, "sqlite list")
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeStore, err, "sqlite list")
	}
	return ids, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

var _ Store = (*SQLiteStore)(nil)
