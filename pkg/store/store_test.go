package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/gridboard/pkg/document"
	errs "github.com/matzehuels/gridboard/pkg/errors"
	"github.com/matzehuels/gridboard/pkg/observability"
)

func sampleDoc(id string) *document.Document {
	doc := document.New(id, 16, 16, 8)
	doc.Cells = []document.Cell{
		{Row: 1, Col: 1, RowSpan: 2, ColSpan: 3, WidgetTypeID: "clock", WidgetState: json.RawMessage(`{"tz":"UTC"}`)},
		{Row: 5, Col: 5, RowSpan: 1, ColSpan: 1, Flat: true, WidgetTypeID: "note"},
	}
	doc.SharedStates = map[string]json.RawMessage{"clock": json.RawMessage(`{"format":"24h"}`)}
	return doc
}

// testStore runs the behaviour every backend must share.
func testStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := s.Get(ctx, "home"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get missing: err = %v, want ErrNotFound", err)
	}
	if _, err := s.Get(ctx, "home"); !errs.Is(err, errs.ErrCodeBoardNotFound) {
		t.Errorf("Get missing: code = %q, want BOARD_NOT_FOUND", errs.GetCode(err))
	}

	if err := s.Put(ctx, sampleDoc("home")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put(ctx, sampleDoc("attic")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := s.Get(ctx, "home")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.DashboardID != "home" || got.Rows != 16 || got.GutterSize != 8 || len(got.Cells) != 2 {
		t.Errorf("Get = %+v", got)
	}
	if got.Cells[0].WidgetTypeID != "clock" || got.Cells[0].ColSpan != 3 || !got.Cells[1].Flat {
		t.Errorf("cells = %+v", got.Cells)
	}
	var state map[string]string
	if err := json.Unmarshal(got.Cells[0].WidgetState, &state); err != nil || state["tz"] != "UTC" {
		t.Errorf("state = %s (%v)", got.Cells[0].WidgetState, err)
	}
	if len(got.SharedStates) != 1 {
		t.Errorf("shared states = %v", got.SharedStates)
	}

	// Put replaces.
	replaced := sampleDoc("home")
	replaced.Cells = replaced.Cells[:1]
	if err := s.Put(ctx, replaced); err != nil {
		t.Fatal(err)
	}
	if got, _ := s.Get(ctx, "home"); len(got.Cells) != 1 {
		t.Errorf("after replace cells = %d, want 1", len(got.Cells))
	}

	ids, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(ids) != 2 || ids[0] != "attic" || ids[1] != "home" {
		t.Errorf("List = %v, want [attic home]", ids)
	}

	if err := s.Delete(ctx, "home"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, "home"); err != nil {
		t.Errorf("Delete missing: %v", err)
	}
	if _, err := s.Get(ctx, "home"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete: %v", err)
	}

	if err := s.Put(ctx, document.New("bad id!", 4, 4, 0)); !errs.Is(err, errs.ErrCodeInvalidID) {
		t.Errorf("Put invalid id: err = %v, want INVALID_ID", err)
	}
	if err := s.Put(ctx, nil); err == nil {
		t.Error("Put nil should fail")
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	testStore(t, s)
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	testStore(t, s)

	if s.Path() != dir {
		t.Errorf("Path = %q, want %q", s.Path(), dir)
	}
	if rel, _ := filepath.Rel(dir, s.FilePath("home")); len(rel) < 3 || rel[2] != filepath.Separator {
		t.Errorf("file path %q is not in a hashed subdirectory", rel)
	}
}

func TestFileStorePersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s1, _ := NewFileStore(dir)
	if err := s1.Put(ctx, sampleDoc("home")); err != nil {
		t.Fatal(err)
	}
	s2, _ := NewFileStore(dir)
	if _, err := s2.Get(ctx, "home"); err != nil {
		t.Errorf("second instance: %v", err)
	}
}

func TestFileStoreOverwriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	for range 3 {
		if err := s.Put(ctx, sampleDoc("home")); err != nil {
			t.Fatal(err)
		}
	}
	entries, err := os.ReadDir(filepath.Dir(s.FilePath("home")))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != filepath.Base(s.FilePath("home")) {
		t.Errorf("board dir holds %d entries, want only the board file", len(entries))
	}
}

func TestSQLiteStore(t *testing.T) {
	s, err := NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "boards.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	testStore(t, s)
}

func TestNullStore(t *testing.T) {
	ctx := context.Background()
	s := NewNullStore()
	defer s.Close()

	if err := s.Put(ctx, sampleDoc("home")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, err := s.Get(ctx, "home"); !errors.Is(err, ErrNotFound) {
		t.Errorf("NullStore should not store data, err = %v", err)
	}
	if ids, _ := s.List(ctx); len(ids) != 0 {
		t.Errorf("List = %v", ids)
	}
	if err := s.Delete(ctx, "home"); err != nil {
		t.Errorf("Delete: %v", err)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"default is file", Config{Dir: t.TempDir()}, "*store.FileStore"},
		{"memory", Config{Backend: BackendMemory}, "*store.MemoryStore"},
		{"none", Config{Backend: BackendNone}, "*store.NullStore"},
		{"sqlite", Config{Backend: BackendSQLite, SQLitePath: filepath.Join(t.TempDir(), "b.db")}, "*store.SQLiteStore"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(ctx, tt.cfg)
			if err != nil {
				t.Fatal(err)
			}
			defer s.Close()
			if got := fmt.Sprintf("%T", Unwrap(s)); got != tt.want {
				t.Errorf("backend = %s, want %s", got, tt.want)
			}
		})
	}

	if _, err := Open(ctx, Config{Backend: "etcd"}); !errs.Is(err, errs.ErrCodeInvalidConfig) {
		t.Errorf("unknown backend: err = %v, want INVALID_CONFIG", err)
	}
}

type countingHooks struct {
	observability.NoopStoreHooks
	loads, saves, deletes int
	lastErr               error
}

func (h *countingHooks) OnLoad(_ context.Context, _, _ string, _ time.Duration, err error) {
	h.loads++
	h.lastErr = err
}

func (h *countingHooks) OnSave(context.Context, string, string, int, time.Duration, error) {
	h.saves++
}

func (h *countingHooks) OnDelete(context.Context, string, string, error) { h.deletes++ }

func TestInstrumentReportsToHooks(t *testing.T) {
	hooks := &countingHooks{}
	observability.SetStoreHooks(hooks)
	defer observability.Reset()

	ctx := context.Background()
	s := Instrument(NewMemoryStore(), "memory")
	_ = s.Put(ctx, sampleDoc("home"))
	_, _ = s.Get(ctx, "home")
	_, _ = s.Get(ctx, "missing")
	_ = s.Delete(ctx, "home")

	if hooks.saves != 1 || hooks.loads != 2 || hooks.deletes != 1 {
		t.Errorf("hooks = %+v", hooks)
	}
	if !errors.Is(hooks.lastErr, ErrNotFound) {
		t.Errorf("last load error = %v", hooks.lastErr)
	}
}

func TestRetryWithBackoff(t *testing.T) {
	retryDelay = time.Millisecond
	defer func() { retryDelay = time.Second }()
	ctx := context.Background()

	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 3 {
			return Retryable(errors.New("flaky"))
		}
		return nil
	})
	if err != nil || calls != 3 {
		t.Errorf("err = %v calls = %d, want success after 3", err, calls)
	}

	calls = 0
	permanent := errors.New("permanent")
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return permanent
	})
	if !errors.Is(err, permanent) || calls != 1 {
		t.Errorf("err = %v calls = %d, want one call", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return Retryable(errors.New("down"))
	})
	if !IsRetryable(err) || calls != 3 {
		t.Errorf("err = %v calls = %d, want 3 retryable failures", err, calls)
	}
}

func TestRetryWithBackoffHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := RetryWithBackoff(ctx, func() error { return Retryable(errors.New("down")) })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}
