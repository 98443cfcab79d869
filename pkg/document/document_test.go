package document

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/gridboard/pkg/board"
	"github.com/matzehuels/gridboard/pkg/errors"
	"github.com/matzehuels/gridboard/pkg/grid"
	"github.com/matzehuels/gridboard/pkg/widget"
)

func newBoard(t *testing.T, reg *widget.Registry) *board.Board {
	t.Helper()
	b, err := board.New(board.Config{DashboardID: "test"}, reg)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(b.Close)
	return b
}

func registry(t *testing.T, ids ...string) *widget.Registry {
	t.Helper()
	reg := widget.NewRegistry()
	for _, id := range ids {
		if err := reg.Register(widget.Definition{ID: id}); err != nil {
			t.Fatal(err)
		}
	}
	return reg
}

// Scenario 4: an unregistered type becomes a placeholder, heals once
// registered and re-exports under its original id.
func TestImportUnknownTypeHealsAndExports(t *testing.T) {
	reg := registry(t, "clock")
	b := newBoard(t, reg)

	doc := New("home", 16, 16, 8)
	doc.Cells = []Cell{
		{Row: 2, Col: 3, RowSpan: 2, ColSpan: 2, WidgetTypeID: "future-widget", WidgetState: json.RawMessage(`{"v":1}`)},
		{Row: 1, Col: 1, RowSpan: 1, ColSpan: 1, WidgetTypeID: "clock"},
	}
	if err := Import(b, doc, Options{}); err != nil {
		t.Fatal(err)
	}

	ph := b.Placeholders()
	if len(ph) != 1 || ph[0].IntendedTypeID != "future-widget" {
		t.Fatalf("placeholders = %+v", ph)
	}

	// Before healing, export keeps the original type id.
	out := Export(b, Options{})
	if got := findCell(out, 2, 3); got == nil || got.WidgetTypeID != "future-widget" {
		t.Fatalf("exported cell = %+v", got)
	}

	if err := reg.Register(widget.Definition{ID: "future-widget"}); err != nil {
		t.Fatal(err)
	}
	w, ok := b.WidgetAt(2, 3)
	if !ok || w.IsPlaceholder() {
		t.Fatalf("widget not healed: %+v", w)
	}
	if w.Origin != grid.MustEncode(2, 3) || w.RowSpan != 2 || string(w.State) != `{"v":1}` {
		t.Errorf("healing changed the widget: %+v", w)
	}

	out = Export(b, Options{})
	if got := findCell(out, 2, 3); got == nil || got.WidgetTypeID != "future-widget" {
		t.Errorf("exported cell after heal = %+v", got)
	}
}

func TestRoundTrip(t *testing.T) {
	reg := registry(t, "clock", "note")
	b := newBoard(t, reg)
	b.Add(grid.Widget{Row: 1, Col: 1, RowSpan: 2, ColSpan: 3, Factory: reg.ResolveFactory("clock"), State: json.RawMessage(`{"tz":"UTC"}`)})
	b.Add(grid.Widget{Row: 5, Col: 2, RowSpan: 1, ColSpan: 1, Flat: true, Factory: reg.ResolveFactory("note")})

	doc := Export(b, Options{})
	var buf bytes.Buffer
	if err := WriteJSON(doc, &buf); err != nil {
		t.Fatal(err)
	}
	read, err := ReadJSON(&buf)
	if err != nil {
		t.Fatal(err)
	}

	b2 := newBoard(t, reg)
	if err := Import(b2, read, Options{}); err != nil {
		t.Fatal(err)
	}
	if changes := board.DiffCells(b.Widgets(), b2.Widgets()); len(changes) != 0 {
		t.Errorf("round trip changed the layout: %v", changes)
	}
	if b2.Config() != b.Config() {
		t.Errorf("config = %+v, want %+v", b2.Config(), b.Config())
	}
	for _, w := range b2.Widgets() {
		if _, ok := b.Widget(w.ID); ok {
			t.Error("imported widgets should get fresh ids")
		}
	}
}

func TestExportSkipsPlaceholderWithoutIntent(t *testing.T) {
	b := newBoard(t, registry(t))
	b.Add(grid.Widget{Row: 1, Col: 1, RowSpan: 1, ColSpan: 1, Factory: widget.Placeholder})
	if doc := Export(b, Options{}); len(doc.Cells) != 0 {
		t.Errorf("cells = %+v, want none", doc.Cells)
	}
}

func TestExportPrefersLiveState(t *testing.T) {
	reg := registry(t, "note")
	b := newBoard(t, reg)
	f := reg.ResolveFactory("note")
	byID := b.Add(grid.Widget{Row: 1, Col: 1, RowSpan: 1, ColSpan: 1, Factory: f, State: json.RawMessage(`"stored-a"`)})
	b.Add(grid.Widget{Row: 2, Col: 1, RowSpan: 1, ColSpan: 1, Factory: f, State: json.RawMessage(`"stored-b"`)})
	b.Add(grid.Widget{Row: 3, Col: 1, RowSpan: 1, ColSpan: 1, Factory: f, State: json.RawMessage(`"stored-c"`)})

	live := LiveStateMap{
		ByID:   map[grid.WidgetID]json.RawMessage{byID: json.RawMessage(`"live-a"`)},
		ByCell: map[grid.Address]json.RawMessage{grid.MustEncode(1, 1): json.RawMessage(`"cell-a"`), grid.MustEncode(2, 1): json.RawMessage(`"cell-b"`)},
	}
	doc := Export(b, Options{LiveState: live})

	want := []string{`"live-a"`, `"cell-b"`, `"stored-c"`}
	for i, c := range doc.Cells {
		if string(c.WidgetState) != want[i] {
			t.Errorf("cell %d state = %s, want %s", i, c.WidgetState, want[i])
		}
	}
}

func TestSharedStates(t *testing.T) {
	reg := registry(t, "weather", "note")
	shared := widget.NewSharedStore()
	shared.Set("weather", json.RawMessage(`{"apiKey":"k"}`))
	shared.Set("stocks", json.RawMessage(`{"apiKey":"s"}`))

	b := newBoard(t, reg)
	b.Add(grid.Widget{Row: 1, Col: 1, RowSpan: 1, ColSpan: 1, Factory: reg.ResolveFactory("weather")})
	doc := Export(b, Options{Shared: shared})
	if len(doc.SharedStates) != 1 || string(doc.SharedStates["weather"]) != `{"apiKey":"k"}` {
		t.Fatalf("shared states = %v", doc.SharedStates)
	}

	// No active type with shared state: the field is omitted.
	b2 := newBoard(t, reg)
	b2.Add(grid.Widget{Row: 1, Col: 1, RowSpan: 1, ColSpan: 1, Factory: reg.ResolveFactory("note")})
	if doc := Export(b2, Options{Shared: shared}); doc.SharedStates != nil {
		t.Errorf("shared states = %v, want nil", doc.SharedStates)
	}

	restored := widget.NewSharedStore()
	if err := Import(newBoard(t, reg), doc, Options{Shared: restored}); err != nil {
		t.Fatal(err)
	}
	if s, ok := restored.Get("weather"); !ok || string(s) != `{"apiKey":"k"}` {
		t.Errorf("restored = %s, %v", s, ok)
	}
}

func TestImportIsAllOrNothing(t *testing.T) {
	reg := registry(t, "note")
	shared := widget.NewSharedStore()

	tests := []struct {
		name   string
		mutate func(*Document)
	}{
		{"zero rows", func(d *Document) { d.Rows = 0 }},
		{"columns at stride", func(d *Document) { d.Columns = grid.Stride }},
		{"future version", func(d *Document) { d.Version = Version + 1 }},
		{"cell at row zero", func(d *Document) { d.Cells[0].Row = 0 }},
		{"negative span", func(d *Document) { d.Cells[0].ColSpan = -1 }},
		{"missing type", func(d *Document) { d.Cells[0].WidgetTypeID = "" }},
		{"bad state", func(d *Document) { d.Cells[0].WidgetState = json.RawMessage(`{`) }},
		{"bad dashboard id", func(d *Document) { d.DashboardID = "has space" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBoard(t, reg)
			keep := b.Add(grid.Widget{Row: 1, Col: 1, RowSpan: 1, ColSpan: 1, Factory: reg.ResolveFactory("note")})

			doc := New("next", 16, 16, 0)
			doc.Cells = []Cell{{Row: 3, Col: 3, RowSpan: 1, ColSpan: 1, WidgetTypeID: "note"}}
			doc.SharedStates = map[string]json.RawMessage{"note": json.RawMessage(`{}`)}
			tt.mutate(doc)

			err := Import(b, doc, Options{Shared: shared})
			if !errors.Is(err, errors.ErrCodeInvalidDocument) {
				t.Fatalf("error = %v, want INVALID_DOCUMENT", err)
			}
			if _, ok := b.Widget(keep); !ok || b.ID() != "test" {
				t.Error("failed import modified the board")
			}
			if _, ok := shared.Get("note"); ok {
				t.Error("failed import restored shared state")
			}
		})
	}
}

func TestImportDefaultsZeroSpans(t *testing.T) {
	b := newBoard(t, registry(t, "note"))
	doc := New("x", 4, 4, 0)
	doc.Cells = []Cell{{Row: 2, Col: 2, WidgetTypeID: "note"}}
	if err := Import(b, doc, Options{}); err != nil {
		t.Fatal(err)
	}
	if w, _ := b.WidgetAt(2, 2); w.RowSpan != 1 || w.ColSpan != 1 {
		t.Errorf("span = %dx%d, want 1x1", w.RowSpan, w.ColSpan)
	}
}

func TestReadJSONUpgradesLegacyDocument(t *testing.T) {
	in := `{
	  "version": 1,
	  "dashboardId": "old",
	  "rows": 12,
	  "columns": 12,
	  "gutterSize": 4,
	  "cells": [
	    {"cellId": 2051, "widgetTypeId": "clock", "extra": true},
	    {"cellId": 5126, "rowSpan": 2, "colSpan": 3, "widgetTypeId": "note", "flat": true}
	  ]
	}`
	doc, err := ReadJSON(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if doc.Version != Version {
		t.Errorf("version = %d, want %d", doc.Version, Version)
	}
	want := []Cell{
		{Row: 2, Col: 3, RowSpan: 1, ColSpan: 1, WidgetTypeID: "clock"},
		{Row: 5, Col: 6, RowSpan: 2, ColSpan: 3, Flat: true, WidgetTypeID: "note"},
	}
	if len(doc.Cells) != len(want) {
		t.Fatalf("cells = %+v", doc.Cells)
	}
	for i := range want {
		got := doc.Cells[i]
		got.WidgetState = nil
		if !reflect.DeepEqual(got, want[i]) {
			t.Errorf("cell %d = %+v, want %+v", i, got, want[i])
		}
	}
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"malformed", `{"version":`},
		{"unknown version", `{"version": 7, "rows": 1, "columns": 1, "cells": []}`},
		{"cell without position", `{"version": 2, "rows": 1, "columns": 1, "cells": [{"widgetTypeId": "a"}]}`},
		{"cellId in current version", `{"version": 2, "rows": 1, "columns": 1, "cells": [{"cellId": 1025, "widgetTypeId": "a"}]}`},
		{"invalid cellId", `{"version": 1, "rows": 1, "columns": 1, "cells": [{"cellId": 3, "widgetTypeId": "a"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadJSON(strings.NewReader(tt.in)); !errors.Is(err, errors.ErrCodeInvalidDocument) {
				t.Errorf("error = %v, want INVALID_DOCUMENT", err)
			}
		})
	}
}

func TestExportImportJSONFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.json")
	doc := New("files", 8, 8, 2)
	doc.Cells = []Cell{{Row: 1, Col: 1, RowSpan: 1, ColSpan: 2, WidgetTypeID: "note", WidgetState: json.RawMessage(`{"text":"hi"}`)}}

	if err := ExportJSON(doc, path); err != nil {
		t.Fatal(err)
	}
	got, err := ImportJSON(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.DashboardID != "files" || len(got.Cells) != 1 || string(got.Cells[0].WidgetState) != `{"text":"hi"}` {
		t.Errorf("read back %+v", got)
	}

	if _, err := ImportJSON(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("missing file should fail")
	}
}

func TestExportJSONFailureKeepsExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "board.json")
	if err := ExportJSON(New("kept", 4, 4, 0), path); err != nil {
		t.Fatal(err)
	}

	bad := New("broken", 4, 4, 0)
	bad.Cells = []Cell{{Row: 1, Col: 1, RowSpan: 1, ColSpan: 1, WidgetTypeID: "note", WidgetState: json.RawMessage(`{not json`)}}
	if err := ExportJSON(bad, path); err == nil {
		t.Fatal("invalid widget state should fail to encode")
	}

	got, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("existing file damaged: %v", err)
	}
	if got.DashboardID != "kept" {
		t.Errorf("DashboardID = %q, want kept", got.DashboardID)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("dir has %d entries, want only board.json", len(entries))
	}
}

func TestTypeIDs(t *testing.T) {
	doc := New("x", 4, 4, 0)
	doc.Cells = []Cell{{WidgetTypeID: "b"}, {WidgetTypeID: "a"}, {WidgetTypeID: "b"}}
	got := doc.TypeIDs()
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("TypeIDs = %v", got)
	}
}

func findCell(doc *Document, row, col int) *Cell {
	for i := range doc.Cells {
		if doc.Cells[i].Row == row && doc.Cells[i].Col == col {
			return &doc.Cells[i]
		}
	}
	return nil
}
