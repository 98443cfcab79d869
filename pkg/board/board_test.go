package board

import (
	"encoding/json"
	"testing"

	"github.com/matzehuels/gridboard/pkg/errors"
	"github.com/matzehuels/gridboard/pkg/grid"
	"github.com/matzehuels/gridboard/pkg/widget"
)

func newBoard(t *testing.T, types ...string) (*Board, *widget.Registry) {
	t.Helper()
	reg := widget.NewRegistry()
	for _, id := range types {
		if err := reg.Register(widget.Definition{ID: id}); err != nil {
			t.Fatalf("Register(%q): %v", id, err)
		}
	}
	b, err := New(Config{DashboardID: "test"}, reg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(b.Close)
	return b, reg
}

func addWidget(b *Board, id string, row, col, rowSpan, colSpan int) grid.Widget {
	w := grid.Widget{
		ID:      grid.WidgetID(id),
		Row:     row,
		Col:     col,
		RowSpan: rowSpan,
		ColSpan: colSpan,
		Factory: b.Provider().ResolveFactory("note"),
	}
	b.Add(w)
	got, _ := b.Widget(w.ID)
	return got
}

func TestNewDefaultsAndValidation(t *testing.T) {
	b, err := New(Config{}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if b.Rows() != DefaultRows || b.Columns() != DefaultColumns {
		t.Errorf("size = %dx%d, want %dx%d", b.Rows(), b.Columns(), DefaultRows, DefaultColumns)
	}

	tests := []struct {
		name string
		cfg  Config
	}{
		{"negative rows", Config{Rows: -1}},
		{"columns at stride", Config{Columns: grid.Stride}},
		{"negative gutter", Config{Gutter: -4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg, nil)
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("New(%+v) error = %v, want INVALID_INPUT", tt.cfg, err)
			}
		})
	}
}

func TestRegistryCopyOnWrite(t *testing.T) {
	r := NewRegistry()
	before := r.Snapshot()
	id := r.Add(grid.Widget{Row: 1, Col: 1, RowSpan: 1, ColSpan: 1})

	if before.Len() != 0 {
		t.Fatalf("earlier snapshot changed: len = %d", before.Len())
	}
	mid := r.Snapshot()
	if err := r.Move(id, 4, 4); err != nil {
		t.Fatal(err)
	}
	w, _ := mid.Get(id)
	if w.Row != 1 {
		t.Errorf("snapshot widget moved to row %d", w.Row)
	}
	if r.Snapshot().Version() <= mid.Version() {
		t.Error("version did not increase")
	}
}

func TestRegistryMissingIDIsNoop(t *testing.T) {
	r := NewRegistry()
	r.Add(grid.Widget{ID: "a", Row: 1, Col: 1, RowSpan: 1, ColSpan: 1})
	v := r.Snapshot().Version()

	r.Remove("gone")
	r.Resize("gone", 3, 3)
	r.UpdateDisplaySettings("gone", true)
	r.UpdateState("gone", json.RawMessage(`{}`))
	if err := r.Move("gone", 2, 2); err != nil {
		t.Errorf("Move on missing id: %v", err)
	}
	if r.Snapshot().Version() != v {
		t.Error("no-op mutation published a new snapshot")
	}
}

func TestRegistryMoveRejectsBadCoordinates(t *testing.T) {
	r := NewRegistry()
	id := r.Add(grid.Widget{Row: 2, Col: 2, RowSpan: 1, ColSpan: 1})
	err := r.Move(id, 0, 3)
	if !errors.Is(err, errors.ErrCodeInvalidCoordinate) {
		t.Fatalf("Move(0, 3) error = %v, want INVALID_COORDINATE", err)
	}
	if w, _ := r.Get(id); w.Row != 2 {
		t.Error("failed move changed the widget")
	}
}

func TestRegistryMoveKeepsSpanAndState(t *testing.T) {
	r := NewRegistry()
	id := r.Add(grid.Widget{Row: 2, Col: 2, RowSpan: 2, ColSpan: 3, State: json.RawMessage(`{"n":1}`)})
	if err := r.Move(id, 7, 9); err != nil {
		t.Fatal(err)
	}
	w, _ := r.Get(id)
	if w.Origin != grid.MustEncode(7, 9) {
		t.Errorf("origin = %v, want r7c9", w.Origin)
	}
	if w.RowSpan != 2 || w.ColSpan != 3 || string(w.State) != `{"n":1}` {
		t.Errorf("move changed span or state: %+v", w)
	}
}

func TestCreateAtCellUsesInitialState(t *testing.T) {
	r := NewRegistry()
	def := &widget.Definition{ID: "counter", DefaultState: json.RawMessage(`{"count":0}`)}

	id, err := r.CreateAtCell(3, 4, def, nil)
	if err != nil {
		t.Fatal(err)
	}
	w, _ := r.Get(id)
	if w.RowSpan != 1 || w.ColSpan != 1 {
		t.Errorf("span = %dx%d, want 1x1", w.RowSpan, w.ColSpan)
	}
	if string(w.State) != `{"count":0}` {
		t.Errorf("state = %s, want factory default", w.State)
	}

	id, _ = r.CreateAtCell(5, 5, def, json.RawMessage(`{"count":9}`))
	if w, _ := r.Get(id); string(w.State) != `{"count":9}` {
		t.Errorf("explicit state = %s", w.State)
	}

	if _, err := r.CreateAtCell(1, grid.Stride, def, nil); err == nil {
		t.Error("CreateAtCell past the stride should fail")
	}
}

func TestResizeClampsToOne(t *testing.T) {
	r := NewRegistry()
	id := r.Add(grid.Widget{Row: 1, Col: 1, RowSpan: 2, ColSpan: 2})
	r.Resize(id, 0, -3)
	if w, _ := r.Get(id); w.RowSpan != 1 || w.ColSpan != 1 {
		t.Errorf("span = %dx%d, want 1x1", w.RowSpan, w.ColSpan)
	}
}

func TestClearAndRestore(t *testing.T) {
	r := NewRegistry()
	r.Add(grid.Widget{Row: 1, Col: 1, RowSpan: 1, ColSpan: 1})
	r.Add(grid.Widget{Row: 2, Col: 2, RowSpan: 1, ColSpan: 1})
	saved := r.Snapshot()

	r.Clear()
	if r.Len() != 0 {
		t.Fatalf("len after Clear = %d", r.Len())
	}
	r.Restore(saved)
	if r.Len() != 2 {
		t.Errorf("len after Restore = %d, want 2", r.Len())
	}
}

func TestLoadReplacesEverything(t *testing.T) {
	b, _ := newBoard(t, "note")
	addWidget(b, "old", 1, 1, 1, 1)
	b.StartDrag(grid.PaletteDrag("note"))

	err := b.Load(Config{DashboardID: "other", Rows: 8, Columns: 10, Gutter: 4}, []grid.Widget{
		{Row: 3, Col: 3, RowSpan: 0, ColSpan: 2},
	})
	if err != nil {
		t.Fatal(err)
	}
	if b.ID() != "other" || b.Rows() != 8 || b.Columns() != 10 || b.Config().Gutter != 4 {
		t.Errorf("config = %+v", b.Config())
	}
	ws := b.Widgets()
	if len(ws) != 1 || ws[0].Origin != grid.MustEncode(3, 3) || ws[0].RowSpan != 1 {
		t.Fatalf("widgets = %+v", ws)
	}
	if ws[0].ID == "" {
		t.Error("loaded widget has no id")
	}
	if _, ok := b.Dragging(); ok {
		t.Error("Load should end the drag")
	}
	if b.CanUndo() {
		t.Error("Load should reset history")
	}
}

func TestLoadIsAllOrNothing(t *testing.T) {
	b, _ := newBoard(t, "note")
	addWidget(b, "keep", 1, 1, 1, 1)

	err := b.Load(Config{DashboardID: "x"}, []grid.Widget{
		{Row: 1, Col: 1, RowSpan: 1, ColSpan: 1},
		{Row: 0, Col: 1, RowSpan: 1, ColSpan: 1},
	})
	if err == nil {
		t.Fatal("expected error for row 0")
	}
	if _, ok := b.Widget("keep"); !ok || b.ID() != "test" {
		t.Error("failed Load modified the board")
	}
}
