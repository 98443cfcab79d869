package document

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/matzehuels/gridboard/pkg/board"
	"github.com/matzehuels/gridboard/pkg/grid"
	"github.com/matzehuels/gridboard/pkg/widget"
)

// LiveState supplies widget state that is newer than the board's copy, for
// example state held by a running widget instance.
type LiveState interface {
	// StateByID returns the live state of a widget instance.
	StateByID(id grid.WidgetID) (json.RawMessage, bool)
	// StateByCell returns live state keyed by the widget's current origin.
	// It exists for callers that predate instance ids.
	StateByCell(origin grid.Address) (json.RawMessage, bool)
}

// LiveStateMap is a map-backed [LiveState].
type LiveStateMap struct {
	ByID   map[grid.WidgetID]json.RawMessage
	ByCell map[grid.Address]json.RawMessage
}

// StateByID implements [LiveState].
func (m LiveStateMap) StateByID(id grid.WidgetID) (json.RawMessage, bool) {
	s, ok := m.ByID[id]
	return s, ok
}

// StateByCell implements [LiveState].
func (m LiveStateMap) StateByCell(origin grid.Address) (json.RawMessage, bool) {
	s, ok := m.ByCell[origin]
	return s, ok
}

// Options configures [Export] and [Import].
type Options struct {
	// LiveState overrides stored widget state on export.
	LiveState LiveState
	// Shared collects shared state on export and restores it on import.
	Shared widget.SharedStateProvider
}

// Export serializes the board. Cells are emitted in origin order.
func Export(b *board.Board, opts Options) *Document {
	cfg := b.Config()
	doc := New(cfg.DashboardID, cfg.Rows, cfg.Columns, cfg.Gutter)

	var types []string
	for _, w := range b.Widgets() {
		typeID := w.TypeID()
		if typeID == widget.UnknownTypeID {
			continue
		}
		doc.Cells = append(doc.Cells, Cell{
			Row:          w.Row,
			Col:          w.Col,
			RowSpan:      w.RowSpan,
			ColSpan:      w.ColSpan,
			Flat:         w.Flat,
			WidgetTypeID: typeID,
			WidgetState:  exportState(w, opts.LiveState),
		})
		types = append(types, typeID)
	}

	if opts.Shared != nil && len(types) > 0 {
		slices.Sort(types)
		if shared := opts.Shared.CollectSharedState(slices.Compact(types)); len(shared) > 0 {
			doc.SharedStates = shared
		}
	}
	return doc
}

func exportState(w grid.Widget, live LiveState) json.RawMessage {
	if live != nil {
		if s, ok := live.StateByID(w.ID); ok {
			return s
		}
		if s, ok := live.StateByCell(w.Origin); ok {
			return s
		}
	}
	return w.State
}

// WriteJSON encodes a document as indented JSON and writes it to w.
// The output can be re-imported with [ReadJSON].
func WriteJSON(doc *Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a document to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
// The document is written to a temporary file beside path and renamed into
// place, so a failed write leaves any existing file untouched.
func ExportJSON(doc *Document, path string) error {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	if err := WriteJSON(doc, f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
