package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/gridboard/pkg/board"
	"github.com/matzehuels/gridboard/pkg/errors"
	"github.com/matzehuels/gridboard/pkg/grid"
	"github.com/matzehuels/gridboard/pkg/widget"
)

// Import replaces the board's configuration and widgets with the document.
//
// The document is validated first; on error the board is left untouched.
// Shared state is restored before any widget is created. Cells whose type
// does not resolve get the placeholder factory and keep the type id as their
// intended type, so they heal once it is registered and export unchanged.
func Import(b *board.Board, doc *Document, opts Options) error {
	if doc == nil {
		return errors.New(errors.ErrCodeInvalidDocument, "nil document")
	}
	if err := doc.Validate(); err != nil {
		return err
	}

	provider := b.Provider()
	widgets := make([]grid.Widget, 0, len(doc.Cells))
	for _, c := range doc.Cells {
		w := grid.Widget{
			ID:      grid.NewWidgetID(),
			Row:     c.Row,
			Col:     c.Col,
			RowSpan: max(1, c.RowSpan),
			ColSpan: max(1, c.ColSpan),
			Flat:    c.Flat,
		}
		if len(c.WidgetState) > 0 {
			var buf bytes.Buffer
			if err := json.Compact(&buf, c.WidgetState); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidDocument, err, "cell r%dc%d state", c.Row, c.Col)
			}
			w.State = buf.Bytes()
		}
		w.Factory = provider.ResolveFactory(c.WidgetTypeID)
		if widget.IsPlaceholder(w.Factory) {
			w.Factory = widget.Placeholder
			w.IntendedTypeID = c.WidgetTypeID
		}
		widgets = append(widgets, w)
	}

	if opts.Shared != nil && len(doc.SharedStates) > 0 {
		opts.Shared.RestoreSharedState(doc.SharedStates)
	}

	cfg := board.Config{
		DashboardID: doc.DashboardID,
		Rows:        doc.Rows,
		Columns:     doc.Columns,
		Gutter:      doc.GutterSize,
	}
	if err := b.Load(cfg, widgets); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidDocument, err, "load board")
	}
	return nil
}

// ReadJSON decodes a document from r, upgrading legacy versions.
//
// Unknown fields are ignored. ReadJSON checks that every cell has a position
// and that the version is supported; the remaining shape checks happen in
// [Document.Validate], which [Import] calls. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Document, error) {
	var w wireDocument
	if err := json.NewDecoder(r).Decode(&w); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode")
	}
	return w.upgrade()
}

// ImportJSON reads a JSON file at path and returns the decoded document.
func ImportJSON(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// Decode is [ReadJSON] over a byte slice.
func Decode(data []byte) (*Document, error) {
	var w wireDocument
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode")
	}
	return w.upgrade()
}

// Encode returns the compact JSON form of doc.
func Encode(doc *Document) ([]byte, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return data, nil
}
