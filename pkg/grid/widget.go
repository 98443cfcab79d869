package grid

import (
	"cmp"
	"encoding/json"
	"slices"

	"github.com/google/uuid"

	"github.com/matzehuels/gridboard/pkg/widget"
)

// WidgetID identifies one widget instance for its whole lifetime.
type WidgetID string

// NewWidgetID returns a fresh random identifier.
func NewWidgetID() WidgetID {
	return WidgetID(uuid.NewString())
}

// Span is a rows × columns extent.
type Span struct {
	Rows int `json:"rowSpan"`
	Cols int `json:"colSpan"`
}

// Widget is a widget placed on the grid.
//
// Widgets are values. Code outside the board registry must treat them as
// read-only snapshots; changes go through the registry's named operations.
type Widget struct {
	ID     WidgetID
	Origin Address // always Encode(Row, Col)

	Row, Col         int
	RowSpan, ColSpan int

	// Flat selects the borderless display variant.
	Flat bool

	// IntendedTypeID is the type id a placeholder widget was loaded with.
	// It is empty for widgets whose factory resolved normally.
	IntendedTypeID string

	Factory widget.Factory
	State   json.RawMessage
}

// TypeID returns the type id the widget persists under: the intended type
// for placeholders, otherwise the factory's type.
func (w Widget) TypeID() string {
	if w.IntendedTypeID != "" {
		return w.IntendedTypeID
	}
	if w.Factory == nil {
		return widget.UnknownTypeID
	}
	return w.Factory.TypeID()
}

// IsPlaceholder reports whether the widget currently holds the placeholder factory.
func (w Widget) IsPlaceholder() bool {
	return widget.IsPlaceholder(w.Factory)
}

// Span returns the widget's extent.
func (w Widget) Span() Span { return Span{Rows: w.RowSpan, Cols: w.ColSpan} }

// LastRow returns the last row covered by the widget.
func (w Widget) LastRow() int { return w.Row + w.RowSpan - 1 }

// LastCol returns the last column covered by the widget.
func (w Widget) LastCol() int { return w.Col + w.ColSpan - 1 }

// Contains reports whether (row, col) lies within the widget's footprint.
func (w Widget) Contains(row, col int) bool {
	return row >= w.Row && row <= w.LastRow() && col >= w.Col && col <= w.LastCol()
}

// Overlaps reports whether the widget's footprint intersects the rectangle
// starting at (row, col) with the given spans.
func (w Widget) Overlaps(row, col, rowSpan, colSpan int) bool {
	return row <= w.LastRow() && row+rowSpan-1 >= w.Row &&
		col <= w.LastCol() && col+colSpan-1 >= w.Col
}

// Footprint returns every cell the widget covers.
func (w Widget) Footprint() []Address {
	return Footprint(w.Row, w.Col, w.RowSpan, w.ColSpan)
}

// Footprint returns the addresses of the rectangle starting at (row, col),
// in row-major order. Cells that cannot be encoded are skipped.
func Footprint(row, col, rowSpan, colSpan int) []Address {
	if rowSpan < 1 || colSpan < 1 {
		return nil
	}
	cells := make([]Address, 0, rowSpan*colSpan)
	for r := row; r < row+rowSpan; r++ {
		for c := col; c < col+colSpan; c++ {
			if a, err := Encode(r, c); err == nil {
				cells = append(cells, a)
			}
		}
	}
	return cells
}

// SortByOrigin sorts widgets by origin address, then by id.
func SortByOrigin(ws []Widget) {
	slices.SortFunc(ws, func(a, b Widget) int {
		if c := cmp.Compare(a.Origin, b.Origin); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}
