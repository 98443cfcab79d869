package grid

// PayloadKind distinguishes the two kinds of drag payloads.
type PayloadKind int

const (
	// FromPalette drags a new widget of a type that has no instance yet.
	FromPalette PayloadKind = iota
	// ExistingCell drags a widget that is already on the grid.
	ExistingCell
)

// String returns the kind's wire name.
func (k PayloadKind) String() string {
	if k == ExistingCell {
		return "existingCell"
	}
	return "fromPalette"
}

// DragPayload describes what is being dragged.
//
// Palette payloads only carry WidgetType and always measure 1×1. Cell payloads
// carry the dragged widget's id, its origin at drag start and its spans.
type DragPayload struct {
	Kind       PayloadKind
	WidgetType string

	ID               WidgetID
	Origin           Address
	Row, Col         int
	RowSpan, ColSpan int
}

// PaletteDrag returns a payload for dragging a new widget of typeID.
func PaletteDrag(typeID string) DragPayload {
	return DragPayload{Kind: FromPalette, WidgetType: typeID, RowSpan: 1, ColSpan: 1}
}

// CellDrag returns a payload for moving w.
func CellDrag(w Widget) DragPayload {
	return DragPayload{
		Kind:    ExistingCell,
		ID:      w.ID,
		Origin:  w.Origin,
		Row:     w.Row,
		Col:     w.Col,
		RowSpan: w.RowSpan,
		ColSpan: w.ColSpan,
	}
}

// Span returns the footprint extent the payload would occupy.
func (p DragPayload) Span() Span {
	if p.Kind == FromPalette {
		return Span{Rows: 1, Cols: 1}
	}
	return Span{Rows: max(p.RowSpan, 1), Cols: max(p.ColSpan, 1)}
}

// exclude returns the widget id that must not collide with the payload.
func (p DragPayload) exclude() WidgetID {
	if p.Kind == ExistingCell {
		return p.ID
	}
	return ""
}

// Verdict is the result of evaluating a payload at a target cell.
type Verdict struct {
	HasCollision bool      `json:"hasCollision"`
	OutOfBounds  bool      `json:"outOfBounds"`
	Invalid      []Address `json:"invalid,omitempty"`
}

// Valid reports whether the placement is allowed.
func (v Verdict) Valid() bool {
	return !v.HasCollision && !v.OutOfBounds
}

// Evaluate checks whether payload may be dropped with its origin at hovered.
//
// A nil payload or a nil hovered cell yields the zero Verdict: nothing is in a
// droppable state yet. When the placement collides with a widget other than
// the one being dragged, or leaves the grid, Invalid holds the complete
// prospective footprint.
func Evaluate(payload *DragPayload, hovered *Address, widgets []Widget, rows, cols int) Verdict {
	if payload == nil || hovered == nil {
		return Verdict{}
	}

	row, col := Decode(*hovered)
	span := payload.Span()
	exclude := payload.exclude()

	var v Verdict
	v.OutOfBounds = IsOutOfBounds(row, col, span.Rows, span.Cols, rows, cols)
	for _, w := range widgets {
		if w.ID == exclude && exclude != "" {
			continue
		}
		if w.Overlaps(row, col, span.Rows, span.Cols) {
			v.HasCollision = true
			break
		}
	}
	if !v.Valid() {
		v.Invalid = Footprint(row, col, span.Rows, span.Cols)
	}
	return v
}

// HighlightedZones returns the prospective footprint of payload at hovered,
// regardless of whether the placement is valid.
func HighlightedZones(payload *DragPayload, hovered *Address) []Address {
	if payload == nil || hovered == nil {
		return nil
	}
	span := payload.Span()
	return Footprint(hovered.Row(), hovered.Col(), span.Rows, span.Cols)
}
