package grid

// Direction names the axis a resize handle changes.
type Direction int

const (
	// Horizontal changes the column span.
	Horizontal Direction = iota
	// Vertical changes the row span.
	Vertical
	// Both changes both spans by the same delta (corner handle).
	Both
)

// String returns the direction's wire name.
func (d Direction) String() string {
	switch d {
	case Vertical:
		return "vertical"
	case Both:
		return "both"
	default:
		return "horizontal"
	}
}

// ParseDirection parses a wire name produced by [Direction.String].
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "horizontal", "h", "cols":
		return Horizontal, true
	case "vertical", "v", "rows":
		return Vertical, true
	case "both", "corner":
		return Both, true
	}
	return Horizontal, false
}

// ResizeSession is the transient state of an interactive resize.
type ResizeSession struct {
	ID              WidgetID
	OriginalRowSpan int
	OriginalColSpan int
	PreviewRowSpan  int
	PreviewColSpan  int
}

// NewResizeSession seeds a session for w with preview equal to its current spans.
func NewResizeSession(w Widget) ResizeSession {
	return ResizeSession{
		ID:              w.ID,
		OriginalRowSpan: w.RowSpan,
		OriginalColSpan: w.ColSpan,
		PreviewRowSpan:  w.RowSpan,
		PreviewColSpan:  w.ColSpan,
	}
}

// Preview returns the session's preview extent.
func (s ResizeSession) Preview() Span {
	return Span{Rows: s.PreviewRowSpan, Cols: s.PreviewColSpan}
}

// Original returns the extent the widget had when the session started.
func (s ResizeSession) Original() Span {
	return Span{Rows: s.OriginalRowSpan, Cols: s.OriginalColSpan}
}

// Changed reports whether the preview differs from the original in either axis.
func (s ResizeSession) Changed() bool {
	return s.Preview() != s.Original()
}

// MaxColSpan returns the widest column span the widget id can reach from its
// origin (row, col) without touching another widget or passing maxCols. The
// rows scanned are the rows the widget currently spans. The result is at least 1.
func MaxColSpan(id WidgetID, row, col int, widgets []Widget, maxCols int) int {
	rowSpan := 1
	if w, ok := FindWidget(widgets, id); ok {
		rowSpan = w.RowSpan
	}
	return maxColSpan(id, row, col, rowSpan, widgets, maxCols)
}

// MaxRowSpan is the vertical analogue of [MaxColSpan].
func MaxRowSpan(id WidgetID, row, col int, widgets []Widget, maxRows int) int {
	colSpan := 1
	if w, ok := FindWidget(widgets, id); ok {
		colSpan = w.ColSpan
	}
	return maxRowSpan(id, row, col, colSpan, widgets, maxRows)
}

// maxColSpan walks right one column at a time. A column is free only if no
// other widget covers it in any of the rowSpan rows starting at row.
func maxColSpan(id WidgetID, row, col, rowSpan int, widgets []Widget, maxCols int) int {
	span := 0
	for c := col; c <= maxCols; c++ {
		blocked := false
		for r := row; r < row+rowSpan; r++ {
			if IsOccupied(widgets, r, c, id) {
				blocked = true
				break
			}
		}
		if blocked {
			break
		}
		span++
	}
	return max(span, 1)
}

func maxRowSpan(id WidgetID, row, col, colSpan int, widgets []Widget, maxRows int) int {
	span := 0
	for r := row; r <= maxRows; r++ {
		blocked := false
		for c := col; c < col+colSpan; c++ {
			if IsOccupied(widgets, r, c, id) {
				blocked = true
				break
			}
		}
		if blocked {
			break
		}
		span++
	}
	return max(span, 1)
}

// PreviewSpan computes the span a resize would reach for the requested delta.
//
// The desired span along the named axis is max(1, original+delta), capped by
// the maximum span available from the widget's origin. The other axis keeps
// its current preview value and bounds the scan, so the returned rectangle is
// always free of other widgets. The result depends only on the session's
// original spans and delta, never on earlier previews along the same axis.
//
// When the widget is no longer in widgets the current preview is returned.
func PreviewSpan(s ResizeSession, dir Direction, delta int, widgets []Widget, rows, cols int) Span {
	w, ok := FindWidget(widgets, s.ID)
	if !ok {
		return s.Preview()
	}

	out := s.Preview()
	switch dir {
	case Horizontal:
		out.Cols = min(max(1, s.OriginalColSpan+delta), maxColSpan(s.ID, w.Row, w.Col, out.Rows, widgets, cols))
	case Vertical:
		out.Rows = min(max(1, s.OriginalRowSpan+delta), maxRowSpan(s.ID, w.Row, w.Col, out.Cols, widgets, rows))
	case Both:
		out.Cols = min(max(1, s.OriginalColSpan+delta), maxColSpan(s.ID, w.Row, w.Col, s.OriginalRowSpan, widgets, cols))
		out.Rows = min(max(1, s.OriginalRowSpan+delta), maxRowSpan(s.ID, w.Row, w.Col, out.Cols, widgets, rows))
	}
	return out
}
