package grid

// IsOccupied reports whether any widget other than exclude covers (row, col).
// An empty exclude excludes nothing.
func IsOccupied(widgets []Widget, row, col int, exclude WidgetID) bool {
	for _, w := range widgets {
		if exclude != "" && w.ID == exclude {
			continue
		}
		if w.Contains(row, col) {
			return true
		}
	}
	return false
}

// IsOutOfBounds reports whether the rectangle starting at (row, col) with the
// given spans extends past the grid edge. Origins left of or above the first
// cell are also out of bounds.
func IsOutOfBounds(row, col, rowSpan, colSpan, maxRows, maxCols int) bool {
	if row < 1 || col < 1 {
		return true
	}
	return row+rowSpan-1 > maxRows || col+colSpan-1 > maxCols
}

// WidgetAtOrigin returns the widget whose origin is exactly (row, col).
func WidgetAtOrigin(widgets []Widget, row, col int) (Widget, bool) {
	for _, w := range widgets {
		if w.Row == row && w.Col == col {
			return w, true
		}
	}
	return Widget{}, false
}

// WidgetCovering returns the widget whose footprint contains (row, col).
func WidgetCovering(widgets []Widget, row, col int) (Widget, bool) {
	for _, w := range widgets {
		if w.Contains(row, col) {
			return w, true
		}
	}
	return Widget{}, false
}

// FindWidget returns the widget with the given id.
func FindWidget(widgets []Widget, id WidgetID) (Widget, bool) {
	for _, w := range widgets {
		if w.ID == id {
			return w, true
		}
	}
	return Widget{}, false
}

// OccupiedCells returns the set of cells covered by any widget.
func OccupiedCells(widgets []Widget) map[Address]WidgetID {
	cells := make(map[Address]WidgetID)
	for _, w := range widgets {
		for _, a := range w.Footprint() {
			cells[a] = w.ID
		}
	}
	return cells
}
