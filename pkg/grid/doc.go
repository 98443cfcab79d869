// Package grid implements the placement model and the pure algorithms of the
// widget grid: cell addressing, spatial queries, collision evaluation for drags
// and span negotiation for resizes.
//
// # Addressing
//
// A grid is a fixed number of rows and columns, both 1-based. A cell is
// identified by an [Address], a single ordered integer computed as
//
//	address = row*Stride + col
//
// with Stride = 1024. Addresses are cheap map keys and compare by value. They
// identify cells, never widgets: a widget's origin address changes whenever it
// moves. [Encode] rejects row < 1, col < 1 and col >= Stride with an
// INVALID_COORDINATE error, because such values can only come from programmer
// error.
//
// # Widgets and footprints
//
// A [Widget] occupies the rectangle starting at its origin (Row, Col) and
// extending RowSpan rows down and ColSpan columns right. The set of cells in
// that rectangle is its footprint. Two widgets on a valid board never share a
// cell and every footprint lies within [1,rows] × [1,columns]. This package
// validates those invariants; it never enforces them on its own.
//
// # Collision evaluation
//
// [Evaluate] answers "may this drag payload be dropped here?" for the cell
// under the pointer. The widget being dragged is excluded by its [WidgetID], so
// moving a widget onto cells it currently covers is never a collision:
//
//	v := grid.Evaluate(&payload, &hovered, widgets, 16, 16)
//	if !v.Valid() {
//	    highlight(v.Invalid)
//	}
//
// # Resize negotiation
//
// [MaxColSpan] and [MaxRowSpan] scan outward from a widget's origin one line at
// a time and stop at the first line that another widget touches, or at the
// grid edge. [PreviewSpan] turns a requested delta into the span that is
// actually achievable.
//
// # Purity
//
// Every function in this package is a pure function of its arguments. None of
// them mutate the widgets they receive, so they are safe to call on every
// pointer move.
package grid
