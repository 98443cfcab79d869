// Package board is the stateful half of the grid engine.
//
// A [Board] owns one authoritative mapping from [grid.WidgetID] to
// [grid.Widget] (the [Registry]) and the two transient interaction sessions
// that drive it: a drag/drop session and a resize session.
//
// # Registry
//
// Every mutation installs a fresh map and bumps a version counter, so a
// [Snapshot] taken before a mutation is never affected by it. Mutations are
// named operations (Add, Remove, Move, Resize, UpdateDisplaySettings,
// UpdateState, CreateAtCell, Clear). Operating on an id that is not present is
// a silent no-op: interactive sequences double-fire events routinely. The
// registry performs no collision or bounds checks; callers that need them go
// through the drag/drop state machine or call [grid.Evaluate] first.
//
// # Interaction state machines
//
// Drag/drop moves idle → dragging → idle. [Board.HandleDrop] evaluates the
// payload it is given, ends the drag unconditionally and only then mutates the
// registry, so callers never observe a stuck drag:
//
//	b.StartDrag(grid.CellDrag(w))
//	b.SetHoveredCell(&cell)        // any number of times
//	res := b.HandleDrop(payload, cell)
//
// Resize moves idle → resizing → idle through [Board.StartResize],
// [Board.UpdatePreview] and [Board.EndResize]. Both sessions can be abandoned
// at any time and ending an inactive session is a no-op.
//
// # Projections
//
// Hovered, invalid and preview footprints are recomputed from the current
// snapshot on every call. They never cache, so they cannot go stale.
//
// # Healing
//
// Widgets loaded with an unregistered type hold [widget.Placeholder] and
// remember the type they wanted. While at least one such widget exists the
// board listens to the provider's change signal and swaps real factories in
// as soon as the types appear. Boards without placeholders do not listen at
// all.
//
// # Concurrency
//
// A Board is not safe for concurrent use. Healing runs on whichever goroutine
// registers the new type; callers that register types concurrently must
// serialize access to the board themselves.
package board
