package board

import (
	"github.com/matzehuels/gridboard/pkg/grid"
	"github.com/matzehuels/gridboard/pkg/widget"
)

// DropResult reports the outcome of [Board.HandleDrop].
type DropResult struct {
	// Applied is true when the registry was updated.
	Applied bool
	// Verdict is the collision verdict the drop was decided on.
	Verdict grid.Verdict
	// ID is the created or moved widget.
	ID grid.WidgetID
}

// StartDrag begins a drag, replacing any stale payload.
func (b *Board) StartDrag(p grid.DragPayload) {
	b.drag = &p
	b.hovered = nil
}

// SetHoveredCell records the cell under the pointer. Nil clears it.
func (b *Board) SetHoveredCell(cell *grid.Address) {
	if cell == nil {
		b.hovered = nil
		return
	}
	c := *cell
	b.hovered = &c
}

// EndDrag clears the payload and the hovered cell.
func (b *Board) EndDrag() {
	b.drag = nil
	b.hovered = nil
}

// Dragging returns the active payload.
func (b *Board) Dragging() (grid.DragPayload, bool) {
	if b.drag == nil {
		return grid.DragPayload{}, false
	}
	return *b.drag, true
}

// HoveredCell returns the cell under the pointer during a drag.
func (b *Board) HoveredCell() (grid.Address, bool) {
	if b.hovered == nil {
		return 0, false
	}
	return *b.hovered, true
}

// HandleDrop drops p at target. The payload itself is evaluated, not the
// hovered cell. The drag ends before the registry is touched, whatever the
// outcome. Palette drops of an unregistered type create a placeholder that
// remembers the requested type.
func (b *Board) HandleDrop(p grid.DragPayload, target grid.Address) DropResult {
	v := grid.Evaluate(&p, &target, b.reg.Widgets(), b.cfg.Rows, b.cfg.Columns)
	b.EndDrag()

	res := DropResult{Verdict: v}
	if !v.Valid() {
		b.hooks.OnDrop(b.cfg.DashboardID, p.Kind.String(), target.String(), false)
		return res
	}

	row, col := grid.Decode(target)
	var err error
	switch p.Kind {
	case grid.FromPalette:
		err = b.commit(func() error {
			f := b.provider.ResolveFactory(p.WidgetType)
			id, err := b.reg.CreateAtCell(row, col, f, nil)
			if err != nil {
				return err
			}
			if widget.IsPlaceholder(f) && p.WidgetType != widget.UnknownTypeID {
				b.reg.update(id, func(w *grid.Widget) { w.IntendedTypeID = p.WidgetType })
			}
			res.ID = id
			return nil
		})
	case grid.ExistingCell:
		err = b.commit(func() error { return b.reg.Move(p.ID, row, col) })
		res.ID = p.ID
	}
	res.Applied = err == nil
	b.hooks.OnDrop(b.cfg.DashboardID, p.Kind.String(), target.String(), res.Applied)
	return res
}

// CurrentVerdict evaluates the active drag at the hovered cell.
func (b *Board) CurrentVerdict() grid.Verdict {
	return grid.Evaluate(b.drag, b.hovered, b.reg.Widgets(), b.cfg.Rows, b.cfg.Columns)
}

// HoveredFootprint returns the cells the active drag would cover at the
// hovered cell, valid or not.
func (b *Board) HoveredFootprint() []grid.Address {
	return grid.HighlightedZones(b.drag, b.hovered)
}

// InvalidFootprint returns the hovered footprint when the placement is
// invalid, otherwise nil.
func (b *Board) InvalidFootprint() []grid.Address {
	return b.CurrentVerdict().Invalid
}

// IsCurrentPlacementValid reports whether the active drag may be dropped at
// the hovered cell. It is true when nothing is being dragged.
func (b *Board) IsCurrentPlacementValid() bool {
	return b.CurrentVerdict().Valid()
}
