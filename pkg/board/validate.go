package board

import (
	"fmt"

	"github.com/matzehuels/gridboard/pkg/grid"
)

// ProblemKind classifies a layout problem.
type ProblemKind int

const (
	// Overlap means two widgets share at least one cell.
	Overlap ProblemKind = iota
	// OutOfBounds means a widget extends past the grid.
	OutOfBounds
)

func (k ProblemKind) String() string {
	if k == OutOfBounds {
		return "out of bounds"
	}
	return "overlap"
}

// Problem is one layout invariant violation.
type Problem struct {
	Kind  ProblemKind
	ID    grid.WidgetID
	Other grid.WidgetID // set for overlaps
	Cells []grid.Address
}

func (p Problem) String() string {
	if p.Kind == Overlap && len(p.Cells) > 0 {
		return fmt.Sprintf("%s and %s overlap on %d cell(s) starting at %s", p.ID, p.Other, len(p.Cells), p.Cells[0])
	}
	if p.Kind == Overlap {
		return fmt.Sprintf("%s and %s overlap", p.ID, p.Other)
	}
	return fmt.Sprintf("%s extends past the grid", p.ID)
}

// Validate checks the current layout. Imports may leave a board in a state
// that interactive operations would never produce; Validate reports it.
func (b *Board) Validate() []Problem {
	return ValidateLayout(b.reg.Widgets(), b.cfg.Rows, b.cfg.Columns)
}

// ValidateLayout reports out-of-bounds widgets and every overlapping pair.
func ValidateLayout(widgets []grid.Widget, rows, cols int) []Problem {
	var problems []Problem
	for i, w := range widgets {
		if grid.IsOutOfBounds(w.Row, w.Col, w.RowSpan, w.ColSpan, rows, cols) {
			problems = append(problems, Problem{Kind: OutOfBounds, ID: w.ID, Cells: w.Footprint()})
		}
		for _, o := range widgets[i+1:] {
			if !o.Overlaps(w.Row, w.Col, w.RowSpan, w.ColSpan) {
				continue
			}
			var shared []grid.Address
			for _, a := range w.Footprint() {
				if o.Contains(a.Row(), a.Col()) {
					shared = append(shared, a)
				}
			}
			problems = append(problems, Problem{Kind: Overlap, ID: w.ID, Other: o.ID, Cells: shared})
		}
	}
	return problems
}
