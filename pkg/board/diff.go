package board

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/matzehuels/gridboard/pkg/grid"
)

// ChangeKind classifies a difference between two snapshots.
type ChangeKind int

const (
	Added ChangeKind = iota
	Removed
	Moved
	Resized
	Updated
)

func (k ChangeKind) String() string {
	switch k {
	case Added:
		return "added"
	case Removed:
		return "removed"
	case Moved:
		return "moved"
	case Resized:
		return "resized"
	case Updated:
		return "updated"
	}
	return fmt.Sprintf("ChangeKind(%d)", int(k))
}

// Change is one difference. Before is zero for Added, After for Removed.
type Change struct {
	Kind   ChangeKind
	ID     grid.WidgetID
	Before grid.Widget
	After  grid.Widget
}

func (c Change) String() string {
	switch c.Kind {
	case Added:
		return fmt.Sprintf("added %s at %s (%dx%d)", c.After.TypeID(), c.After.Origin, c.After.RowSpan, c.After.ColSpan)
	case Removed:
		return fmt.Sprintf("removed %s at %s", c.Before.TypeID(), c.Before.Origin)
	case Moved:
		return fmt.Sprintf("moved %s %s -> %s", c.After.TypeID(), c.Before.Origin, c.After.Origin)
	case Resized:
		return fmt.Sprintf("resized %s at %s %dx%d -> %dx%d", c.After.TypeID(), c.After.Origin,
			c.Before.RowSpan, c.Before.ColSpan, c.After.RowSpan, c.After.ColSpan)
	default:
		return fmt.Sprintf("updated %s at %s", c.After.TypeID(), c.After.Origin)
	}
}

// Diff compares two snapshots of the same board by widget id. A widget that
// both moved and resized yields one change of each kind.
func Diff(before, after Snapshot) []Change {
	return diff(before.Widgets(), after.Widgets(), func(w grid.Widget) string { return string(w.ID) })
}

// DiffCells compares two widget sets by origin cell. It is meant for layouts
// loaded separately, whose ids never match. Moves show up as a removal plus
// an addition.
func DiffCells(before, after []grid.Widget) []Change {
	return diff(sorted(before), sorted(after), func(w grid.Widget) string { return w.Origin.String() })
}

func diff(before, after []grid.Widget, key func(grid.Widget) string) []Change {
	old := make(map[string]grid.Widget, len(before))
	for _, w := range before {
		old[key(w)] = w
	}
	seen := make(map[string]bool, len(after))

	var changes []Change
	for _, a := range after {
		k := key(a)
		seen[k] = true
		b, ok := old[k]
		if !ok {
			changes = append(changes, Change{Kind: Added, ID: a.ID, After: a})
			continue
		}
		if a.Origin != b.Origin {
			changes = append(changes, Change{Kind: Moved, ID: a.ID, Before: b, After: a})
		}
		if a.Span() != b.Span() {
			changes = append(changes, Change{Kind: Resized, ID: a.ID, Before: b, After: a})
		}
		if a.Flat != b.Flat || a.TypeID() != b.TypeID() || !sameState(a.State, b.State) {
			changes = append(changes, Change{Kind: Updated, ID: a.ID, Before: b, After: a})
		}
	}
	for _, b := range before {
		if !seen[key(b)] {
			changes = append(changes, Change{Kind: Removed, ID: b.ID, Before: b})
		}
	}
	return changes
}

func sorted(ws []grid.Widget) []grid.Widget {
	out := append([]grid.Widget(nil), ws...)
	grid.SortByOrigin(out)
	return out
}

// sameState compares states ignoring insignificant whitespace.
func sameState(a, b json.RawMessage) bool {
	if bytes.Equal(a, b) {
		return true
	}
	var ca, cb bytes.Buffer
	if json.Compact(&ca, a) != nil || json.Compact(&cb, b) != nil {
		return false
	}
	return bytes.Equal(ca.Bytes(), cb.Bytes())
}
