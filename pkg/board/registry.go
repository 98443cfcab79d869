package board

import (
	"encoding/json"
	"maps"

	"github.com/matzehuels/gridboard/pkg/grid"
	"github.com/matzehuels/gridboard/pkg/widget"
)

// Snapshot is an immutable view of the registry at one version.
type Snapshot struct {
	widgets map[grid.WidgetID]grid.Widget
	version uint64
}

// Get returns the widget with the given id.
func (s Snapshot) Get(id grid.WidgetID) (grid.Widget, bool) {
	w, ok := s.widgets[id]
	return w, ok
}

// Len returns the number of widgets.
func (s Snapshot) Len() int { return len(s.widgets) }

// Version returns the registry version the snapshot was taken at.
func (s Snapshot) Version() uint64 { return s.version }

// Widgets returns the widgets sorted by origin.
func (s Snapshot) Widgets() []grid.Widget {
	ws := make([]grid.Widget, 0, len(s.widgets))
	for _, w := range s.widgets {
		ws = append(ws, w)
	}
	grid.SortByOrigin(ws)
	return ws
}

// Registry is the authoritative mapping of widget ids to placements.
type Registry struct {
	widgets map[grid.WidgetID]grid.Widget
	version uint64
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{widgets: map[grid.WidgetID]grid.Widget{}}
}

// Snapshot returns the current state. Later mutations do not affect it.
func (r *Registry) Snapshot() Snapshot {
	return Snapshot{widgets: r.widgets, version: r.version}
}

// Widgets returns the current widgets sorted by origin.
func (r *Registry) Widgets() []grid.Widget { return r.Snapshot().Widgets() }

// Get returns the widget with the given id.
func (r *Registry) Get(id grid.WidgetID) (grid.Widget, bool) {
	w, ok := r.widgets[id]
	return w, ok
}

// Len returns the number of widgets.
func (r *Registry) Len() int { return len(r.widgets) }

// Add inserts w keyed by its id, replacing any widget with the same id. An
// empty id is replaced by a fresh one. Origin is recomputed from Row and Col
// when they are encodable. Add performs no collision or bounds checks.
func (r *Registry) Add(w grid.Widget) grid.WidgetID {
	if w.ID == "" {
		w.ID = grid.NewWidgetID()
	}
	if a, err := grid.Encode(w.Row, w.Col); err == nil {
		w.Origin = a
	}
	next := r.clone()
	next[w.ID] = w
	r.install(next)
	return w.ID
}

// Remove deletes the widget with the given id.
func (r *Registry) Remove(id grid.WidgetID) {
	if _, ok := r.widgets[id]; !ok {
		return
	}
	next := r.clone()
	delete(next, id)
	r.install(next)
}

// Move places the widget's origin at (row, col). Span and state are kept.
// It fails only if (row, col) is not a valid cell.
func (r *Registry) Move(id grid.WidgetID, row, col int) error {
	origin, err := grid.Encode(row, col)
	if err != nil {
		return err
	}
	r.update(id, func(w *grid.Widget) {
		w.Row, w.Col, w.Origin = row, col, origin
	})
	return nil
}

// Resize sets the widget's spans. Spans below 1 are raised to 1.
func (r *Registry) Resize(id grid.WidgetID, rowSpan, colSpan int) {
	r.update(id, func(w *grid.Widget) {
		w.RowSpan, w.ColSpan = max(1, rowSpan), max(1, colSpan)
	})
}

// UpdateDisplaySettings sets the widget's flat flag.
func (r *Registry) UpdateDisplaySettings(id grid.WidgetID, flat bool) {
	r.update(id, func(w *grid.Widget) { w.Flat = flat })
}

// UpdateState replaces the widget's opaque state.
func (r *Registry) UpdateState(id grid.WidgetID, state json.RawMessage) {
	r.update(id, func(w *grid.Widget) { w.State = cloneState(state) })
}

// CreateAtCell inserts a 1×1 widget of the given factory at (row, col) under
// a fresh id. A nil initialState falls back to the factory's initial state.
func (r *Registry) CreateAtCell(row, col int, f widget.Factory, initialState json.RawMessage) (grid.WidgetID, error) {
	origin, err := grid.Encode(row, col)
	if err != nil {
		return "", err
	}
	if f == nil {
		f = widget.Placeholder
	}
	state := cloneState(initialState)
	if state == nil {
		state = widget.InitialState(f)
	}
	w := grid.Widget{
		ID:      grid.NewWidgetID(),
		Origin:  origin,
		Row:     row,
		Col:     col,
		RowSpan: 1,
		ColSpan: 1,
		Factory: f,
		State:   state,
	}
	next := r.clone()
	next[w.ID] = w
	r.install(next)
	return w.ID, nil
}

// Clear removes every widget.
func (r *Registry) Clear() {
	if len(r.widgets) == 0 {
		return
	}
	r.install(map[grid.WidgetID]grid.Widget{})
}

// Restore reinstalls the widgets of a previous snapshot. The version keeps
// increasing.
func (r *Registry) Restore(s Snapshot) {
	m := s.widgets
	if m == nil {
		m = map[grid.WidgetID]grid.Widget{}
	}
	r.install(m)
}

// load replaces every widget at once.
func (r *Registry) load(ws []grid.Widget) {
	next := make(map[grid.WidgetID]grid.Widget, len(ws))
	for _, w := range ws {
		if w.ID == "" {
			w.ID = grid.NewWidgetID()
		}
		next[w.ID] = w
	}
	r.install(next)
}

// swapFactories replaces the factories of the given widgets in one step and
// clears their intended type. Position, spans and state are untouched.
func (r *Registry) swapFactories(swaps map[grid.WidgetID]widget.Factory) {
	next := r.clone()
	for id, f := range swaps {
		w, ok := next[id]
		if !ok {
			continue
		}
		w.Factory = f
		w.IntendedTypeID = ""
		next[id] = w
	}
	r.install(next)
}

func (r *Registry) update(id grid.WidgetID, fn func(*grid.Widget)) {
	w, ok := r.widgets[id]
	if !ok {
		return
	}
	fn(&w)
	next := r.clone()
	next[id] = w
	r.install(next)
}

func (r *Registry) clone() map[grid.WidgetID]grid.Widget {
	next := make(map[grid.WidgetID]grid.Widget, len(r.widgets)+1)
	maps.Copy(next, r.widgets)
	return next
}

func (r *Registry) install(m map[grid.WidgetID]grid.Widget) {
	r.widgets = m
	r.version++
}

func cloneState(s json.RawMessage) json.RawMessage {
	if s == nil {
		return nil
	}
	return append(json.RawMessage(nil), s...)
}
