package board

import "github.com/matzehuels/gridboard/pkg/grid"

// StartResize begins resizing the widget with the given id. It does nothing
// if the widget does not exist.
func (b *Board) StartResize(id grid.WidgetID) {
	w, ok := b.reg.Get(id)
	if !ok {
		return
	}
	s := grid.NewResizeSession(w)
	b.resize = &s
}

// Resizing returns the active resize session.
func (b *Board) Resizing() (grid.ResizeSession, bool) {
	if b.resize == nil {
		return grid.ResizeSession{}, false
	}
	return *b.resize, true
}

// UpdatePreview recomputes the preview span against the current registry and
// returns it. It returns the zero span when no resize is active.
func (b *Board) UpdatePreview(dir grid.Direction, delta int) grid.Span {
	if b.resize == nil {
		return grid.Span{}
	}
	span := grid.PreviewSpan(*b.resize, dir, delta, b.reg.Widgets(), b.cfg.Rows, b.cfg.Columns)
	b.resize.PreviewRowSpan, b.resize.PreviewColSpan = span.Rows, span.Cols
	return span
}

// EndResize ends the session. With commit set and a changed preview the
// widget is resized. The session is cleared in every case, including when the
// widget vanished while resizing. It reports whether the registry changed.
func (b *Board) EndResize(commit bool) bool {
	s := b.resize
	b.resize = nil
	if s == nil || !commit || !s.Changed() {
		return false
	}
	if _, ok := b.reg.Get(s.ID); !ok {
		return false
	}
	b.commit(func() error {
		b.reg.Resize(s.ID, s.PreviewRowSpan, s.PreviewColSpan)
		return nil
	})
	b.hooks.OnResize(b.cfg.DashboardID, string(s.ID), s.PreviewRowSpan, s.PreviewColSpan)
	return true
}

// PreviewFootprint returns the cells the resize preview covers.
func (b *Board) PreviewFootprint() []grid.Address {
	if b.resize == nil {
		return nil
	}
	w, ok := b.reg.Get(b.resize.ID)
	if !ok {
		return nil
	}
	return grid.Footprint(w.Row, w.Col, b.resize.PreviewRowSpan, b.resize.PreviewColSpan)
}
