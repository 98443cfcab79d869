package board

import (
	"encoding/json"

	"github.com/matzehuels/gridboard/pkg/errors"
	"github.com/matzehuels/gridboard/pkg/grid"
	"github.com/matzehuels/gridboard/pkg/observability"
	"github.com/matzehuels/gridboard/pkg/widget"
)

// Default grid dimensions and history depth.
const (
	DefaultRows         = 16
	DefaultColumns      = 16
	DefaultHistoryDepth = 50
)

// Config describes the grid a board lays widgets out on.
type Config struct {
	DashboardID string
	Rows        int
	Columns     int
	Gutter      int
}

// withDefaults fills zero dimensions with the defaults.
func (c Config) withDefaults() Config {
	if c.Rows == 0 {
		c.Rows = DefaultRows
	}
	if c.Columns == 0 {
		c.Columns = DefaultColumns
	}
	return c
}

// Validate checks that every cell of the grid is encodable.
func (c Config) Validate() error {
	if c.Rows < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "rows must be >= 1, got %d", c.Rows)
	}
	if c.Columns < 1 || c.Columns >= grid.Stride {
		return errors.New(errors.ErrCodeInvalidInput, "columns must be in [1, %d), got %d", grid.Stride, c.Columns)
	}
	if c.Gutter < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "gutter must be >= 0, got %d", c.Gutter)
	}
	return nil
}

// Option configures a Board.
type Option func(*Board)

// WithHistoryDepth bounds the undo history. Zero disables history.
func WithHistoryDepth(n int) Option {
	return func(b *Board) { b.hist.depth = max(0, n) }
}

// WithHooks overrides the global board hooks for this board.
func WithHooks(h observability.BoardHooks) Option {
	return func(b *Board) {
		if h != nil {
			b.hooks = h
		}
	}
}

// Board is a grid of placed widgets plus its interaction sessions.
type Board struct {
	cfg      Config
	provider widget.Provider
	hooks    observability.BoardHooks
	reg      *Registry
	hist     history

	drag    *grid.DragPayload
	hovered *grid.Address
	resize  *grid.ResizeSession

	cancelHeal func()
}

// New returns an empty board. Zero Rows or Columns take the defaults.
func New(cfg Config, provider widget.Provider, opts ...Option) (*Board, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if provider == nil {
		provider = widget.NewRegistry()
	}
	b := &Board{
		cfg:      cfg,
		provider: provider,
		hooks:    observability.Board(),
		reg:      NewRegistry(),
		hist:     history{depth: DefaultHistoryDepth},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Config returns the board's grid configuration.
func (b *Board) Config() Config { return b.cfg }

// ID returns the dashboard id.
func (b *Board) ID() string { return b.cfg.DashboardID }

// Rows returns the number of grid rows.
func (b *Board) Rows() int { return b.cfg.Rows }

// Columns returns the number of grid columns.
func (b *Board) Columns() int { return b.cfg.Columns }

// Provider returns the factory provider the board resolves types with.
func (b *Board) Provider() widget.Provider { return b.provider }

// Snapshot returns the current registry state.
func (b *Board) Snapshot() Snapshot { return b.reg.Snapshot() }

// Widgets returns the current widgets sorted by origin.
func (b *Board) Widgets() []grid.Widget { return b.reg.Widgets() }

// Widget returns the widget with the given id.
func (b *Board) Widget(id grid.WidgetID) (grid.Widget, bool) { return b.reg.Get(id) }

// WidgetAt returns the widget covering (row, col).
func (b *Board) WidgetAt(row, col int) (grid.Widget, bool) {
	return grid.WidgetCovering(b.reg.Widgets(), row, col)
}

// OccupiedCells maps every covered cell to its widget.
func (b *Board) OccupiedCells() map[grid.Address]grid.WidgetID {
	return grid.OccupiedCells(b.reg.Widgets())
}

// Add inserts w without validation and returns its id.
func (b *Board) Add(w grid.Widget) grid.WidgetID {
	var id grid.WidgetID
	b.commit(func() error {
		id = b.reg.Add(w)
		return nil
	})
	return id
}

// Remove deletes a widget.
func (b *Board) Remove(id grid.WidgetID) {
	b.commit(func() error {
		b.reg.Remove(id)
		return nil
	})
}

// Move changes a widget's origin without validation.
func (b *Board) Move(id grid.WidgetID, row, col int) error {
	return b.commit(func() error { return b.reg.Move(id, row, col) })
}

// Resize changes a widget's spans without validation.
func (b *Board) Resize(id grid.WidgetID, rowSpan, colSpan int) {
	b.commit(func() error {
		b.reg.Resize(id, rowSpan, colSpan)
		return nil
	})
}

// UpdateDisplaySettings sets a widget's flat flag.
func (b *Board) UpdateDisplaySettings(id grid.WidgetID, flat bool) {
	b.commit(func() error {
		b.reg.UpdateDisplaySettings(id, flat)
		return nil
	})
}

// UpdateState replaces a widget's state.
func (b *Board) UpdateState(id grid.WidgetID, state json.RawMessage) {
	b.commit(func() error {
		b.reg.UpdateState(id, state)
		return nil
	})
}

// CreateAtCell inserts a 1×1 widget of the given factory at (row, col).
func (b *Board) CreateAtCell(row, col int, f widget.Factory, initialState json.RawMessage) (grid.WidgetID, error) {
	var id grid.WidgetID
	err := b.commit(func() error {
		var err error
		id, err = b.reg.CreateAtCell(row, col, f, initialState)
		return err
	})
	return id, err
}

// Clear removes every widget.
func (b *Board) Clear() {
	b.commit(func() error {
		b.reg.Clear()
		return nil
	})
}

// Load replaces the configuration and every widget at once. Interaction
// sessions and history are reset. Widgets are not validated against each
// other; use [Board.Validate] to find overlaps.
func (b *Board) Load(cfg Config, widgets []grid.Widget) error {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}
	ws := make([]grid.Widget, 0, len(widgets))
	placeholders := 0
	for _, w := range widgets {
		origin, err := grid.Encode(w.Row, w.Col)
		if err != nil {
			return err
		}
		w.Origin = origin
		w.RowSpan, w.ColSpan = max(1, w.RowSpan), max(1, w.ColSpan)
		if w.Factory == nil {
			w.Factory = widget.Placeholder
		}
		if w.IsPlaceholder() {
			placeholders++
		}
		ws = append(ws, w)
	}

	b.cfg = cfg
	b.EndDrag()
	b.resize = nil
	b.hist.reset()
	b.reg.load(ws)
	b.hooks.OnImport(b.cfg.DashboardID, len(ws), placeholders)
	b.syncHealing()
	return nil
}

// Close stops listening for type changes.
func (b *Board) Close() {
	if b.cancelHeal != nil {
		b.cancelHeal()
		b.cancelHeal = nil
	}
}

// commit runs a registry mutation and records the prior snapshot in the
// history when the mutation changed anything.
func (b *Board) commit(fn func() error) error {
	before := b.reg.Snapshot()
	err := fn()
	if b.reg.version != before.version {
		b.hist.push(before)
		b.syncHealing()
	}
	return err
}
