package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gridboard/pkg/board"
	"github.com/matzehuels/gridboard/pkg/document"
	"github.com/matzehuels/gridboard/pkg/grid"
	"github.com/matzehuels/gridboard/pkg/widget"
)

// editCommand creates the interactive "edit" command.
func (c *CLI) editCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <board>",
		Short: "Edit a board interactively",
		Long: `Edit a board in the terminal.

Keys:
  ←↑↓→/hjkl  move the cursor
  tab        next palette type      a  add the palette type at the cursor
  enter      pick up / drop         r  resize the widget under the cursor
  x          remove                 f  toggle the flat display
  u          undo                   ctrl+r  redo
  s          save                   q  quit
  esc        cancel a drag or resize`,
		ValidArgsFunction: c.completeBoardArg,
		Args:              cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer s.Close()

			m := newEditorModel(cmd.Context(), s, func(ctx context.Context, doc *document.Document) error {
				return c.writeDocument(ctx, s.ref, doc)
			})
			final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			if err != nil {
				return err
			}
			if em, ok := final.(editorModel); ok && em.dirty {
				printWarning("Quit with unsaved changes")
			}
			return nil
		},
	}
}

// =============================================================================
// editorModel - Interactive board editor
// =============================================================================

type editorMode int

const (
	modeNormal editorMode = iota
	modeDrag
	modeResize
)

// savedMsg reports the outcome of a save. version is the registry version
// the written document was exported at.
type savedMsg struct {
	version uint64
	err     error
}

// editorModel is the bubbletea model behind "edit". The board carries the
// drag and resize state; the model only tracks the cursor and what the
// arrow keys currently mean.
type editorModel struct {
	ctx     context.Context
	session *session
	save    func(context.Context, *document.Document) error

	palette []widget.Definition
	pick    int

	row, col     int
	mode         editorMode
	dRows, dCols int

	status      string
	statusBad   bool
	dirty       bool
	confirmQuit bool
}

func newEditorModel(ctx context.Context, s *session, save func(context.Context, *document.Document) error) editorModel {
	return editorModel{
		ctx:     ctx,
		session: s,
		save:    save,
		palette: s.types.Definitions(),
		row:     1,
		col:     1,
		status:  "tab picks a type, a adds it, enter picks up a widget",
	}
}

func (m editorModel) Init() tea.Cmd {
	return nil
}

func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case savedMsg:
		if msg.err != nil {
			m.setError("save failed: %v", msg.err)
			return m, nil
		}
		if msg.version != m.board().Snapshot().Version() {
			m.setStatus("saved %s, later edits are not saved yet", m.session.ref)
			return m, nil
		}
		m.dirty = false
		m.setStatus("saved %s", m.session.ref)
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeDrag:
			return m.updateDrag(msg)
		case modeResize:
			return m.updateResize(msg)
		default:
			return m.updateNormal(msg)
		}
	}
	return m, nil
}

func (m editorModel) board() *board.Board { return m.session.board }

func (m editorModel) cursor() grid.Address { return grid.MustEncode(m.row, m.col) }

// moveCursor applies an arrow key and keeps the cursor on the grid.
func (m *editorModel) moveCursor(key string) bool {
	switch key {
	case "up", "k":
		m.row = max(1, m.row-1)
	case "down", "j":
		m.row = min(m.board().Rows(), m.row+1)
	case "left", "h":
		m.col = max(1, m.col-1)
	case "right", "l":
		m.col = min(m.board().Columns(), m.col+1)
	default:
		return false
	}
	return true
}

func (m editorModel) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	b := m.board()
	key := msg.String()
	if key != "q" {
		m.confirmQuit = false
	}
	if m.moveCursor(key) {
		return m, nil
	}

	switch key {
	case "q":
		if m.dirty && !m.confirmQuit {
			m.confirmQuit = true
			m.setError("unsaved changes, press q again to quit")
			return m, nil
		}
		return m, tea.Quit
	case "tab":
		if len(m.palette) > 0 {
			m.pick = (m.pick + 1) % len(m.palette)
			m.setStatus("palette: %s", m.palette[m.pick].ID)
		}
	case "a":
		if len(m.palette) == 0 {
			m.setError("no widget types registered")
			return m, nil
		}
		m.startDrag(grid.PaletteDrag(m.palette[m.pick].ID))
	case "enter", " ":
		w, ok := grid.WidgetCovering(b.Widgets(), m.row, m.col)
		if !ok {
			m.setError("no widget at %s", m.cursor())
			return m, nil
		}
		m.row, m.col = w.Row, w.Col
		m.startDrag(grid.CellDrag(w))
	case "r":
		w, ok := grid.WidgetCovering(b.Widgets(), m.row, m.col)
		if !ok {
			m.setError("no widget at %s", m.cursor())
			return m, nil
		}
		b.StartResize(w.ID)
		m.mode = modeResize
		m.dRows, m.dCols = 0, 0
		m.setStatus("resizing %s: arrows grow or shrink, enter commits", w.TypeID())
	case "x":
		m.track(func() {
			if w, ok := grid.WidgetCovering(b.Widgets(), m.row, m.col); ok {
				b.Remove(w.ID)
			}
		})
	case "f":
		m.track(func() {
			if w, ok := grid.WidgetCovering(b.Widgets(), m.row, m.col); ok {
				b.UpdateDisplaySettings(w.ID, !w.Flat)
			}
		})
	case "u":
		m.track(func() {
			if !b.Undo() {
				m.setStatus("nothing to undo")
			}
		})
	case "ctrl+r":
		m.track(func() {
			if !b.Redo() {
				m.setStatus("nothing to redo")
			}
		})
	case "s":
		m.setStatus("saving...")
		return m, m.saveCmd()
	}
	return m, nil
}

func (m *editorModel) startDrag(p grid.DragPayload) {
	b := m.board()
	b.StartDrag(p)
	cell := m.cursor()
	b.SetHoveredCell(&cell)
	m.mode = modeDrag
	m.setStatus("dragging %s: enter drops, esc cancels", payloadLabel(p, b))
}

func (m editorModel) updateDrag(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	b := m.board()
	key := msg.String()
	if m.moveCursor(key) {
		cell := m.cursor()
		b.SetHoveredCell(&cell)
		return m, nil
	}

	switch key {
	case "esc", "q":
		b.EndDrag()
		m.mode = modeNormal
		m.setStatus("drag cancelled")
	case "enter", " ":
		p, ok := b.Dragging()
		m.mode = modeNormal
		if !ok {
			return m, nil
		}
		var res board.DropResult
		m.track(func() { res = b.HandleDrop(p, m.cursor()) })
		if !res.Applied {
			m.setError("%s", verdictReason(res.Verdict))
		}
	}
	return m, nil
}

func (m editorModel) updateResize(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	b := m.board()
	s, ok := b.Resizing()
	if !ok {
		m.mode = modeNormal
		return m, nil
	}

	switch msg.String() {
	case "right", "l":
		m.dCols = b.UpdatePreview(grid.Horizontal, m.dCols+1).Cols - s.OriginalColSpan
	case "left", "h":
		m.dCols = b.UpdatePreview(grid.Horizontal, m.dCols-1).Cols - s.OriginalColSpan
	case "down", "j":
		m.dRows = b.UpdatePreview(grid.Vertical, m.dRows+1).Rows - s.OriginalRowSpan
	case "up", "k":
		m.dRows = b.UpdatePreview(grid.Vertical, m.dRows-1).Rows - s.OriginalRowSpan
	case "enter", " ":
		m.mode = modeNormal
		m.track(func() { b.EndResize(true) })
		return m, nil
	case "esc", "q":
		b.EndResize(false)
		m.mode = modeNormal
		m.setStatus("resize cancelled")
		return m, nil
	}
	if cur, ok := b.Resizing(); ok {
		m.setStatus("resizing to %dx%d", cur.PreviewRowSpan, cur.PreviewColSpan)
	}
	return m, nil
}

// track runs fn and reports the first resulting change in the status line.
func (m *editorModel) track(fn func()) {
	before := m.board().Snapshot()
	fn()
	changes := board.Diff(before, m.board().Snapshot())
	if len(changes) == 0 {
		return
	}
	m.dirty = true
	msg := changes[0].String()
	if len(changes) > 1 {
		msg += fmt.Sprintf(" (+%d more)", len(changes)-1)
	}
	m.setStatus("%s", msg)
}

// saveCmd exports the board now and leaves only the write to the command,
// which runs off the update goroutine.
func (m editorModel) saveCmd() tea.Cmd {
	ctx, save := m.ctx, m.save
	doc := m.session.Export()
	version := m.board().Snapshot().Version()
	return func() tea.Msg {
		return savedMsg{version: version, err: save(ctx, doc)}
	}
}

func (m *editorModel) setStatus(format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
	m.statusBad = false
}

func (m *editorModel) setError(format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
	m.statusBad = true
}

func (m editorModel) View() string {
	b := m.board()
	var sb strings.Builder

	title := b.ID()
	if title == "" {
		title = m.session.ref
	}
	if m.dirty {
		title += " *"
	}
	sb.WriteString(StyleTitle.Render(title))
	sb.WriteString("\n\n")

	cell := m.cursor()
	ov := overlay{cursor: &cell}
	switch m.mode {
	case modeDrag:
		ov.footprint = b.HoveredFootprint()
		ov.valid = b.IsCurrentPlacementValid()
	case modeResize:
		ov.preview = b.PreviewFootprint()
	}
	sb.WriteString(renderGrid(b, ov))
	sb.WriteString("\n")
	sb.WriteString(m.paletteLine())
	sb.WriteString("\n")

	status := StyleDim.Render(m.status)
	if m.statusBad {
		status = lipgloss.NewStyle().Foreground(colorRed).Render(m.status)
	}
	sb.WriteString(status)
	sb.WriteString("\n")
	sb.WriteString(StyleDim.Render(fmt.Sprintf("%s  %s", m.cursor(), m.help())))
	return sb.String()
}

func (m editorModel) paletteLine() string {
	if len(m.palette) == 0 {
		return StyleDim.Render("no widget types")
	}
	parts := make([]string, len(m.palette))
	for i, d := range m.palette {
		if i == m.pick {
			parts[i] = widgetStyle(d.ID).Bold(true).Render(" " + d.ID + " ")
		} else {
			parts[i] = StyleDim.Render(d.ID)
		}
	}
	return strings.Join(parts, " ")
}

func (m editorModel) help() string {
	switch m.mode {
	case modeDrag:
		return "⏎ drop  esc cancel"
	case modeResize:
		return "←→ width  ↑↓ height  ⏎ commit  esc cancel"
	}
	return "tab type  a add  ⏎ pick up  r resize  x remove  f flat  u/^r undo/redo  s save  q quit"
}

// payloadLabel names what is being dragged.
func payloadLabel(p grid.DragPayload, b *board.Board) string {
	if p.Kind == grid.FromPalette {
		return p.WidgetType
	}
	if w, ok := b.Widget(p.ID); ok {
		return w.TypeID()
	}
	return string(p.ID)
}

// verdictReason explains a rejected drop.
func verdictReason(v grid.Verdict) string {
	switch {
	case v.OutOfBounds && v.HasCollision:
		return "drop rejected: outside the grid and overlapping"
	case v.OutOfBounds:
		return "drop rejected: outside the grid"
	case v.HasCollision:
		return "drop rejected: overlaps another widget"
	}
	return "drop rejected"
}
