package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gridboard/pkg/board"
	"github.com/matzehuels/gridboard/pkg/document"
	"github.com/matzehuels/gridboard/pkg/errors"
	"github.com/matzehuels/gridboard/pkg/grid"
)

// newCommand creates the "new" command.
func (c *CLI) newCommand() *cobra.Command {
	var (
		rows, cols, gutter int
		id                 string
		force              bool
	)
	cmd := &cobra.Command{
		Use:   "new <board>",
		Short: "Create an empty board",
		Long: `Create an empty board at a file path or, with a store: prefix, in the configured store.

Dimensions default to the [grid] section of the config file.`,
		Example: `  gridboard new ops.json --rows 12 --cols 24
  gridboard new store:ops`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := args[0]
			cfg := c.cfg.BoardConfig(id)
			if cmd.Flags().Changed("rows") {
				cfg.Rows = rows
			}
			if cmd.Flags().Changed("cols") {
				cfg.Columns = cols
			}
			if cmd.Flags().Changed("gutter") {
				cfg.Gutter = gutter
			}
			if storeID, ok := cutStoreRef(ref); ok && cfg.DashboardID == "" {
				cfg.DashboardID = storeID
			}
			return c.runNew(cmd.Context(), ref, cfg, force)
		},
	}
	cmd.Flags().IntVar(&rows, "rows", 0, "number of rows")
	cmd.Flags().IntVar(&cols, "cols", 0, "number of columns")
	cmd.Flags().IntVar(&gutter, "gutter", 0, "gutter size in pixels")
	cmd.Flags().StringVar(&id, "id", "", "dashboard id")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing board")
	return cmd
}

func (c *CLI) runNew(ctx context.Context, ref string, cfg board.Config, force bool) error {
	if !force {
		exists, err := c.exists(ctx, ref)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%s already exists (use --force to overwrite)", ref)
		}
	}
	types, err := c.types()
	if err != nil {
		return err
	}
	b, err := c.newBoard(cfg, types)
	if err != nil {
		return err
	}
	defer b.Close()

	if err := c.writeDocument(ctx, ref, document.Export(b, document.Options{})); err != nil {
		return err
	}
	printSuccess("Created %dx%d board", b.Rows(), b.Columns())
	printFile(ref)
	printNextStep("Place a widget", fmt.Sprintf("gridboard place %s clock 1 1", ref))
	return nil
}

// showCommand creates the "show" command.
func (c *CLI) showCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:               "show <board>",
		Short:             "Print a board as a grid",
		ValidArgsFunction: c.completeBoardArg,
		Args:              cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer s.Close()

			if asJSON {
				return document.WriteJSON(s.Export(), stdout)
			}
			printBoard(s)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the normalized JSON document")
	return cmd
}

func printBoard(s *session) {
	b := s.board
	title := b.ID()
	if title == "" {
		title = s.ref
	}
	fmt.Fprintln(stdout, StyleTitle.Render(title))
	fmt.Fprint(stdout, renderGrid(b, overlay{}))
	fmt.Fprintln(stdout, widgetTable(b.Widgets()))
}

// widgetTable lists widgets in origin order.
func widgetTable(ws []grid.Widget) string {
	rows := make([][]string, 0, len(ws))
	for _, w := range ws {
		status := ""
		if w.IsPlaceholder() {
			status = "unregistered"
		}
		rows = append(rows, []string{
			w.Origin.String(),
			fmt.Sprintf("%dx%d", w.RowSpan, w.ColSpan),
			w.TypeID(),
			status,
		})
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Origin", "Span", "Type", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 3 {
				return StyleWarning
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

// validateCommand creates the "validate" command.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "validate <board>",
		Short:             "Check a board for overlaps and out-of-bounds widgets",
		ValidArgsFunction: c.completeBoardArg,
		Args:              cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer s.Close()

			problems := s.board.Validate()
			for _, w := range s.board.Placeholders() {
				printWarning("%s at %s is not a registered type", w.TypeID(), w.Origin)
			}
			if len(problems) == 0 {
				printSuccess("%s: %d widgets, layout is valid", args[0], len(s.board.Widgets()))
				return nil
			}
			for _, p := range problems {
				printError("%s", p)
			}
			return fmt.Errorf("%d layout problem(s)", len(problems))
		},
	}
}

// placeCommand creates the "place" command.
func (c *CLI) placeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "place <board> <type> <row> <col>",
		Short: "Drop a new widget from the palette",
		Example: `  gridboard place ops.json clock 1 1
  gridboard place store:ops weather 3 5`,
		ValidArgsFunction: c.completePlaceArgs,
		Args:              cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := parseCell(args[2], args[3])
			if err != nil {
				return err
			}
			if err := errors.ValidateTypeID(args[1]); err != nil {
				return err
			}
			return c.edit(cmd.Context(), args[0], func(s *session) error {
				return drop(s.board, grid.PaletteDrag(args[1]), target)
			})
		},
	}
}

// moveCommand creates the "move" command.
func (c *CLI) moveCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "move <board> <row> <col> <to-row> <to-col>",
		Short:             "Move the widget whose origin is at (row, col)",
		ValidArgsFunction: c.completeBoardArg,
		Args:              cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := parseCell(args[1], args[2])
			if err != nil {
				return err
			}
			target, err := parseCell(args[3], args[4])
			if err != nil {
				return err
			}
			return c.edit(cmd.Context(), args[0], func(s *session) error {
				w, err := widgetAtOrigin(s.board, from)
				if err != nil {
					return err
				}
				return drop(s.board, grid.CellDrag(w), target)
			})
		},
	}
}

// resizeCommand creates the "resize" command.
func (c *CLI) resizeCommand() *cobra.Command {
	var (
		dirName string
		delta   int
	)
	cmd := &cobra.Command{
		Use:   "resize <board> <row> <col>",
		Short: "Grow or shrink the widget whose origin is at (row, col)",
		Long: `Grow or shrink a widget. The span along --dir changes by --delta and is
capped where it would run into another widget or the grid edge.`,
		Example: `  gridboard resize ops.json 1 1 --dir horizontal --delta 2
  gridboard resize ops.json 1 1 --dir both --delta -1`,
		ValidArgsFunction: c.completeBoardArg,
		Args:              cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			origin, err := parseCell(args[1], args[2])
			if err != nil {
				return err
			}
			dir, ok := grid.ParseDirection(dirName)
			if !ok {
				return errors.New(errors.ErrCodeInvalidInput, "unknown direction %q", dirName)
			}
			return c.edit(cmd.Context(), args[0], func(s *session) error {
				w, err := widgetAtOrigin(s.board, origin)
				if err != nil {
					return err
				}
				s.board.StartResize(w.ID)
				span := s.board.UpdatePreview(dir, delta)
				if !s.board.EndResize(true) {
					printInfo("%s stays %dx%d", w.TypeID(), w.RowSpan, w.ColSpan)
					return nil
				}
				printDetail("%s %dx%d %s %dx%d", w.TypeID(), w.RowSpan, w.ColSpan, iconArrow, span.Rows, span.Cols)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&dirName, "dir", "d", "horizontal", "direction: horizontal, vertical or both")
	cmd.Flags().IntVar(&delta, "delta", 1, "span change relative to the current span")
	return cmd
}

// removeCommand creates the "remove" command.
func (c *CLI) removeCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "remove <board> <row> <col>",
		Short:             "Remove the widget whose origin is at (row, col)",
		ValidArgsFunction: c.completeBoardArg,
		Args:              cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			origin, err := parseCell(args[1], args[2])
			if err != nil {
				return err
			}
			return c.edit(cmd.Context(), args[0], func(s *session) error {
				w, err := widgetAtOrigin(s.board, origin)
				if err != nil {
					return err
				}
				s.board.Remove(w.ID)
				return nil
			})
		},
	}
}

// diffCommand creates the "diff" command.
func (c *CLI) diffCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "diff <before> <after>",
		Short: "List widget changes between two boards",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			before, err := c.open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer before.Close()
			after, err := c.open(cmd.Context(), args[1])
			if err != nil {
				return err
			}
			defer after.Close()

			changes := board.DiffCells(before.board.Widgets(), after.board.Widgets())
			if len(changes) == 0 {
				printSuccess("No changes")
				return nil
			}
			for _, ch := range changes {
				printInfo("%s", ch)
			}
			return nil
		},
	}
}

// edit loads ref, applies fn and saves the board if it changed.
func (c *CLI) edit(ctx context.Context, ref string, fn func(*session) error) error {
	s, err := c.open(ctx, ref)
	if err != nil {
		return err
	}
	defer s.Close()

	before := s.board.Snapshot()
	if err := fn(s); err != nil {
		return err
	}
	changes := board.Diff(before, s.board.Snapshot())
	if len(changes) == 0 {
		printInfo("No changes")
		return nil
	}
	if err := c.save(ctx, s); err != nil {
		return err
	}
	for _, ch := range changes {
		printSuccess("%s", ch)
	}
	return nil
}

// drop runs a full drag and drop of p onto target.
func drop(b *board.Board, p grid.DragPayload, target grid.Address) error {
	b.StartDrag(p)
	b.SetHoveredCell(&target)
	res := b.HandleDrop(p, target)
	if res.Applied {
		return nil
	}
	reason := "collides with another widget"
	if res.Verdict.OutOfBounds {
		reason = "does not fit on the grid"
	}
	return errors.New(errors.ErrCodePlacementConflict, "cannot place at %s: %s", target, reason)
}

func widgetAtOrigin(b *board.Board, origin grid.Address) (grid.Widget, error) {
	w, ok := grid.WidgetAtOrigin(b.Widgets(), origin.Row(), origin.Col())
	if !ok {
		return grid.Widget{}, errors.New(errors.ErrCodeWidgetNotFound, "no widget starts at %s", origin)
	}
	return w, nil
}

// parseCell parses 1-based row and column arguments.
func parseCell(row, col string) (grid.Address, error) {
	r, err := strconv.Atoi(row)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidCoordinate, "row %q is not a number", row)
	}
	cl, err := strconv.Atoi(col)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidCoordinate, "col %q is not a number", col)
	}
	return grid.Encode(r, cl)
}
