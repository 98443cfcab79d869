// Package cli implements the gridboard command-line interface.
package cli

import (
	"context"
	stderrors "errors"
	"io"
	"io/fs"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gridboard/internal/catalog"
	"github.com/matzehuels/gridboard/internal/config"
	"github.com/matzehuels/gridboard/pkg/board"
	"github.com/matzehuels/gridboard/pkg/buildinfo"
	"github.com/matzehuels/gridboard/pkg/document"
	"github.com/matzehuels/gridboard/pkg/errors"
	"github.com/matzehuels/gridboard/pkg/observability"
	"github.com/matzehuels/gridboard/pkg/store"
	"github.com/matzehuels/gridboard/pkg/widget"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "gridboard"

	// storePrefix marks a board reference as a store id instead of a file path.
	storePrefix = "store:"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	without    []string
	cfg        config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Gridboard lays out dashboard widgets on a grid",
		Long:         `Gridboard places rectangular widgets on a fixed grid without overlaps, edits layouts interactively, and stores them as JSON documents in files, Redis, MongoDB or SQLite.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/gridboard/config.toml)")
	root.PersistentFlags().StringSliceVar(&c.without, "without", nil, "widget types to leave unregistered (repeatable)")

	root.AddCommand(c.newCommand())
	root.AddCommand(c.showCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.placeCommand())
	root.AddCommand(c.moveCommand())
	root.AddCommand(c.resizeCommand())
	root.AddCommand(c.removeCommand())
	root.AddCommand(c.diffCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.typesCommand())
	root.AddCommand(c.storeCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads configuration and installs the logging hooks.
func (c *CLI) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	if c.Logger.GetLevel() > log.DebugLevel && cfg.Log.Level != "" {
		if level, err := log.ParseLevel(cfg.Log.Level); err == nil {
			c.Logger.SetLevel(level)
		}
	}

	hooks := &logHooks{logger: c.Logger}
	observability.SetBoardHooks(hooks)
	observability.SetStoreHooks(hooks)

	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// =============================================================================
// Boards
// =============================================================================

// types builds the widget registry from the catalog and config.
func (c *CLI) types() (*widget.Registry, error) {
	return catalog.New(c.cfg.Widgets, c.without)
}

// openStore opens the configured document store.
func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	return store.Open(ctx, c.cfg.Store)
}

// session is a board loaded from a file or the store.
type session struct {
	ref    string
	board  *board.Board
	shared *widget.SharedStore
	types  *widget.Registry
}

// Close releases the board's registry subscription.
func (s *session) Close() { s.board.Close() }

// Export returns the board's current document.
func (s *session) Export() *document.Document {
	return document.Export(s.board, document.Options{Shared: s.shared})
}

// Unregistered reports type ids on the board without a registered factory.
func (s *session) Unregistered() map[string]bool {
	out := map[string]bool{}
	for _, w := range s.board.Placeholders() {
		out[w.TypeID()] = true
	}
	return out
}

// newBoard returns an empty board with the configured history depth.
func (c *CLI) newBoard(cfg board.Config, types widget.Provider) (*board.Board, error) {
	return board.New(cfg, types, board.WithHistoryDepth(c.cfg.Grid.HistoryDepth))
}

// open loads the board named by ref. A ref of the form "store:<id>" is read
// from the configured store, anything else is a JSON file path.
func (c *CLI) open(ctx context.Context, ref string) (*session, error) {
	doc, err := c.readDocument(ctx, ref)
	if err != nil {
		return nil, err
	}
	types, err := c.types()
	if err != nil {
		return nil, err
	}
	b, err := c.newBoard(board.Config{}, types)
	if err != nil {
		return nil, err
	}
	shared := widget.NewSharedStore()
	if err := document.Import(b, doc, document.Options{Shared: shared}); err != nil {
		b.Close()
		return nil, err
	}
	loggerFromContext(ctx).Debug("loaded board", "ref", ref, "widgets", len(doc.Cells))
	return &session{ref: ref, board: b, shared: shared, types: types}, nil
}

// save writes the session's board back to where it was loaded from.
func (c *CLI) save(ctx context.Context, s *session) error {
	return c.writeDocument(ctx, s.ref, s.Export())
}

// cutStoreRef returns the store id of a "store:<id>" reference.
func cutStoreRef(ref string) (string, bool) {
	return strings.CutPrefix(ref, storePrefix)
}

func (c *CLI) readDocument(ctx context.Context, ref string) (*document.Document, error) {
	id, ok := cutStoreRef(ref)
	if !ok {
		return document.ImportJSON(ref)
	}
	st, err := c.openStore(ctx)
	if err != nil {
		return nil, err
	}
	defer st.Close()
	return st.Get(ctx, id)
}

func (c *CLI) writeDocument(ctx context.Context, ref string, doc *document.Document) error {
	id, ok := cutStoreRef(ref)
	if !ok {
		return document.ExportJSON(doc, ref)
	}
	if doc.DashboardID == "" {
		doc.DashboardID = id
	}
	if doc.DashboardID != id {
		return errors.New(errors.ErrCodeInvalidInput, "dashboard id %q does not match %s", doc.DashboardID, ref)
	}
	st, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()
	return st.Put(ctx, doc)
}

// exists reports whether ref already names a board.
func (c *CLI) exists(ctx context.Context, ref string) (bool, error) {
	_, err := c.readDocument(ctx, ref)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, errors.ErrCodeBoardNotFound) || stderrors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}
