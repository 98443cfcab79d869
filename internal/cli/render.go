package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gridboard/pkg/render"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string // output file path; derived from the board when empty
	format   string // svg, png or dot
	detailed bool   // show origin and spans under each type id
	cellSize int    // cell side in points
}

// validFormats is the set of supported output formats.
var validFormats = map[string]bool{"svg": true, "png": true, "dot": true}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{format: "svg", cellSize: 40}

	cmd := &cobra.Command{
		Use:   "render <board>",
		Short: "Render a board to SVG, PNG or Graphviz DOT",
		Example: `  gridboard render ops.json
  gridboard render store:ops -f png -o ops.png --detailed`,
		ValidArgsFunction: c.completeBoardArg,
		Args:              cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !validFormats[opts.format] {
				return fmt.Errorf("invalid format: %s (must be 'svg', 'png' or 'dot')", opts.format)
			}
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (- for stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg (default), png, dot")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show origin and spans in each widget")
	cmd.Flags().IntVar(&opts.cellSize, "cell-size", opts.cellSize, "cell size in points")
	return cmd
}

func (c *CLI) runRender(ctx context.Context, ref string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	s, err := c.open(ctx, ref)
	if err != nil {
		return err
	}
	defer s.Close()

	doc := s.Export()
	dot := render.ToDOT(doc, render.Options{
		CellSize:     opts.cellSize,
		Detailed:     opts.detailed,
		Unregistered: s.Unregistered(),
	})
	logger.Debugf("Generated DOT: %d bytes", len(dot))

	var data []byte
	err = withSpinner(ctx, "Rendering "+opts.format+"...", func() (err error) {
		data, err = renderFormat(ctx, dot, opts.format)
		return err
	})
	if err != nil {
		return err
	}

	path := outputPath(opts.output, ref, doc.DashboardID, opts.format)
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := out.Write(data); err != nil {
		return err
	}
	if path != "-" {
		prog.done("Rendered " + path)
	}
	return nil
}

func renderFormat(ctx context.Context, dot, format string) ([]byte, error) {
	switch format {
	case "dot":
		return []byte(dot), nil
	case "png":
		return render.RenderPNG(ctx, dot)
	default:
		return render.RenderSVG(ctx, dot)
	}
}

// outputPath derives the output file from the board reference when no
// output is given: the file's base name, or the dashboard id for store refs.
func outputPath(output, ref, dashboardID, format string) string {
	if output != "" {
		return output
	}
	base := strings.TrimSuffix(ref, filepath.Ext(ref))
	if id, ok := cutStoreRef(ref); ok {
		base = id
		if dashboardID != "" {
			base = dashboardID
		}
	}
	return base + "." + format
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput opens path for writing. "-" writes to stdout.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopCloser{stdout}, nil
	}
	return os.Create(path)
}
