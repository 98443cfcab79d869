package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/gridboard/internal/server"
	"github.com/matzehuels/gridboard/pkg/store"
)

// serveCommand creates the "serve" command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the board API over HTTP",
		Long: `Serve boards from the configured store over a JSON HTTP API.

Routes:
  GET    /healthz
  GET    /types
  GET    /boards                       POST /boards
  GET    /boards/{id}                  PUT  /boards/{id}[?strict=true]
  DELETE /boards/{id}
  POST   /boards/{id}/evaluate         POST /boards/{id}/drop
  POST   /boards/{id}/resize
  DELETE /boards/{id}/widgets/{row}/{col}`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if addr != "" {
				c.cfg.Server.Addr = addr
			}

			types, err := c.types()
			if err != nil {
				return err
			}
			var st store.Store
			err = withSpinner(ctx, "Connecting to store...", func() (err error) {
				st, err = c.openStore(ctx)
				return err
			})
			if err != nil {
				return err
			}
			defer st.Close()

			srv := server.New(server.Config{
				Addr:         c.cfg.Server.Addr,
				ReadTimeout:  c.cfg.Server.ReadTimeout,
				WriteTimeout: c.cfg.Server.WriteTimeout,
				Grid:         c.cfg.BoardConfig(""),
				Store:        st,
				Types:        types,
				Logger:       c.Logger,
			})
			return srv.ListenAndServe(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	return cmd
}
