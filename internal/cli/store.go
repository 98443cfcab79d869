package cli

import (
	"cmp"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gridboard/pkg/document"
	"github.com/matzehuels/gridboard/pkg/errors"
	"github.com/matzehuels/gridboard/pkg/store"
)

// storeCommand creates the document store management command.
func (c *CLI) storeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage boards in the configured store",
	}

	cmd.AddCommand(c.storeListCommand())
	cmd.AddCommand(c.storeGetCommand())
	cmd.AddCommand(c.storePutCommand())
	cmd.AddCommand(c.storeDeleteCommand())
	cmd.AddCommand(c.storePathCommand())

	return cmd
}

func (c *CLI) storeListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored boards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			ids, err := st.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(ids) == 0 {
				printInfo("Store is empty")
				return nil
			}
			for _, id := range ids {
				fmt.Fprintln(stdout, id)
			}
			return nil
		},
	}
}

func (c *CLI) storeGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Print a stored board as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := c.readDocument(cmd.Context(), storePrefix+args[0])
			if err != nil {
				return err
			}
			return document.WriteJSON(doc, stdout)
		},
	}
}

func (c *CLI) storePutCommand() *cobra.Command {
	var id string
	cmd := &cobra.Command{
		Use:   "put <file>",
		Short: "Store a board document from a JSON file",
		Long: `Store a board document from a JSON file. Legacy version 1 documents are
upgraded. The document is imported first, so invalid documents are rejected.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer s.Close()

			doc := s.Export()
			if id != "" {
				doc.DashboardID = id
			}
			if doc.DashboardID == "" {
				return errors.New(errors.ErrCodeInvalidInput, "%s has no dashboardId; pass --id", args[0])
			}
			if err := c.writeDocument(cmd.Context(), storePrefix+doc.DashboardID, doc); err != nil {
				return err
			}
			printSuccess("Stored %s (%d widgets)", doc.DashboardID, len(doc.Cells))
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "dashboard id (default from the document)")
	return cmd
}

func (c *CLI) storeDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a stored board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess("Deleted %s", args[0])
			return nil
		},
	}
}

// storePathCommand prints where the store keeps its data.
func (c *CLI) storePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the store location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.cfg.Store
			printKeyValue("backend", string(cmp.Or(cfg.Backend, store.BackendFile)))
			switch cfg.Backend {
			case "", store.BackendFile:
				dir := cfg.Dir
				if dir == "" {
					d, err := store.DefaultDir()
					if err != nil {
						return err
					}
					dir = d
				}
				printKeyValue("dir", dir)
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					printDetail("directory does not exist yet")
				}
			case store.BackendRedis:
				printKeyValue("url", cmp.Or(cfg.RedisURL, store.DefaultRedisURL))
			case store.BackendMongo:
				printKeyValue("uri", cfg.MongoURI)
				printKeyValue("database", cfg.MongoDatabase)
			case store.BackendSQLite:
				printKeyValue("path", cfg.SQLitePath)
			}
			return nil
		},
	}
}
