package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

// typesCommand creates the "types" command.
func (c *CLI) typesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List registered widget types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			types, err := c.types()
			if err != nil {
				return err
			}
			defs := types.Definitions()
			rows := make([][]string, 0, len(defs))
			for _, d := range defs {
				rows = append(rows, []string{d.ID, d.Name(), d.Description, string(d.InitialState())})
			}
			headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
			t := table.New().
				Border(lipgloss.RoundedBorder()).
				BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
				Headers("Type", "Name", "Description", "Default state").
				Rows(rows...).
				StyleFunc(func(row, col int) lipgloss.Style {
					switch {
					case row == -1:
						return headerStyle
					case col == 0:
						return widgetStyle(rows[row][0])
					case col == 3:
						return StyleDim
					}
					return lipgloss.NewStyle()
				})
			fmt.Fprintln(stdout, t.Render())
			return nil
		},
	}
}
