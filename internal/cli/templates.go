package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/m2k/pkg/pipeline"
)

// templatesCommand creates the templates command.
func (c *CLI) templatesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List the loaded Katana node templates",
		Long: `List the node types m2k has templates for, with their parameter count.

Templates come from --templates, the templates key of the config file, or
the built-in RenderMan set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return c.runTemplates(ctx, cmd.OutOrStdout())
		},
	}
}

func (c *CLI) runTemplates(ctx context.Context, w io.Writer) error {
	s, err := c.open(ctx, false)
	if err != nil {
		return err
	}
	store := s.runner.Store

	source := s.config.Templates
	if source == "" {
		source = pipeline.EmbeddedSource
	}

	rows := make([][]string, 0, store.Len())
	for _, typ := range store.Types() {
		tpl, err := store.Lookup(typ)
		if err != nil {
			return err
		}
		group := "ok"
		if !tpl.HasTypeGroup() {
			group = "missing"
		}
		rows = append(rows, []string{typ, strconv.Itoa(len(tpl.Parameters())), group})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		Headers("Type", "Parameters", "Type group").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if col == 2 && rows[row][2] == "missing" {
				return StyleWarning
			}
			return lipgloss.NewStyle()
		})

	fmt.Fprintln(w, StyleTitle.Render(fmt.Sprintf("%d templates", store.Len()))+" "+StyleDim.Render("from "+source))
	fmt.Fprintln(w, t.Render())
	return nil
}
