package cli

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/m2k/pkg/graph"
	"github.com/matzehuels/m2k/pkg/pipeline"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		selection []string
		asJSON    bool
		output    string
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show how the selected network would be exported",
		Long: `Show how the selected network would be exported, without copying it.

Lists every node in emission order with its level, position and the
parameters it overrides, followed by the terminal, orphaned and
shader-output nodes. --json prints the same report as JSON.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return c.runInspect(ctx, cmd.OutOrStdout(), selection, asJSON, output)
		},
	}

	cmd.Flags().StringSliceVar(&selection, "select", nil, "nodes to inspect (default: the scene selection)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the JSON report to a file")

	return cmd
}

func (c *CLI) runInspect(ctx context.Context, w io.Writer, selection []string, asJSON bool, output string) error {
	s, err := c.open(ctx, true)
	if err != nil {
		return err
	}

	opts := s.options(c)
	opts.Selection = selection
	result, err := s.runner.Inspect(ctx, s.scene, opts)
	if err != nil {
		return fmt.Errorf("inspect: %w", err)
	}
	if result.Status == pipeline.StatusNothingToCopy {
		printWarning(w, "Nothing to inspect: select at least one shading node")
		return nil
	}

	report, err := s.runner.Report(s.scene, result)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}

	if output != "" {
		if err := graph.WriteLayoutFile(report, output); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		printSuccess(w, "Wrote report")
		printFile(w, output)
		return nil
	}
	if asJSON {
		data, err := graph.MarshalLayout(report)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	printReport(w, report)
	return nil
}

// printReport renders the report as a table plus a summary.
func printReport(w io.Writer, l graph.Layout) {
	rows := make([][]string, 0, len(l.Nodes))
	for _, p := range l.Nodes {
		rows = append(rows, []string{
			p.ID,
			p.Type,
			strconv.Itoa(p.Level),
			fmt.Sprintf("%d, %d", p.X, p.Y),
			nodeFlags(l, p),
			joinMap(p.Overrides, " = "),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		Headers("Node", "Type", "Level", "Position", "Flags", "Overrides").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if col == 1 || col == 4 {
				return StyleDim
			}
			return lipgloss.NewStyle()
		})
	fmt.Fprintln(w, t.Render())

	printKeyValue(w, "Run", l.RunID)
	printKeyValue(w, "Depth", strconv.Itoa(l.MaxDepth))
	printKeyValue(w, "Terminal", list(l.Terminal))
	printKeyValue(w, "Orphaned", list(l.Orphaned))
	printKeyValue(w, "Outputs", list(l.ShaderOutput))
	if l.Crossings > 0 {
		printKeyValue(w, "Crossings", strconv.Itoa(l.Crossings))
	}
	if len(l.Cycle) > 0 {
		printWarning(w, "Network contains a cycle: %s", strings.Join(l.Cycle, " → "))
	}
}

func nodeFlags(l graph.Layout, p graph.Placement) string {
	var flags []string
	if p.Orphaned {
		flags = append(flags, "orphaned")
	}
	if slices.Contains(l.Terminal, p.ID) {
		flags = append(flags, "terminal")
	}
	if slices.Contains(l.ShaderOutput, p.ID) {
		flags = append(flags, "output")
	}
	return strings.Join(flags, ", ")
}

// joinMap renders a map sorted by key, one "k<sep>v" per line.
func joinMap(m map[string]string, sep string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	lines := make([]string, len(keys))
	for i, k := range keys {
		lines[i] = k + sep + m[k]
	}
	return strings.Join(lines, "\n")
}

func list(names []string) string {
	if len(names) == 0 {
		return "—"
	}
	return strings.Join(names, ", ")
}
