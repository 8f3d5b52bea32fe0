package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/m2k/pkg/clipboard"
	"github.com/matzehuels/m2k/pkg/pipeline"
)

// copyFlags holds the copy command's flags.
type copyFlags struct {
	selection []string
	pick      bool
	stdout    bool
	output    string
	indent    int
}

// copyCommand creates the copy command, the main export.
func (c *CLI) copyCommand() *cobra.Command {
	var flags copyFlags

	cmd := &cobra.Command{
		Use:   "copy",
		Short: "Copy the selected shading network as Katana nodes",
		Long: `Copy the shading network upstream of the selected nodes as a Katana node graph.

The selection comes from the scene snapshot unless --select or --pick is
given. The document goes to the system clipboard; paste it into a Katana
NetworkMaterialCreate node. Use --stdout or --output where no clipboard is
available.`,
		Example: `  m2k copy --scene lookdev.toml
  m2k copy --scene lookdev.toml --select NWM_END --stdout
  m2k copy --scene lookdev.toml --pick`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.stdout && flags.output != "" {
				return fmt.Errorf("--stdout and --output are mutually exclusive")
			}
			return c.runCopy(cmd, flags)
		},
	}

	cmd.Flags().StringSliceVar(&flags.selection, "select", nil, "nodes to export (default: the scene selection)")
	cmd.Flags().BoolVarP(&flags.pick, "pick", "p", false, "choose the nodes interactively")
	cmd.Flags().BoolVar(&flags.stdout, "stdout", false, "write the document to stdout instead of the clipboard")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "write the document to a file instead of the clipboard")
	cmd.Flags().IntVar(&flags.indent, "indent", 0, "pretty-print with this many spaces (default: config indent)")

	return cmd
}

func (c *CLI) runCopy(cmd *cobra.Command, flags copyFlags) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	s, err := c.open(ctx, true)
	if err != nil {
		return err
	}

	opts := s.options(c)
	opts.Selection = flags.selection
	if cmd.Flags().Changed("indent") {
		opts.Indent = flags.indent
	}

	status := cmd.OutOrStdout()
	if flags.stdout {
		status = cmd.ErrOrStderr()
	}

	if flags.pick {
		picked, ok, err := pickNodes(s.scene)
		if err != nil {
			return err
		}
		if !ok {
			printInfo(status, "Cancelled")
			return nil
		}
		if len(picked) == 0 {
			printWarning(status, "Nothing selected")
			return nil
		}
		opts.Selection = picked
	}

	result, err := s.runner.Copy(ctx, s.scene, newSink(cmd.OutOrStdout(), flags), opts)
	if err != nil {
		return fmt.Errorf("copy: %w", err)
	}
	printCopyResult(status, result)
	return nil
}

// newSink picks where the document goes.
func newSink(stdout io.Writer, flags copyFlags) clipboard.Sink {
	switch {
	case flags.stdout:
		return clipboard.Writer{W: stdout, Label: "stdout"}
	case flags.output != "":
		return clipboard.File{Path: flags.output}
	default:
		return clipboard.System{}
	}
}

func printCopyResult(w io.Writer, r *pipeline.Result) {
	switch r.Status {
	case pipeline.StatusCopied:
		printSuccess(w, "Copied %s to %s", plural(r.Stats.Emitted, "node"), StyleHighlight.Render(r.Sink))
		printStats(w,
			stat{r.Stats.Walked, "walked"},
			stat{r.Stats.Orphaned, "orphaned"},
			stat{r.Stats.MaxDepth + 1, "levels"},
			stat{r.Stats.Bytes, "bytes"},
		)
	case pipeline.StatusNothingToCopy:
		printWarning(w, "Nothing to copy: select at least one shading node")
	case pipeline.StatusClipboardUnavailable:
		printWarning(w, "Clipboard unavailable: use --stdout or --output")
	}
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
