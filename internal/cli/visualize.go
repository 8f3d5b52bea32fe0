package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/m2k/pkg/pipeline"
	"github.com/matzehuels/m2k/pkg/render/nodelink"
)

// visualizeCommand creates the visualize command for drawing the network.
func (c *CLI) visualizeCommand() *cobra.Command {
	var (
		selection []string
		format    string
		output    string
		opts      nodelink.Options
	)

	cmd := &cobra.Command{
		Use:   "visualize",
		Short: "Draw the selected shading network",
		Long: `Draw the shading network upstream of the selection as a node-link diagram.

Terminal nodes are outlined in bold, orphaned nodes are dashed, and
child-attribute connections (which copy rejects) are drawn in red.

Formats: dot (Graphviz source, default), svg (rendered in-process), json
(the network graph).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateFormat(format); err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return c.runVisualize(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), selection, format, output, opts)
		},
	}

	cmd.Flags().StringSliceVar(&selection, "select", nil, "nodes to draw from (default: the scene selection)")
	cmd.Flags().StringVarP(&format, "format", "f", pipeline.FormatDOT, "output format: dot, svg, json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "show type, level and flags in node labels")
	cmd.Flags().BoolVar(&opts.Ports, "ports", false, "label edges with the connected attributes")

	return cmd
}

func (c *CLI) runVisualize(ctx context.Context, stdout, stderr io.Writer, selection []string, format, output string, opts nodelink.Options) error {
	s, err := c.open(ctx, true)
	if err != nil {
		return err
	}

	runOpts := s.options(c)
	runOpts.Selection = selection
	result, err := s.runner.Inspect(ctx, s.scene, runOpts)
	if err != nil {
		return fmt.Errorf("visualize: %w", err)
	}
	if result.Status == pipeline.StatusNothingToCopy {
		printWarning(stderr, "Nothing to draw: select at least one shading node")
		return nil
	}

	prog := newProgress(c.Logger)
	var spinner *Spinner
	if format == pipeline.FormatSVG {
		spinner = newSpinner(ctx, stderr, "Rendering svg...")
		spinner.Start()
	}
	data, err := pipeline.Visualize(ctx, result, format, opts)
	if spinner != nil {
		if err != nil && !spinner.Cancelled() {
			spinner.StopWithError("Rendering failed")
		} else {
			spinner.Stop()
		}
	}
	if err != nil {
		return fmt.Errorf("visualize: %w", err)
	}
	prog.done(fmt.Sprintf("Rendered %s", format))

	if output == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	printSuccess(stderr, "Wrote %s", format)
	printFile(stderr, output)
	return nil
}
