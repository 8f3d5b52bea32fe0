package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/m2k/pkg/graph"
	"github.com/matzehuels/m2k/pkg/render/nodelink"
)

// Format constants for network diagrams.
const (
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatJSON = "json"
)

// ValidFormats is the set of supported diagram formats.
var ValidFormats = map[string]bool{
	FormatDOT:  true,
	FormatSVG:  true,
	FormatJSON: true,
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: dot, svg, json)", format)
	}
	return nil
}

// Visualize renders the result's network graph in the given format.
func Visualize(ctx context.Context, res *Result, format string, opts nodelink.Options) ([]byte, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}
	g, err := NetworkGraph(res)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatJSON:
		return graph.MarshalGraph(g)
	case FormatSVG:
		data, err := nodelink.RenderSVG(ctx, nodelink.ToDOT(g, opts))
		if err != nil {
			return nil, fmt.Errorf("render svg: %w", err)
		}
		return data, nil
	default:
		return []byte(nodelink.ToDOT(g, opts)), nil
	}
}
