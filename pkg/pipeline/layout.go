package pipeline

import (
	"errors"
	"fmt"

	"github.com/matzehuels/m2k/pkg/dag"
	"github.com/matzehuels/m2k/pkg/graph"
	"github.com/matzehuels/m2k/pkg/host"
	"github.com/matzehuels/m2k/pkg/material"
	"github.com/matzehuels/m2k/pkg/render/nodelink"
)

// =============================================================================
// Network Graph
// =============================================================================

// NetworkGraph returns a copy of the result's network graph with each
// node's row set to its resolved level and the terminal and orphaned flags
// stored as node metadata.
func NetworkGraph(res *Result) (*dag.DAG, error) {
	if res.Network == nil {
		return dag.New(nil), nil
	}
	g, err := graph.ToDAG(graph.FromDAG(res.Network.Graph()))
	if err != nil {
		return nil, fmt.Errorf("copy network graph: %w", err)
	}
	if res.Tree == nil {
		return g, nil
	}

	g.SetRows(res.Depths)
	for _, name := range res.Tree.Terminal {
		if n, ok := g.Node(name); ok {
			n.Meta[nodelink.MetaTerminal] = true
		}
	}
	for _, r := range res.Tree.Orphaned {
		if n, ok := g.Node(r.Name); ok {
			n.Meta[nodelink.MetaOrphaned] = true
		}
	}
	return g, nil
}

// =============================================================================
// Layout Report
// =============================================================================

// Report describes where every node of a run was placed, how it is wired
// and which parameters it overrides.
//
// Shader outputs are looked up in scene; a nil scene skips them.
func (r *Runner) Report(scene host.Scene, res *Result) (graph.Layout, error) {
	out := graph.Layout{
		RunID:    res.RunID,
		Nodes:    []graph.Placement{},
		Edges:    []graph.Edge{},
		MaxDepth: res.Stats.MaxDepth,
	}
	if res.Network == nil || res.Tree == nil {
		return out, nil
	}

	for _, p := range res.Placed {
		overrides, err := r.overrides(p.Record)
		if err != nil {
			return graph.Layout{}, err
		}
		out.Nodes = append(out.Nodes, graph.Placement{
			ID:        p.Record.Name,
			Type:      p.Record.Type,
			X:         p.X,
			Y:         p.Y,
			Level:     p.Level,
			Orphaned:  p.Orphaned,
			Inputs:    inputs(p.Record),
			Overrides: overrides,
		})
	}

	g, err := NetworkGraph(res)
	if err != nil {
		return graph.Layout{}, err
	}
	out.Edges = graph.FromDAG(g).Edges
	out.Levels = material.Levels(res.Placed)
	out.Crossings = dag.CountCrossings(g, out.Levels)
	out.Cycle = g.FindCycle()
	out.Terminal = res.Tree.Terminal
	for _, o := range res.Tree.Orphaned {
		out.Orphaned = append(out.Orphaned, o.Name)
	}

	if scene != nil {
		for _, rec := range res.Network.Records() {
			ok, err := material.IsShaderOutput(scene, rec.FullPath)
			if err != nil {
				return graph.Layout{}, err
			}
			if ok {
				out.ShaderOutput = append(out.ShaderOutput, rec.Name)
			}
		}
	}
	return out, nil
}

// overrides renders the parameters the synthesizer writes for rec.
// Attributes without a template parameter are left out.
func (r *Runner) overrides(rec *material.Record) (map[string]string, error) {
	if !r.Store.Has(rec.Type) {
		return nil, nil
	}
	tpl, err := r.Store.Lookup(rec.Type)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string)
	for _, attr := range rec.AttrNames() {
		v, changed, err := material.Diff(tpl, rec, attr)
		if errors.Is(err, material.ErrNoParameter) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if changed {
			out[attr] = v.String()
		}
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

func inputs(rec *material.Record) map[string]string {
	if len(rec.Inputs) == 0 {
		return nil
	}
	out := make(map[string]string, len(rec.Inputs))
	for attr, input := range rec.Inputs {
		out[attr] = input.Source.String()
	}
	return out
}
