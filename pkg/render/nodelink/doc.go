// Package nodelink draws a material network as a node-link diagram.
//
// The diagram is a debugging aid for exports: it shows which nodes the
// walker reached, how they connect and which of them the tree builder
// treated as terminal or orphaned.
//
//	dot := nodelink.ToDOT(net.Graph(), nodelink.Options{Ports: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [ToDOT] is pure and deterministic: nodes and edges are written in walk
// order. [RenderSVG] lays the graph out in-process with
// [github.com/goccy/go-graphviz]; no external Graphviz install is needed.
package nodelink
