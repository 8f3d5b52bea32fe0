package graph

import (
	"encoding/json"
	"fmt"
	"maps"

	"github.com/matzehuels/m2k/pkg/dag"
)

// =============================================================================
// Graph - Network Serialization
// =============================================================================

// Graph is the JSON form of a material network's connection graph.
// Nodes and edges keep the network's walk order.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node is one shader node.
type Node struct {
	ID   string         `json:"id"`
	Type string         `json:"type,omitempty"`
	Row  int            `json:"row,omitempty"` // Resolved level
	Meta map[string]any `json:"meta,omitempty"`
}

// Edge is one connection, source to consumer.
type Edge struct {
	From     string `json:"from"`
	To       string `json:"to"`
	FromPort string `json:"from_port,omitempty"`
	ToPort   string `json:"to_port,omitempty"`
	Child    bool   `json:"child,omitempty"`
}

// Plug renders the source side as "<node>.<attribute>".
func (e Edge) Plug() string { return e.From + "." + e.FromPort }

// =============================================================================
// DAG <-> Graph Conversion
// =============================================================================

// FromDAG converts a DAG to its serialization format.
func FromDAG(g *dag.DAG) Graph {
	out := Graph{Nodes: []Node{}, Edges: []Edge{}}
	for _, n := range g.Nodes() {
		out.Nodes = append(out.Nodes, Node{ID: n.ID, Type: n.Type, Row: n.Row, Meta: copyMeta(n.Meta)})
	}
	for _, e := range g.Edges() {
		out.Edges = append(out.Edges, Edge(e))
	}
	return out
}

// ToDAG converts a Graph to a DAG.
func ToDAG(gj Graph) (*dag.DAG, error) {
	d := dag.New(nil)
	for _, nj := range gj.Nodes {
		n := dag.Node{ID: nj.ID, Type: nj.Type, Row: nj.Row, Meta: copyMeta(nj.Meta)}
		if err := d.AddNode(n); err != nil {
			return nil, fmt.Errorf("add node %s: %w", nj.ID, err)
		}
	}
	for _, ej := range gj.Edges {
		if err := d.AddEdge(dag.Edge(ej)); err != nil {
			return nil, fmt.Errorf("add edge %s -> %s: %w", ej.From, ej.To, err)
		}
	}
	return d, nil
}

// UnmarshalGraph deserializes JSON bytes to a Graph.
func UnmarshalGraph(data []byte) (Graph, error) {
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return Graph{}, err
	}
	return g, nil
}

// copyMeta returns a shallow copy, or nil for an empty map.
func copyMeta(m map[string]any) map[string]any {
	if len(m) == 0 {
		return nil
	}
	return maps.Clone(m)
}
