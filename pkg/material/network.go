package material

import (
	"fmt"

	"github.com/matzehuels/m2k/pkg/dag"
)

// Network is the set of records of one export, in walk order, with their
// connection graph.
type Network struct {
	records []*Record
	byName  map[string]*Record
	graph   *dag.DAG
}

// NewNetwork indexes records and connects them. Inputs whose source is not
// one of the records are kept on the record but left out of the graph.
func NewNetwork(records []*Record) (*Network, error) {
	n := &Network{
		records: records,
		byName:  make(map[string]*Record, len(records)),
		graph:   dag.New(nil),
	}
	for _, r := range records {
		if err := n.graph.AddNode(dag.Node{ID: r.Name, Type: r.Type}); err != nil {
			return nil, fmt.Errorf("record %q: %w", r.Name, err)
		}
		n.byName[r.Name] = r
	}
	for _, r := range records {
		for _, attr := range r.InputNames() {
			in := r.Inputs[attr]
			if _, ok := n.byName[in.Source.Node]; !ok {
				continue
			}
			err := n.graph.AddEdge(dag.Edge{
				From:     in.Source.Node,
				FromPort: in.Source.Attr,
				To:       r.Name,
				ToPort:   attr,
				Child:    in.Child,
			})
			if err != nil {
				return nil, fmt.Errorf("connect %s.%s: %w", r.Name, attr, err)
			}
		}
	}
	return n, nil
}

// Records returns the records in walk order.
func (n *Network) Records() []*Record { return n.records }

// Record returns the record with the given name.
func (n *Network) Record(name string) (*Record, bool) {
	r, ok := n.byName[name]
	return r, ok
}

// Len returns the number of records.
func (n *Network) Len() int { return len(n.records) }

// Graph returns the connection graph. Callers may set rows on it.
func (n *Network) Graph() *dag.DAG { return n.graph }

// Consumers returns the records that read from name, in walk order.
func (n *Network) Consumers(name string) []string { return n.graph.Children(name) }
