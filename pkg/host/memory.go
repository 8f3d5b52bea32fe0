package host

import (
	"fmt"
	"slices"
)

// Memory is an in-memory Scene.
//
// Nodes are addressed by name or by full path. Listing methods return
// results in insertion order so exports are deterministic.
//
// The zero value is not usable; create one with NewMemory.
type Memory struct {
	nodes     map[string]*memNode
	order     []string
	conns     []Connection
	selection []string
}

type memNode struct {
	info  NodeInfo
	attrs []*memAttr
}

type memAttr struct {
	Attribute
	value any
	err   error
}

// NewMemory creates an empty scene.
func NewMemory() *Memory {
	return &Memory{nodes: make(map[string]*memNode)}
}

// AddNode adds a node. FullPath defaults to "|" + Name.
func (m *Memory) AddNode(info NodeInfo) error {
	if info.Name == "" {
		return fmt.Errorf("add node: empty name")
	}
	if _, exists := m.nodes[info.Name]; exists {
		return fmt.Errorf("add node %q: already exists", info.Name)
	}
	if info.FullPath == "" {
		info.FullPath = "|" + info.Name
	}
	m.nodes[info.Name] = &memNode{info: info}
	m.order = append(m.order, info.Name)
	return nil
}

// SetAttr creates or overwrites an attribute and its value.
func (m *Memory) SetAttr(node string, attr Attribute, value any) error {
	n, ok := m.lookup(node)
	if !ok {
		return fmt.Errorf("set %s.%s: %w", node, attr.Name, ErrNodeNotFound)
	}
	for _, a := range n.attrs {
		if a.Name == attr.Name {
			a.Attribute = attr
			a.value = value
			a.err = nil
			return nil
		}
	}
	n.attrs = append(n.attrs, &memAttr{Attribute: attr, value: value})
	return nil
}

// BreakAttr makes every future read of the attribute fail with err wrapped
// in ErrAttributeRead, the way a host raises on some plugs.
func (m *Memory) BreakAttr(node, attr string, err error) error {
	n, ok := m.lookup(node)
	if !ok {
		return fmt.Errorf("break %s.%s: %w", node, attr, ErrNodeNotFound)
	}
	for _, a := range n.attrs {
		if a.Name == attr {
			a.err = err
			return nil
		}
	}
	return fmt.Errorf("break %s.%s: %w", node, attr, ErrAttributeNotFound)
}

// Connect connects src to dst. Both nodes must exist. child marks the
// connection as using a child attribute on either side.
func (m *Memory) Connect(src, dst Plug, child bool) error {
	if _, ok := m.lookup(src.Node); !ok {
		return fmt.Errorf("connect %s: %w", src, ErrNodeNotFound)
	}
	if _, ok := m.lookup(dst.Node); !ok {
		return fmt.Errorf("connect %s: %w", dst, ErrNodeNotFound)
	}
	m.conns = append(m.conns, Connection{
		Source: Plug{Node: m.name(src.Node), Attr: src.Attr},
		Dest:   Plug{Node: m.name(dst.Node), Attr: dst.Attr},
		Child:  child,
	})
	return nil
}

// Select replaces the current selection.
func (m *Memory) Select(ids ...string) {
	m.selection = slices.Clone(ids)
}

// Names returns all node names in insertion order.
func (m *Memory) Names() []string { return slices.Clone(m.order) }

// Selection implements Scene.
func (m *Memory) Selection() []string { return slices.Clone(m.selection) }

// Node implements Scene.
func (m *Memory) Node(id string) (NodeInfo, error) {
	n, ok := m.lookup(id)
	if !ok {
		return NodeInfo{}, fmt.Errorf("%q: %w", id, ErrNodeNotFound)
	}
	return n.info, nil
}

// Attributes implements Scene.
func (m *Memory) Attributes(id string) ([]Attribute, error) {
	n, ok := m.lookup(id)
	if !ok {
		return nil, fmt.Errorf("%q: %w", id, ErrNodeNotFound)
	}
	attrs := make([]Attribute, len(n.attrs))
	for i, a := range n.attrs {
		attrs[i] = a.Attribute
	}
	return attrs, nil
}

// Value implements Scene.
func (m *Memory) Value(id, attr string) (any, error) {
	n, ok := m.lookup(id)
	if !ok {
		return nil, fmt.Errorf("%q: %w", id, ErrNodeNotFound)
	}
	for _, a := range n.attrs {
		if a.Name != attr {
			continue
		}
		if a.err != nil {
			return nil, fmt.Errorf("%s.%s: %w: %v", n.info.Name, attr, ErrAttributeRead, a.err)
		}
		if vs, ok := a.value.([]float64); ok {
			return slices.Clone(vs), nil
		}
		return a.value, nil
	}
	return nil, fmt.Errorf("%s.%s: %w", n.info.Name, attr, ErrAttributeNotFound)
}

// Inputs implements Scene.
func (m *Memory) Inputs(id string) ([]Connection, error) {
	n, ok := m.lookup(id)
	if !ok {
		return nil, fmt.Errorf("%q: %w", id, ErrNodeNotFound)
	}
	var inputs []Connection
	for _, c := range m.conns {
		if c.Dest.Node == n.info.Name {
			inputs = append(inputs, c)
		}
	}
	return inputs, nil
}

// Outputs implements Scene.
func (m *Memory) Outputs(id string) ([]Connection, error) {
	n, ok := m.lookup(id)
	if !ok {
		return nil, fmt.Errorf("%q: %w", id, ErrNodeNotFound)
	}
	var outputs []Connection
	for _, c := range m.conns {
		if c.Source.Node == n.info.Name {
			outputs = append(outputs, c)
		}
	}
	return outputs, nil
}

// Connected implements Scene.
func (m *Memory) Connected(id string) ([]string, error) {
	n, ok := m.lookup(id)
	if !ok {
		return nil, fmt.Errorf("%q: %w", id, ErrNodeNotFound)
	}
	var others []string
	for _, c := range m.conns {
		switch n.info.Name {
		case c.Dest.Node:
			others = append(others, c.Source.Node)
		case c.Source.Node:
			others = append(others, c.Dest.Node)
		}
	}
	return others, nil
}

// Exists implements Scene.
func (m *Memory) Exists(id string) bool {
	_, ok := m.lookup(id)
	return ok
}

// Delete implements Scene.
func (m *Memory) Delete(id string) error {
	n, ok := m.lookup(id)
	if !ok {
		return fmt.Errorf("delete %q: %w", id, ErrNodeNotFound)
	}
	name := n.info.Name
	delete(m.nodes, name)
	m.order = slices.DeleteFunc(m.order, func(s string) bool { return s == name })
	m.conns = slices.DeleteFunc(m.conns, func(c Connection) bool {
		return c.Source.Node == name || c.Dest.Node == name
	})
	m.selection = slices.DeleteFunc(m.selection, func(s string) bool {
		return s == name || s == n.info.FullPath
	})
	return nil
}

func (m *Memory) lookup(id string) (*memNode, bool) {
	if n, ok := m.nodes[id]; ok {
		return n, true
	}
	for _, name := range m.order {
		if n := m.nodes[name]; n.info.FullPath == id {
			return n, true
		}
	}
	return nil, false
}

func (m *Memory) name(id string) string {
	if n, ok := m.lookup(id); ok {
		return n.info.Name
	}
	return id
}

// Ensure Memory implements Scene.
var _ Scene = (*Memory)(nil)
