// Package host defines the read-only view of a DCC scene that m2k exports from.
//
// The pipeline never talks to Maya directly. It consumes a [Scene], a narrow
// capability interface covering node lookup, attribute listing and reads,
// connection listing and the current selection. [Memory] is an in-memory
// implementation used by tests and by the CLI, which fills it from a TOML
// scene snapshot (see [LoadSceneFile]).
package host

import (
	"errors"
	"strings"
)

var (
	// ErrNodeNotFound is returned when a node id does not exist in the scene.
	ErrNodeNotFound = errors.New("node not found")

	// ErrAttributeNotFound is returned when a node has no attribute with the
	// requested name.
	ErrAttributeNotFound = errors.New("attribute not found")

	// ErrAttributeRead is returned when the host fails to read an attribute
	// value. Callers treat it as a soft miss.
	ErrAttributeRead = errors.New("attribute read failed")

	// ErrInvalidPlug is returned by ParsePlug for references without a
	// "<node>.<attribute>" shape.
	ErrInvalidPlug = errors.New(`plug must be "<node>.<attribute>"`)
)

// AttrType is the host's attribute type discriminator.
type AttrType string

// Attribute types reported by the host. Anything else is dropped by the
// extractor.
const (
	TypeFloat   AttrType = "float"
	TypeDouble  AttrType = "double"
	TypeInt     AttrType = "int"
	TypeBool    AttrType = "bool"
	TypeFloat3  AttrType = "float3"
	TypeDouble3 AttrType = "double3"
	TypeEnum    AttrType = "enum"
	TypeString  AttrType = "string"
)

// Known reports whether the exporter understands the type.
func (t AttrType) Known() bool {
	switch t {
	case TypeFloat, TypeDouble, TypeInt, TypeBool, TypeFloat3, TypeDouble3, TypeEnum, TypeString:
		return true
	}
	return false
}

// Attribute describes one visible, settable attribute of a node.
type Attribute struct {
	Name  string
	Type  AttrType
	Child bool // Component of a compound attribute (e.g. diffuseColorR)
}

// Plug addresses one attribute on one node.
type Plug struct {
	Node string
	Attr string
}

// String renders the plug as "<node>.<attribute>", the form Katana port
// sources use.
func (p Plug) String() string { return p.Node + "." + p.Attr }

// ParsePlug splits "<node>.<attribute>" at the first dot. Compound attribute
// paths such as "place1.uvCoord.uCoord" keep everything after the node name.
func ParsePlug(s string) (Plug, error) {
	node, attr, ok := strings.Cut(s, ".")
	if !ok || node == "" || attr == "" {
		return Plug{}, ErrInvalidPlug
	}
	return Plug{Node: node, Attr: attr}, nil
}

// Connection is one incoming connection: Source drives Dest.
// Child is set when either plug is a child attribute.
type Connection struct {
	Source Plug
	Dest   Plug
	Child  bool
}

// NodeInfo carries the identity of a node.
type NodeInfo struct {
	Name     string
	Type     string
	FullPath string
}

// Scene is the host capability the exporter depends on.
//
// Node ids are whatever the host uses to address nodes (names or DAG paths).
// Implementations must be safe for sequential use; the pipeline never calls
// a Scene concurrently.
type Scene interface {
	// Selection returns the ids of the currently selected nodes.
	Selection() []string

	// Node returns the identity of a node, or ErrNodeNotFound.
	Node(id string) (NodeInfo, error)

	// Attributes lists the visible, settable attributes of a node.
	Attributes(id string) ([]Attribute, error)

	// Value reads the live value of an attribute. Values are float64, int,
	// bool, string or []float64.
	Value(id, attr string) (any, error)

	// Inputs lists the connections whose destination is on the node.
	Inputs(id string) ([]Connection, error)

	// Outputs lists the connections whose source is on the node.
	Outputs(id string) ([]Connection, error)

	// Connected lists the node on the other side of every connection of the
	// node, in either direction, one entry per connection.
	Connected(id string) ([]string, error)

	// Exists reports whether the node exists.
	Exists(id string) bool

	// Delete removes a node and its connections.
	Delete(id string) error
}
