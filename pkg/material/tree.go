package material

import (
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/m2k/pkg/host"
)

// Layout spacing in Katana node-graph units.
const (
	DefaultNodeWidth  = 200
	DefaultSpaceWidth = 60
	DefaultRowHeight  = 100
)

// ShadingEngineType is the host type that assigns a material to geometry.
const ShadingEngineType = "shadingEngine"

// DefaultMarker identifies the host's reserved default objects by name.
const DefaultMarker = "default"

// Layout holds the grid spacing used to place branches.
type Layout struct {
	NodeWidth  int `toml:"node_width"`
	SpaceWidth int `toml:"space_width"`
	RowHeight  int `toml:"row_height"`
}

// DefaultLayout returns the standard spacing.
func DefaultLayout() Layout {
	return Layout{NodeWidth: DefaultNodeWidth, SpaceWidth: DefaultSpaceWidth, RowHeight: DefaultRowHeight}
}

// X returns the horizontal offset of a level.
func (l Layout) X(level int) int { return level * (l.NodeWidth + l.SpaceWidth) }

// Y returns the vertical offset of the branch started by the i-th root.
func (l Layout) Y(root int) int { return root * (l.RowHeight + l.SpaceWidth) }

// Validate rejects negative spacing.
func (l Layout) Validate() error {
	if l.NodeWidth < 0 || l.SpaceWidth < 0 || l.RowHeight < 0 {
		return fmt.Errorf("layout spacing must not be negative: %+v", l)
	}
	return nil
}

// Branch is one occurrence of a record in the tree. A record read by several
// consumers occurs once under each of them.
type Branch struct {
	Record   *Record
	Level    int
	X, Y     int
	Children []*Branch
}

// Name returns the record name.
func (b *Branch) Name() string { return b.Record.Name }

// Tree is the network unrolled from its roots.
type Tree struct {
	Children []*Branch
	Terminal []string  // Records nothing in the network reads from
	Orphaned []*Record // Records wired only to a default object
}

// Walk visits every branch pre-order. Returning false skips the branch's
// children.
func (t *Tree) Walk(fn func(*Branch) bool) {
	var walk func([]*Branch)
	walk = func(bs []*Branch) {
		for _, b := range bs {
			if fn(b) {
				walk(b.Children)
			}
		}
	}
	walk(t.Children)
}

// Occurrences returns every branch of the named record in pre-order.
func (t *Tree) Occurrences(name string) []*Branch {
	var out []*Branch
	t.Walk(func(b *Branch) bool {
		if b.Name() == name {
			out = append(out, b)
		}
		return true
	})
	return out
}

// IsOrphaned reports whether the named record was classified as orphaned.
func (t *Tree) IsOrphaned(name string) bool {
	return slices.ContainsFunc(t.Orphaned, func(r *Record) bool { return r.Name == name })
}

// Classifier decides which records are orphaned.
type Classifier interface {
	Orphaned(rec *Record) (bool, error)
}

// ClassifierFunc adapts a function to Classifier.
type ClassifierFunc func(rec *Record) (bool, error)

// Orphaned implements Classifier.
func (f ClassifierFunc) Orphaned(rec *Record) (bool, error) { return f(rec) }

// SceneClassifier classifies a node as orphaned when the host reports
// exactly one connection for it, in either direction, and the node on the
// other side is a default object.
func SceneClassifier(scene host.Scene) Classifier {
	return ClassifierFunc(func(rec *Record) (bool, error) {
		others, err := scene.Connected(recordID(rec))
		if err != nil {
			return false, nodeError(rec.Name, err)
		}
		return len(others) == 1 && strings.Contains(others[0], DefaultMarker), nil
	})
}

// IsShaderOutput reports whether any downstream consumer of the node is a
// shading engine.
func IsShaderOutput(scene host.Scene, id string) (bool, error) {
	outputs, err := scene.Outputs(id)
	if err != nil {
		return false, nodeError(id, err)
	}
	for _, c := range outputs {
		info, err := scene.Node(c.Dest.Node)
		if err != nil {
			return false, nodeError(c.Dest.Node, err)
		}
		if info.Type == ShadingEngineType {
			return true, nil
		}
	}
	return false, nil
}

func recordID(rec *Record) string {
	if rec.FullPath != "" {
		return rec.FullPath
	}
	return rec.Name
}

// BuildTree unrolls the network into branches.
//
// Orphaned records are set aside. Every record without inputs starts a
// branch; the i-th branch sits at Layout.Y(i) and each nesting level at
// Layout.X(level). A record is inserted under each of its consumers, except
// under a consumer already on the current path. Records no root reaches,
// such as members of a closed loop, start extra branches in walk order.
//
// A nil classifier treats no record as orphaned.
func BuildTree(net *Network, classifier Classifier, layout Layout) (*Tree, error) {
	t := &Tree{}
	orphaned := make(map[string]bool)
	if classifier != nil {
		for _, r := range net.Records() {
			ok, err := classifier.Orphaned(r)
			if err != nil {
				return nil, err
			}
			if ok {
				orphaned[r.Name] = true
				t.Orphaned = append(t.Orphaned, r)
			}
		}
	}

	for _, r := range net.Records() {
		if len(net.Consumers(r.Name)) == 0 {
			t.Terminal = append(t.Terminal, r.Name)
		}
	}

	placed := make(map[string]bool)
	var insert func(name string, level, y int, path []string) *Branch
	insert = func(name string, level, y int, path []string) *Branch {
		rec, ok := net.Record(name)
		if !ok || orphaned[name] {
			return nil
		}
		placed[name] = true
		b := &Branch{Record: rec, Level: level, X: layout.X(level), Y: y}
		path = append(path, name)
		for _, c := range net.Consumers(name) {
			if slices.Contains(path, c) {
				continue
			}
			if child := insert(c, level+1, y, path); child != nil {
				b.Children = append(b.Children, child)
			}
		}
		return b
	}

	root := 0
	start := func(name string) {
		if b := insert(name, 0, layout.Y(root), nil); b != nil {
			t.Children = append(t.Children, b)
			root++
		}
	}
	for _, r := range net.Records() {
		if len(r.Inputs) == 0 && !orphaned[r.Name] {
			start(r.Name)
		}
	}
	for _, r := range net.Records() {
		if !placed[r.Name] && !orphaned[r.Name] {
			start(r.Name)
		}
	}
	return t, nil
}
