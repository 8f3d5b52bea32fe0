package graph

import (
	"bytes"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/m2k/pkg/dag"
)

func sampleDAG(t *testing.T) *dag.DAG {
	t.Helper()
	g := dag.New(nil)
	for _, n := range []dag.Node{
		{ID: "checker", Type: "PxrChecker"},
		{ID: "surface", Type: "PxrSurface", Row: 1, Meta: dag.Metadata{"terminal": true}},
	} {
		if err := g.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	if err := g.AddEdge(dag.Edge{From: "checker", FromPort: "resultRGB", To: "surface", ToPort: "diffuseColor"}); err != nil {
		t.Fatal(err)
	}
	return g
}

func TestFromDAG(t *testing.T) {
	g := FromDAG(sampleDAG(t))
	if len(g.Nodes) != 2 || len(g.Edges) != 1 {
		t.Fatalf("FromDAG = %+v", g)
	}
	if g.Nodes[0].ID != "checker" || g.Nodes[0].Meta != nil {
		t.Errorf("first node = %+v", g.Nodes[0])
	}
	if g.Nodes[1].Row != 1 || g.Nodes[1].Meta["terminal"] != true {
		t.Errorf("second node = %+v", g.Nodes[1])
	}
	if got := g.Edges[0].Plug(); got != "checker.resultRGB" {
		t.Errorf("Plug() = %q", got)
	}

	empty := FromDAG(dag.New(nil))
	if empty.Nodes == nil || empty.Edges == nil {
		t.Error("empty graph should encode as empty arrays")
	}
}

func TestGraphRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteGraph(sampleDAG(t), &buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"to_port": "diffuseColor"`) {
		t.Errorf("JSON = %s", buf.String())
	}
	g, err := ReadGraph(&buf)
	if err != nil {
		t.Fatalf("ReadGraph: %v", err)
	}
	if got := dag.NodeIDs(g.Nodes()); !slices.Equal(got, []string{"checker", "surface"}) {
		t.Errorf("nodes = %v", got)
	}
	if e := g.Edges()[0]; e.ToPort != "diffuseColor" || e.FromPort != "resultRGB" {
		t.Errorf("edge = %+v", e)
	}
}

func TestToDAGErrors(t *testing.T) {
	tests := []struct {
		name string
		g    Graph
	}{
		{"duplicate node", Graph{Nodes: []Node{{ID: "a"}, {ID: "a"}}}},
		{"empty id", Graph{Nodes: []Node{{ID: ""}}}},
		{"dangling edge", Graph{Nodes: []Node{{ID: "a"}}, Edges: []Edge{{From: "a", To: "b"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ToDAG(tt.g); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLayoutFile(t *testing.T) {
	l := Layout{
		RunID:    "run-1",
		Nodes:    []Placement{{ID: "tex", Type: "PxrTexture", Orphaned: true}, {ID: "surf", Type: "PxrSurface", X: 260, Level: 1}},
		Levels:   map[int][]string{1: {"surf"}},
		Orphaned: []string{"tex"},
		MaxDepth: 1,
	}
	path := filepath.Join(t.TempDir(), "layout.json")
	if err := WriteLayoutFile(l, path); err != nil {
		t.Fatal(err)
	}
	got, err := ReadLayoutFile(path)
	if err != nil {
		t.Fatalf("ReadLayoutFile: %v", err)
	}
	surf, ok := got.Node("surf")
	if !ok || surf.X != 260 || surf.Level != 1 {
		t.Errorf("surf = %+v, %v", surf, ok)
	}
	if !slices.Equal(got.Levels[1], []string{"surf"}) || got.RunID != "run-1" {
		t.Errorf("layout = %+v", got)
	}
	if _, ok := got.Node("missing"); ok {
		t.Error("missing node found")
	}
}

func TestUnmarshalLayoutErrors(t *testing.T) {
	if _, err := UnmarshalLayout([]byte("{")); err == nil {
		t.Error("invalid JSON should fail")
	}
	if _, err := UnmarshalLayout([]byte(`{"nodes":[{"type":"PxrSurface"}]}`)); err == nil {
		t.Error("node without id should fail")
	}
	if _, err := ReadLayoutFile(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("missing file should fail")
	}
}
