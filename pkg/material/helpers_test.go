package material

import (
	"testing"

	"github.com/matzehuels/m2k/pkg/host"
	"github.com/matzehuels/m2k/pkg/template"
)

const testTemplateXML = `<node name="PxrTest" type="PrmanShadingNode" x="0" y="0">
  <port name="colorInput" type="in"/>
  <port name="resultRGB" type="out"/>
  <group_parameter name="PxrTest">
    <string_parameter name="name" value="PxrTest"/>
    <group_parameter name="parameters">
      <group_parameter name="gain">
        <number_parameter name="enable" value="0"/>
        <number_parameter name="value" value="0.2"/>
      </group_parameter>
      <group_parameter name="colorInput">
        <number_parameter name="enable" value="0"/>
        <numberarray_parameter name="value" size="3" tupleSize="3">
          <number_parameter name="i0" value="0.18"/>
          <number_parameter name="i1" value="0.18"/>
          <number_parameter name="i2" value="0.18"/>
        </numberarray_parameter>
      </group_parameter>
      <group_parameter name="label">
        <number_parameter name="enable" value="0"/>
        <string_parameter name="value" value=""/>
      </group_parameter>
      <group_parameter name="noDefault">
        <number_parameter name="enable" value="0"/>
      </group_parameter>
    </group_parameter>
  </group_parameter>
</node>`

func testTemplate(t *testing.T) *template.Template {
	t.Helper()
	tpl, err := template.Parse("PxrTest", []byte(testTemplateXML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return tpl
}

// sceneBuilder builds host.Memory scenes tersely.
type sceneBuilder struct {
	t *testing.T
	m *host.Memory
}

func newScene(t *testing.T) *sceneBuilder {
	t.Helper()
	return &sceneBuilder{t: t, m: host.NewMemory()}
}

func (b *sceneBuilder) node(name, typ string) *sceneBuilder {
	b.t.Helper()
	if err := b.m.AddNode(host.NodeInfo{Name: name, Type: typ}); err != nil {
		b.t.Fatalf("AddNode(%s): %v", name, err)
	}
	return b
}

func (b *sceneBuilder) attr(node string, a host.Attribute, v any) *sceneBuilder {
	b.t.Helper()
	if err := b.m.SetAttr(node, a, v); err != nil {
		b.t.Fatalf("SetAttr(%s.%s): %v", node, a.Name, err)
	}
	return b
}

func (b *sceneBuilder) connect(src, dst string) *sceneBuilder {
	b.t.Helper()
	return b.connectChild(src, dst, false)
}

func (b *sceneBuilder) connectChild(src, dst string, child bool) *sceneBuilder {
	b.t.Helper()
	s, err := host.ParsePlug(src)
	if err != nil {
		b.t.Fatal(err)
	}
	d, err := host.ParsePlug(dst)
	if err != nil {
		b.t.Fatal(err)
	}
	if err := b.m.Connect(s, d, child); err != nil {
		b.t.Fatalf("Connect(%s, %s): %v", src, dst, err)
	}
	return b
}

// node builds a record reading the "out" attribute of each source.
func node(name string, inputs ...string) *Record {
	r := NewRecord(name, "PxrTest")
	for i, src := range inputs {
		r.SetInput("in"+string(rune('A'+i)), host.Plug{Node: src, Attr: "out"}, false)
	}
	return r
}

func mustNetwork(t *testing.T, records ...*Record) *Network {
	t.Helper()
	n, err := NewNetwork(records)
	if err != nil {
		t.Fatalf("NewNetwork: %v", err)
	}
	return n
}

func mustTree(t *testing.T, net *Network, c Classifier) *Tree {
	t.Helper()
	tree, err := BuildTree(net, c, DefaultLayout())
	if err != nil {
		t.Fatalf("BuildTree: %v", err)
	}
	return tree
}

func names(placed []Placed) []string {
	out := make([]string, len(placed))
	for i, p := range placed {
		out[i] = p.Record.Name
	}
	return out
}

func hostPlug(node, attr string) host.Plug { return host.Plug{Node: node, Attr: attr} }
