package host

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/m2k/pkg/errors"
)

// sceneFile is the TOML layout of a scene snapshot:
//
//	selection = ["NWM_END"]
//
//	[[node]]
//	name = "NWM_END"
//	type = "PxrSurface"
//
//	  [[node.attr]]
//	  name  = "diffuseColor"
//	  type  = "float3"
//	  value = [0.18, 0.18, 0.18]
//
//	[[connection]]
//	source = "NWM_UP.resultRGB"
//	dest   = "NWM_END.diffuseColor"
type sceneFile struct {
	Selection   []string    `toml:"selection"`
	Nodes       []nodeEntry `toml:"node"`
	Connections []connEntry `toml:"connection"`
}

type nodeEntry struct {
	Name  string      `toml:"name"`
	Type  string      `toml:"type"`
	Path  string      `toml:"path"`
	Attrs []attrEntry `toml:"attr"`
}

type attrEntry struct {
	Name  string `toml:"name"`
	Type  string `toml:"type"`
	Value any    `toml:"value"`
	Child bool   `toml:"child"`
}

type connEntry struct {
	Source string `toml:"source"`
	Dest   string `toml:"dest"`
	Child  bool   `toml:"child"`
}

// LoadSceneFile reads a TOML scene snapshot into a new Memory scene.
func LoadSceneFile(path string) (*Memory, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open scene %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open scene %s", path)
	}
	defer f.Close()
	return ReadScene(f)
}

// ReadScene decodes a TOML scene snapshot into a new Memory scene.
// Unknown keys are rejected so typos do not silently drop attributes.
func ReadScene(r io.Reader) (*Memory, error) {
	var sf sceneFile
	md, err := toml.NewDecoder(r).Decode(&sf)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "decode scene")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidScene, "unknown scene keys: %s", strings.Join(keys, ", "))
	}
	return sf.build()
}

func (sf *sceneFile) build() (*Memory, error) {
	m := NewMemory()
	for _, n := range sf.Nodes {
		if err := errors.ValidateNodeName(n.Name); err != nil {
			return nil, err
		}
		if err := m.AddNode(NodeInfo{Name: n.Name, Type: n.Type, FullPath: n.Path}); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "node %q", n.Name)
		}
		for _, a := range n.Attrs {
			v, err := normalizeValue(AttrType(a.Type), a.Value)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "attribute %s.%s", n.Name, a.Name)
			}
			attr := Attribute{Name: a.Name, Type: AttrType(a.Type), Child: a.Child}
			if err := m.SetAttr(n.Name, attr, v); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "attribute %s.%s", n.Name, a.Name)
			}
		}
	}

	for _, c := range sf.Connections {
		src, err := ParsePlug(c.Source)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "connection source %q", c.Source)
		}
		dst, err := ParsePlug(c.Dest)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "connection dest %q", c.Dest)
		}
		if err := m.Connect(src, dst, c.Child); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "connection %s -> %s", c.Source, c.Dest)
		}
	}

	for _, id := range sf.Selection {
		if !m.Exists(id) {
			return nil, errors.New(errors.ErrCodeNodeNotFound, "selected node %q is not in the scene", id)
		}
	}
	m.Select(sf.Selection...)
	return m, nil
}

// normalizeValue converts TOML-decoded values into the shapes Scene.Value
// promises for each host type.
func normalizeValue(typ AttrType, v any) (any, error) {
	if v == nil {
		if typ.Known() {
			return nil, fmt.Errorf("missing value")
		}
		return nil, nil
	}
	switch typ {
	case TypeFloat, TypeDouble:
		return toFloat(v)
	case TypeInt, TypeEnum:
		f, err := toFloat(v)
		if err != nil {
			return nil, err
		}
		if f != math.Trunc(f) {
			return nil, fmt.Errorf("%s value %v is not integral", typ, v)
		}
		return int(f), nil
	case TypeBool:
		switch b := v.(type) {
		case bool:
			return b, nil
		case int64:
			return b != 0, nil
		}
		return nil, fmt.Errorf("bool value has type %T", v)
	case TypeFloat3, TypeDouble3:
		items, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("%s value must be an array, got %T", typ, v)
		}
		out := make([]float64, len(items))
		for i, item := range items {
			f, err := toFloat(item)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out[i] = f
		}
		return out, nil
	case TypeString:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("string value has type %T", v)
		}
		return s, nil
	}
	// Unknown host types are kept verbatim; the extractor drops them.
	return v, nil
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int64:
		return float64(n), nil
	}
	return 0, fmt.Errorf("expected a number, got %T", v)
}
