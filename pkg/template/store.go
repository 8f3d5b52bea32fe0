// Package template loads and serves the stock Katana node templates.
//
// A template is the full default state of one node type in Katana's node XML
// dialect: a root <node> element, the input/output <port> elements and a
// parameter group named after the type whose "parameters" child holds one
// <group_parameter> per shader parameter:
//
//	<group_parameter name="specularRoughness">
//	  <number_parameter name="enable" value="0"/>
//	  <number_parameter name="value" value="0.2"/>
//	</group_parameter>
//
// A [Store] is built once (from a directory or an [fs.FS]) and is read-only
// afterwards. Callers that need to mutate a template take a deep copy with
// [Template.Copy]; the cached tree is never handed out.
package template

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path"
	"slices"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	m2kerrors "github.com/matzehuels/m2k/pkg/errors"
)

// ErrUnknownType is returned by Store.Lookup when no template exists for a
// node type.
var ErrUnknownType = errors.New("no template for node type")

// Extension is the file extension of template files.
const Extension = ".xml"

// Store maps node types to templates. It is immutable after construction
// and safe for concurrent reads.
type Store struct {
	templates map[string]*Template
}

// New creates a store from already parsed templates. Later templates
// replace earlier ones with the same type.
func New(templates ...*Template) *Store {
	s := &Store{templates: make(map[string]*Template, len(templates))}
	for _, t := range templates {
		s.templates[t.typ] = t
	}
	return s
}

// Load reads every <type>.xml file in dir.
func Load(dir string) (*Store, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, m2kerrors.Wrap(m2kerrors.ErrCodeFileNotFound, err, "template directory %s", dir)
		}
		return nil, m2kerrors.Wrap(m2kerrors.ErrCodeInvalidInput, err, "template directory %s", dir)
	}
	if !info.IsDir() {
		return nil, m2kerrors.New(m2kerrors.ErrCodeInvalidInput, "template path %s is not a directory", dir)
	}
	return LoadFS(os.DirFS(dir), ".")
}

// LoadFS reads every <type>.xml file in dir of fsys. The file stem is the
// node type.
func LoadFS(fsys fs.FS, dir string) (*Store, error) {
	files, err := fs.Glob(fsys, path.Join(dir, "*"+Extension))
	if err != nil {
		return nil, m2kerrors.Wrap(m2kerrors.ErrCodeInvalidInput, err, "list templates in %s", dir)
	}

	var templates []*Template
	for _, file := range files {
		typ := strings.TrimSuffix(path.Base(file), Extension)
		data, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, m2kerrors.Wrap(m2kerrors.ErrCodeInvalidTemplate, err, "read template %s", file)
		}
		t, err := Parse(typ, data)
		if err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	return New(templates...), nil
}

// Lookup returns the template for a node type.
func (s *Store) Lookup(typ string) (*Template, error) {
	t, ok := s.templates[typ]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownType, typ)
	}
	return t, nil
}

// Clone returns a mutable deep copy of the template root for a node type.
func (s *Store) Clone(typ string) (*etree.Element, error) {
	t, err := s.Lookup(typ)
	if err != nil {
		return nil, err
	}
	return t.Copy(), nil
}

// Has reports whether a template exists for the node type.
func (s *Store) Has(typ string) bool {
	_, ok := s.templates[typ]
	return ok
}

// Types returns the loaded node types in sorted order.
func (s *Store) Types() []string {
	return slices.Sorted(maps.Keys(s.templates))
}

// Len returns the number of loaded templates.
func (s *Store) Len() int { return len(s.templates) }

// Template is the parsed default state of one node type.
type Template struct {
	typ  string
	root *etree.Element
}

// Parse parses template XML for the given node type. Only well-formedness
// is checked; a template missing its parameter group is reported when it is
// used.
func Parse(typ string, data []byte) (*Template, error) {
	if err := m2kerrors.ValidateNodeType(typ); err != nil {
		return nil, err
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, m2kerrors.Wrap(m2kerrors.ErrCodeInvalidTemplate, err, "parse template %s", typ)
	}
	root := doc.Root()
	if root == nil {
		return nil, m2kerrors.New(m2kerrors.ErrCodeInvalidTemplate, "template %s has no root element", typ)
	}
	return &Template{typ: typ, root: root}, nil
}

// Type returns the node type the template describes.
func (t *Template) Type() string { return t.typ }

// Copy returns a deep copy of the template's root element, detached from
// any document. The copy may be mutated freely.
func (t *Template) Copy() *etree.Element { return t.root.Copy() }

// Parameter returns the parameter group for attr, searched anywhere below
// the node type's group.
func (t *Template) Parameter(attr string) (Param, bool) {
	group := FindNamed(t.root, "group_parameter", t.typ)
	if group == nil {
		return Param{}, false
	}
	p := FindNamed(group, "group_parameter", attr)
	if p == nil {
		return Param{}, false
	}
	return Param{el: p}, true
}

// HasTypeGroup reports whether the template carries the parameter group
// named after its node type.
func (t *Template) HasTypeGroup() bool {
	return FindNamed(t.root, "group_parameter", t.typ) != nil
}

// Parameters returns the names of the groups under the "parameters" group,
// in document order.
func (t *Template) Parameters() []string {
	params := FindNamed(t.root, "group_parameter", "parameters")
	if params == nil {
		return nil
	}
	var names []string
	for _, child := range params.SelectElements("group_parameter") {
		names = append(names, child.SelectAttrValue("name", ""))
	}
	return names
}

// Param is a read-only view of one template parameter group.
type Param struct {
	el *etree.Element
}

// Default returns the scalar default stored in the group's numeric "value"
// parameter.
func (p Param) Default() (float64, bool) {
	return p.number("value")
}

// Index returns the default of element i of an array parameter (the
// number_parameter named "i<i>").
func (p Param) Index(i int) (float64, bool) {
	return p.number(fmt.Sprintf("i%d", i))
}

// TupleSize returns the tupleSize of an array value, or 0 for scalars.
func (p Param) TupleSize() int {
	v := FindNamed(p.el, "numberarray_parameter", "value")
	if v == nil {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(v.SelectAttrValue("tupleSize", "0")))
	if err != nil {
		return 0
	}
	return n
}

func (p Param) number(name string) (float64, bool) {
	el := FindNamed(p.el, "number_parameter", name)
	if el == nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(el.SelectAttrValue("value", "")), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// FindNamed returns the first descendant of el with the given tag whose
// name attribute equals name. Names are compared literally, so attribute
// names never need escaping into a path expression.
func FindNamed(el *etree.Element, tag, name string) *etree.Element {
	for _, c := range el.FindElements(".//" + tag) {
		if c.SelectAttrValue("name", "") == name {
			return c
		}
	}
	return nil
}

// ChildNamed returns the first direct child of el with the given tag and
// name attribute. An empty tag matches any element.
func ChildNamed(el *etree.Element, tag, name string) *etree.Element {
	for _, c := range el.ChildElements() {
		if (tag == "" || c.Tag == tag) && c.SelectAttrValue("name", "") == name {
			return c
		}
	}
	return nil
}
