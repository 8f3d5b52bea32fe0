// Package katana writes placed material records as a Katana node-graph
// paste document.
//
// Every node starts from a copy of its stock template. Only overrides are
// written: a parameter whose live value matches the template default keeps
// enable="0" and Katana reconstructs it from its own defaults.
package katana

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/beevik/etree"
	"github.com/charmbracelet/log"

	m2kerrors "github.com/matzehuels/m2k/pkg/errors"
	"github.com/matzehuels/m2k/pkg/material"
	"github.com/matzehuels/m2k/pkg/observability"
	"github.com/matzehuels/m2k/pkg/template"
)

// Export group written around the synthesized nodes.
const (
	RootTag   = "katana"
	GroupName = "__SAVE_exportedNodes"
	GroupType = "Group"
)

// Synthesizer builds node elements from templates.
type Synthesizer struct {
	ctx    context.Context
	store  *template.Store
	logger *log.Logger
}

// NewSynthesizer creates a synthesizer. A nil logger discards output.
func NewSynthesizer(store *template.Store, logger *log.Logger) *Synthesizer {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Synthesizer{ctx: context.Background(), store: store, logger: logger}
}

// WithContext returns a copy of s that reports schema mismatches to the
// template hooks under ctx.
func (s *Synthesizer) WithContext(ctx context.Context) *Synthesizer {
	c := *s
	c.ctx = ctx
	return &c
}

// Synthesize builds one node element with a discarding logger.
func Synthesize(store *template.Store, p material.Placed) (*etree.Element, error) {
	return NewSynthesizer(store, nil).Node(p)
}

// BuildDocument builds the paste document with a discarding logger.
func BuildDocument(store *template.Store, placed []material.Placed) (*etree.Document, error) {
	return NewSynthesizer(store, nil).Document(placed)
}

// Node builds the element for one placed record.
//
// A missing template or parameter group fails with SCHEMA_MISMATCH. A
// connection flagged as a child attribute fails with a
// *errors.ChildAttributeError; Katana can only connect whole attributes.
func (s *Synthesizer) Node(p material.Placed) (*etree.Element, error) {
	rec := p.Record
	tpl, err := s.store.Lookup(rec.Type)
	if err != nil {
		if errors.Is(err, template.ErrUnknownType) {
			return nil, m2kerrors.Wrap(m2kerrors.ErrCodeSchemaMismatch, err, "node %s", rec.Name)
		}
		return nil, err
	}

	root := tpl.Copy()
	group := template.FindNamed(root, "group_parameter", rec.Type)
	if group == nil {
		return nil, m2kerrors.New(m2kerrors.ErrCodeSchemaMismatch,
			"template %s has no parameter group named after its type (node %s)", rec.Type, rec.Name)
	}

	root.CreateAttr("name", rec.Name)
	group.CreateAttr("name", rec.Name)
	if nameParam := template.ChildNamed(group, "string_parameter", "name"); nameParam != nil {
		nameParam.CreateAttr("value", rec.Name)
	}
	root.CreateAttr("x", strconv.Itoa(p.X))
	root.CreateAttr("y", strconv.Itoa(p.Y))

	if err := s.applyOverrides(tpl, root, rec); err != nil {
		return nil, err
	}
	if err := s.connect(root, rec); err != nil {
		return nil, err
	}
	return root, nil
}

func (s *Synthesizer) applyOverrides(tpl *template.Template, root *etree.Element, rec *material.Record) error {
	overrides := make(map[string]material.Value)
	var missing []string
	for _, attr := range rec.AttrNames() {
		v, changed, err := material.Diff(tpl, rec, attr)
		if errors.Is(err, material.ErrNoParameter) {
			missing = append(missing, attr)
			observability.Templates().OnSchemaMismatch(s.ctx, rec.Type, attr)
			continue
		}
		if err != nil {
			return err
		}
		if changed {
			overrides[attr] = v
		}
	}
	if len(missing) > 0 {
		s.logger.Warn("attributes without template parameter", "node", rec.Name, "type", rec.Type, "attrs", missing)
	}

	params := template.FindNamed(root, "group_parameter", "parameters")
	if params == nil {
		return nil
	}
	for _, param := range params.SelectElements("group_parameter") {
		name := param.SelectAttrValue("name", "")
		v, ok := overrides[name]
		if !ok {
			continue
		}
		value := template.ChildNamed(param, "", "value")
		if value == nil {
			s.logger.Warn("parameter has no value element", "node", rec.Name, "param", name)
			continue
		}
		if !writeValue(value, v) {
			s.logger.Warn("array size does not match template",
				"node", rec.Name, "param", name, "tupleSize", value.SelectAttrValue("tupleSize", ""), "len", len(v.Arr))
			continue
		}
		if enable := template.ChildNamed(param, "", "enable"); enable != nil {
			enable.CreateAttr("value", "1")
		}
		s.logger.Debug("override", "node", rec.Name, "param", name, "value", v.String())
	}
	return nil
}

// writeValue stores v in a value element. Arrays are written to the i0, i1,
// ... children and only when the element's tupleSize equals the live
// length.
func writeValue(el *etree.Element, v material.Value) bool {
	if v.Kind != material.KindArray {
		el.CreateAttr("value", v.String())
		return true
	}
	size, err := strconv.Atoi(el.SelectAttrValue("tupleSize", ""))
	if err != nil || size != len(v.Arr) {
		return false
	}
	items := make([]*etree.Element, len(v.Arr))
	for i := range v.Arr {
		items[i] = template.ChildNamed(el, "number_parameter", "i"+strconv.Itoa(i))
		if items[i] == nil {
			return false
		}
	}
	for i, f := range v.Arr {
		items[i].CreateAttr("value", material.FormatNumber(f))
	}
	return true
}

func (s *Synthesizer) connect(root *etree.Element, rec *material.Record) error {
	for _, attr := range rec.InputNames() {
		in := rec.Inputs[attr]
		if in.Child {
			return &m2kerrors.ChildAttributeError{Node: rec.Name, Attribute: attr, Source: in.Source.String()}
		}
		port := template.FindNamed(root, "port", attr)
		if port == nil {
			s.logger.Warn("no port for connection", "node", rec.Name, "attr", attr, "source", in.Source.String())
			continue
		}
		port.CreateAttr("source", in.Source.String())
		s.logger.Debug("connected", "node", rec.Name, "attr", attr, "source", in.Source.String())
	}
	return nil
}

// Document wraps the synthesized nodes, in order, in the export group.
// Nothing is returned if any node fails.
func (s *Synthesizer) Document(placed []material.Placed) (*etree.Document, error) {
	doc := etree.NewDocument()
	group := doc.CreateElement(RootTag).CreateElement("node")
	group.CreateAttr("name", GroupName)
	group.CreateAttr("type", GroupType)

	for _, p := range placed {
		el, err := s.Node(p)
		if err != nil {
			return nil, fmt.Errorf("synthesize %s: %w", p.Record.Name, err)
		}
		group.AddChild(el)
	}
	return doc, nil
}

// WriteString serializes the document. A positive indent pretty-prints
// with that many spaces.
func WriteString(doc *etree.Document, indent int) (string, error) {
	if indent > 0 {
		doc.Indent(indent)
	}
	return doc.WriteToString()
}

// NodeNames returns the names of the nodes in a document's export group,
// in document order.
func NodeNames(doc *etree.Document) []string {
	group := doc.FindElement("/" + RootTag + "/node")
	if group == nil {
		return nil
	}
	var out []string
	for _, n := range group.SelectElements("node") {
		out = append(out, n.SelectAttrValue("name", ""))
	}
	return out
}
