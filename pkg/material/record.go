package material

import (
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/m2k/pkg/host"
)

// Kind is the shape of an attribute value.
type Kind int

const (
	KindNone Kind = iota
	KindNumber
	KindString
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	}
	return "none"
}

// Value is a normalized attribute value. Booleans and enums are numbers.
type Value struct {
	Kind Kind
	Num  float64
	Str  string
	Arr  []float64
}

// Number returns a scalar value.
func Number(f float64) Value { return Value{Kind: KindNumber, Num: f} }

// String returns a string value.
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// Array returns a fixed-length numeric value. The slice is copied.
func Array(vs ...float64) Value { return Value{Kind: KindArray, Arr: slices.Clone(vs)} }

// IsZero reports whether v holds no value.
func (v Value) IsZero() bool { return v.Kind == KindNone }

// Equal reports whether two values are identical.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindNumber:
		return v.Num == o.Num
	case KindString:
		return v.Str == o.Str
	case KindArray:
		return slices.Equal(v.Arr, o.Arr)
	}
	return true
}

// String renders the value the way Katana parameter values are written.
// Arrays render space separated.
func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		return FormatNumber(v.Num)
	case KindString:
		return v.Str
	case KindArray:
		parts := make([]string, len(v.Arr))
		for i, f := range v.Arr {
			parts[i] = FormatNumber(f)
		}
		return strings.Join(parts, " ")
	}
	return ""
}

// FormatNumber formats f with the fewest digits that round-trip, without
// an exponent.
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Input is the upstream side of one connected attribute.
type Input struct {
	Source host.Plug
	Child  bool // Either side of the connection is a child attribute
}

// Record is the normalized snapshot of one node. Records are built by
// [Extract] and not modified afterwards; layout coordinates live on
// [Branch] and [Placed].
type Record struct {
	Name       string
	Type       string
	FullPath   string
	Attributes map[string]Value
	Inputs     map[string]Input

	attrOrder  []string
	inputOrder []string
}

// NewRecord creates an empty record.
func NewRecord(name, typ string) *Record {
	return &Record{
		Name:       name,
		Type:       typ,
		FullPath:   "|" + name,
		Attributes: make(map[string]Value),
		Inputs:     make(map[string]Input),
	}
}

// SetAttr stores an attribute value, keeping first-set order.
func (r *Record) SetAttr(name string, v Value) *Record {
	if _, ok := r.Attributes[name]; !ok {
		r.attrOrder = append(r.attrOrder, name)
	}
	r.Attributes[name] = v
	return r
}

// SetInput records that attr is driven by src.
func (r *Record) SetInput(attr string, src host.Plug, child bool) *Record {
	if _, ok := r.Inputs[attr]; !ok {
		r.inputOrder = append(r.inputOrder, attr)
	}
	r.Inputs[attr] = Input{Source: src, Child: child}
	return r
}

// AttrNames returns attribute names in the order they were set.
func (r *Record) AttrNames() []string { return slices.Clone(r.attrOrder) }

// InputNames returns the connected attribute names in the order they were
// set.
func (r *Record) InputNames() []string { return slices.Clone(r.inputOrder) }

// Sources returns the distinct upstream node names in input order.
func (r *Record) Sources() []string {
	var out []string
	for _, attr := range r.inputOrder {
		if src := r.Inputs[attr].Source.Node; !slices.Contains(out, src) {
			out = append(out, src)
		}
	}
	return out
}
