package material

import (
	"errors"
	"fmt"
	"math"

	"github.com/matzehuels/m2k/pkg/template"
)

// Tolerance is the absolute difference below which a live number equals its
// template default.
const Tolerance = 0.0001

// ErrNoParameter is returned by Diff when the template has no parameter
// group for the attribute. The attribute cannot be exported.
var ErrNoParameter = errors.New("no template parameter")

// Diff compares the record's live value of attr with the template default.
// It returns the value to write and true when they differ.
//
// Arrays compare element-wise against the i0, i1, ... defaults and report
// the whole live array when any element differs. Numbers without a numeric
// default always differ. Strings always differ: templates carry no string
// defaults worth comparing against.
//
// An attribute the record does not carry reports no change.
func Diff(tpl *template.Template, rec *Record, attr string) (Value, bool, error) {
	live, ok := rec.Attributes[attr]
	if !ok {
		return Value{}, false, nil
	}
	param, ok := tpl.Parameter(attr)
	if !ok {
		return Value{}, false, fmt.Errorf("%s.%s (%s): %w", rec.Name, attr, rec.Type, ErrNoParameter)
	}

	switch live.Kind {
	case KindArray:
		for i, f := range live.Arr {
			def, ok := param.Index(i)
			if !ok || !Within(f, def) {
				return Array(live.Arr...), true, nil
			}
		}
		return Value{}, false, nil
	case KindNumber:
		def, ok := param.Default()
		if ok && Within(live.Num, def) {
			return Value{}, false, nil
		}
		return live, true, nil
	case KindString:
		return live, true, nil
	}
	return Value{}, false, nil
}

// Within reports whether a and b differ by strictly less than Tolerance.
func Within(a, b float64) bool {
	return math.Abs(a-b) < Tolerance
}
