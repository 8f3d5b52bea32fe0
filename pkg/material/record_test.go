package material

import (
	"slices"
	"testing"

	"github.com/matzehuels/m2k/pkg/host"
)

func TestValueString(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{Number(1), "1"},
		{Number(0.5), "0.5"},
		{Number(-0.25), "-0.25"},
		{Number(1e6), "1000000"},
		{String("/tex/a.tex"), "/tex/a.tex"},
		{Array(1, 0.5, 0), "1 0.5 0"},
		{Value{}, ""},
	}
	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("%v.String() = %q, want %q", tt.v.Kind, got, tt.want)
		}
	}
}

func TestValueEqual(t *testing.T) {
	if !Array(1, 2).Equal(Array(1, 2)) {
		t.Error("equal arrays")
	}
	if Array(1, 2).Equal(Array(1, 2, 3)) {
		t.Error("length mismatch")
	}
	if Number(1).Equal(String("1")) {
		t.Error("kind mismatch")
	}
	if !(Value{}).Equal(Value{}) || !(Value{}).IsZero() {
		t.Error("zero values")
	}
}

func TestArrayCopies(t *testing.T) {
	src := []float64{1, 2, 3}
	v := Array(src...)
	src[0] = 9
	if v.Arr[0] != 1 {
		t.Error("Array should copy its input")
	}
}

func TestRecordOrder(t *testing.T) {
	r := NewRecord("n", "PxrTest")
	r.SetAttr("b", Number(1)).SetAttr("a", Number(2)).SetAttr("b", Number(3))
	if got := r.AttrNames(); !slices.Equal(got, []string{"b", "a"}) {
		t.Errorf("AttrNames() = %v", got)
	}
	if r.Attributes["b"].Num != 3 {
		t.Error("SetAttr should overwrite")
	}

	r.SetInput("x", host.Plug{Node: "up", Attr: "o"}, false)
	r.SetInput("y", host.Plug{Node: "other", Attr: "o"}, false)
	r.SetInput("z", host.Plug{Node: "up", Attr: "p"}, true)
	if got := r.InputNames(); !slices.Equal(got, []string{"x", "y", "z"}) {
		t.Errorf("InputNames() = %v", got)
	}
	if got := r.Sources(); !slices.Equal(got, []string{"up", "other"}) {
		t.Errorf("Sources() = %v", got)
	}
	if r.FullPath != "|n" {
		t.Errorf("FullPath = %q", r.FullPath)
	}
}
