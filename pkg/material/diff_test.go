package material

import (
	"errors"
	"testing"
)

func TestDiff(t *testing.T) {
	tpl := testTemplate(t)
	tests := []struct {
		name    string
		attr    string
		live    Value
		want    Value
		changed bool
	}{
		{"scalar equal", "gain", Number(0.2), Value{}, false},
		{"scalar below tolerance", "gain", Number(0.20005), Value{}, false},
		{"scalar below tolerance negative", "gain", Number(0.19995), Value{}, false},
		{"scalar above tolerance", "gain", Number(0.2002), Number(0.2002), true},
		{"scalar far", "gain", Number(1), Number(1), true},
		{"array equal", "colorInput", Array(0.18, 0.18, 0.18), Value{}, false},
		{"array within tolerance", "colorInput", Array(0.18004, 0.17996, 0.18), Value{}, false},
		{"array one element", "colorInput", Array(0.18, 0.9, 0.18), Array(0.18, 0.9, 0.18), true},
		{"array longer than template", "colorInput", Array(0.18, 0.18, 0.18, 1), Array(0.18, 0.18, 0.18, 1), true},
		{"string always overrides", "label", String(""), String(""), true},
		{"string value", "label", String("hero"), String("hero"), true},
		{"number without default", "noDefault", Number(0), Number(0), true},
		{"unknown kind", "gain", Value{}, Value{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRecord("n", "PxrTest").SetAttr(tt.attr, tt.live)
			got, changed, err := Diff(tpl, r, tt.attr)
			if err != nil {
				t.Fatalf("Diff: %v", err)
			}
			if changed != tt.changed || !got.Equal(tt.want) {
				t.Errorf("Diff() = %+v, %v, want %+v, %v", got, changed, tt.want, tt.changed)
			}
		})
	}
}

func TestDiffReportsWholeArray(t *testing.T) {
	tpl := testTemplate(t)
	r := NewRecord("n", "PxrTest").SetAttr("colorInput", Array(0.18, 0.18, 0.5))
	got, changed, err := Diff(tpl, r, "colorInput")
	if err != nil || !changed {
		t.Fatalf("Diff() changed=%v err=%v", changed, err)
	}
	if len(got.Arr) != 3 || got.Arr[0] != 0.18 || got.Arr[1] != 0.18 || got.Arr[2] != 0.5 {
		t.Errorf("Diff() = %v, want the full live array", got.Arr)
	}
	got.Arr[0] = 7
	if r.Attributes["colorInput"].Arr[0] != 0.18 {
		t.Error("Diff result should not alias the record")
	}
}

func TestDiffIdempotent(t *testing.T) {
	tpl := testTemplate(t)
	r := NewRecord("n", "PxrTest").
		SetAttr("gain", Number(0.7)).
		SetAttr("colorInput", Array(0.18, 0.18, 0.18)).
		SetAttr("label", String("x"))
	for _, attr := range r.AttrNames() {
		v1, c1, e1 := Diff(tpl, r, attr)
		v2, c2, e2 := Diff(tpl, r, attr)
		if c1 != c2 || !v1.Equal(v2) || (e1 == nil) != (e2 == nil) {
			t.Errorf("%s: first %v/%v/%v, second %v/%v/%v", attr, v1, c1, e1, v2, c2, e2)
		}
	}
}

func TestDiffMissingParameter(t *testing.T) {
	tpl := testTemplate(t)
	r := NewRecord("n", "PxrTest").SetAttr("caching", Number(1))
	_, changed, err := Diff(tpl, r, "caching")
	if !errors.Is(err, ErrNoParameter) {
		t.Errorf("error = %v, want ErrNoParameter", err)
	}
	if changed {
		t.Error("missing parameter should not report a change")
	}
}

func TestDiffAttributeNotOnRecord(t *testing.T) {
	tpl := testTemplate(t)
	_, changed, err := Diff(tpl, NewRecord("n", "PxrTest"), "gain")
	if err != nil || changed {
		t.Errorf("Diff() = %v, %v", changed, err)
	}
}

func TestWithin(t *testing.T) {
	if !Within(1, 1) {
		t.Error("equal values")
	}
	if Within(0, 0.001) {
		t.Error("0.001 apart should differ")
	}
	if !Within(0, 0.00009) {
		t.Error("0.00009 apart should match")
	}
}
