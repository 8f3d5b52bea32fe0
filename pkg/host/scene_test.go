package host

import (
	"errors"
	"testing"
)

func TestParsePlug(t *testing.T) {
	tests := []struct {
		in      string
		want    Plug
		wantErr bool
	}{
		{in: "NWM_UP.resultRGB", want: Plug{Node: "NWM_UP", Attr: "resultRGB"}},
		{in: "place1.uvCoord.uCoord", want: Plug{Node: "place1", Attr: "uvCoord.uCoord"}},
		{in: "noattr", wantErr: true},
		{in: ".attr", wantErr: true},
		{in: "node.", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePlug(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePlug(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPlug) {
					t.Errorf("error = %v, want ErrInvalidPlug", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParsePlug(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
			if got.String() != tt.in {
				t.Errorf("String() = %q, want %q", got.String(), tt.in)
			}
		})
	}
}

func TestAttrTypeKnown(t *testing.T) {
	for _, typ := range []AttrType{TypeFloat, TypeDouble, TypeInt, TypeBool, TypeFloat3, TypeDouble3, TypeEnum, TypeString} {
		if !typ.Known() {
			t.Errorf("%s should be known", typ)
		}
	}
	for _, typ := range []AttrType{"message", "matrix", "float2", ""} {
		if typ.Known() {
			t.Errorf("%q should not be known", typ)
		}
	}
}
