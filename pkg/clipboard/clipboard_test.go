package clipboard

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	s := Writer{W: &buf}
	if !s.Available() || s.Name() != "stdout" {
		t.Errorf("Available=%v Name=%q", s.Available(), s.Name())
	}
	if err := s.Write("<katana/>"); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "<katana/>\n" {
		t.Errorf("wrote %q", buf.String())
	}
	if err := (Writer{}).Write("x"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("nil writer error = %v", err)
	}
	if (Writer{W: &buf, Label: "stderr"}).Name() != "stderr" {
		t.Error("label not used")
	}
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "network.xml")
	s := File{Path: path}
	if err := s.Write("<katana/>"); err != nil {
		t.Fatalf("Write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "<katana/>" {
		t.Errorf("file = %q", data)
	}
	if s.Name() != path {
		t.Errorf("Name() = %q", s.Name())
	}
	if (File{}).Available() {
		t.Error("empty path should be unavailable")
	}
}

func TestNullAndMemory(t *testing.T) {
	if (Null{}).Available() {
		t.Error("Null should be unavailable")
	}
	if err := (Null{}).Write("x"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Null.Write error = %v", err)
	}

	m := &Memory{}
	_ = m.Write("a")
	_ = m.Write("b")
	if m.Text != "b" || m.Writes != 2 {
		t.Errorf("Memory = %+v", m)
	}
}
