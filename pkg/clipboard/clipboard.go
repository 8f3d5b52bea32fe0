// Package clipboard provides the sinks an export is delivered to.
//
// The system clipboard is the normal target; the writer and file sinks
// back the CLI's --stdout and --output flags.
package clipboard

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/atotto/clipboard"
)

// ErrUnavailable is returned by Write when the sink cannot accept text,
// for example when no clipboard utility is installed.
var ErrUnavailable = errors.New("clipboard unavailable")

// Sink receives the exported document.
type Sink interface {
	// Available reports whether Write can succeed. Callers check it before
	// doing any work so an unavailable clipboard turns the run into a no-op.
	Available() bool

	// Write delivers text.
	Write(text string) error

	// Name describes the sink for status output.
	Name() string
}

// System writes to the system clipboard.
type System struct{}

// Available implements Sink.
func (System) Available() bool { return !clipboard.Unsupported }

// Write implements Sink.
func (s System) Write(text string) error {
	if !s.Available() {
		return ErrUnavailable
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Name implements Sink.
func (System) Name() string { return "clipboard" }

// Read returns the current system clipboard text.
func (s System) Read() (string, error) {
	if !s.Available() {
		return "", ErrUnavailable
	}
	return clipboard.ReadAll()
}

// Writer writes to an io.Writer, terminated by a newline.
type Writer struct {
	W     io.Writer
	Label string
}

// Available implements Sink.
func (w Writer) Available() bool { return w.W != nil }

// Write implements Sink.
func (w Writer) Write(text string) error {
	if w.W == nil {
		return ErrUnavailable
	}
	_, err := io.WriteString(w.W, text+"\n")
	return err
}

// Name implements Sink.
func (w Writer) Name() string {
	if w.Label != "" {
		return w.Label
	}
	return "stdout"
}

// File writes to a file, creating parent directories.
type File struct {
	Path string
}

// Available implements Sink.
func (f File) Available() bool { return f.Path != "" }

// Write implements Sink.
func (f File) Write(text string) error {
	if f.Path == "" {
		return ErrUnavailable
	}
	if dir := filepath.Dir(f.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(f.Path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", f.Path, err)
	}
	return nil
}

// Name implements Sink.
func (f File) Name() string { return f.Path }

// Null is a sink that is never available.
type Null struct{}

// Available implements Sink.
func (Null) Available() bool { return false }

// Write implements Sink.
func (Null) Write(string) error { return ErrUnavailable }

// Name implements Sink.
func (Null) Name() string { return "none" }

// Memory keeps the last written text. Useful in tests.
type Memory struct {
	Text   string
	Writes int
}

// Available implements Sink.
func (*Memory) Available() bool { return true }

// Write implements Sink.
func (m *Memory) Write(text string) error {
	m.Text = text
	m.Writes++
	return nil
}

// Name implements Sink.
func (*Memory) Name() string { return "memory" }

var (
	_ Sink = System{}
	_ Sink = Writer{}
	_ Sink = File{}
	_ Sink = Null{}
	_ Sink = (*Memory)(nil)
)
