package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer is a bytes.Buffer safe for the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerStop(t *testing.T) {
	var out syncBuffer
	s := newSpinner(context.Background(), &out, "Rendering svg...")
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()
	s.Stop()

	if !strings.Contains(out.String(), "Rendering svg...") {
		t.Errorf("spinner output = %q", out.String())
	}
	if s.Cancelled() {
		t.Error("Stop should not count as cancellation")
	}
}

func TestSpinnerContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var out syncBuffer
	s := newSpinner(ctx, &out, "Rendering...")
	s.Start()
	cancel()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("spinner should report cancellation")
	}
	s.Stop()
}

func TestSpinnerStopWithError(t *testing.T) {
	var out syncBuffer
	s := newSpinner(context.Background(), &out, "Rendering...")
	s.Start()
	s.StopWithError("render failed")
	if !strings.Contains(out.String(), "render failed") {
		t.Errorf("output = %q", out.String())
	}
}
