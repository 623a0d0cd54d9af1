// ABOUTME: Audio output tests
// ABOUTME: Verifies Output implementations and headless pacing
package output

import (
	"bytes"
	"io"
	"sync/atomic"
	"testing"
	"time"
)

func TestImplementsOutput(t *testing.T) {
	var _ Output = (*Oto)(nil)
	var _ Output = (*Headless)(nil)
}

type countingReader struct {
	n atomic.Int64
}

func (r *countingReader) Read(p []byte) (int, error) {
	r.n.Add(int64(len(p)))
	return len(p), nil
}

func TestHeadlessDrains(t *testing.T) {
	src := &countingReader{}
	h := NewHeadless(64)
	if err := h.Open(src, 48000, 2); err != nil {
		t.Fatalf("Open: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for h.Frames() < 64*4 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if err := h.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	frames := h.Frames()
	if frames < 64*4 {
		t.Fatalf("drained %d frames, want at least %d", frames, 64*4)
	}
	if frames%64 != 0 {
		t.Errorf("drained %d frames, want whole chunks of 64", frames)
	}
	if got := src.n.Load(); got != frames*4 {
		t.Errorf("read %d bytes for %d frames", got, frames)
	}
}

func TestHeadlessStopsAtEOF(t *testing.T) {
	h := NewHeadless(16)
	src := bytes.NewReader(make([]byte, 16*4*3))
	if err := h.Open(src, 48000, 2); err != nil {
		t.Fatalf("Open: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for h.Frames() < 48 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if err := h.Close(); err != nil {
		t.Errorf("Close after EOF: %v", err)
	}
	if h.Frames() != 48 {
		t.Errorf("frames = %d, want 48", h.Frames())
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, io.ErrClosedPipe }

func TestHeadlessReportsReadError(t *testing.T) {
	h := NewHeadless(16)
	if err := h.Open(failingReader{}, 48000, 2); err != nil {
		t.Fatalf("Open: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	if err := h.Close(); err != io.ErrClosedPipe {
		t.Errorf("Close = %v, want %v", err, io.ErrClosedPipe)
	}
}

func TestHeadlessOpenTwice(t *testing.T) {
	h := NewHeadless(0)
	if err := h.Open(&countingReader{}, 48000, 2); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer h.Close()
	if err := h.Open(&countingReader{}, 48000, 2); err != ErrAlreadyOpen {
		t.Errorf("second Open = %v, want ErrAlreadyOpen", err)
	}
}

func TestHeadlessRejectsFormat(t *testing.T) {
	if err := NewHeadless(0).Open(&countingReader{}, 0, 2); err == nil {
		t.Error("expected error for zero sample rate")
	}
}

func TestHeadlessCloseWithoutOpen(t *testing.T) {
	if err := NewHeadless(0).Close(); err != nil {
		t.Errorf("Close = %v", err)
	}
}

func TestPlayerBufferBytes(t *testing.T) {
	tests := []struct {
		name     string
		d        time.Duration
		rate     int
		channels int
		expected int
	}{
		{"two blocks", 2 * 128 * time.Second / 48000, 48000, 2, 1024},
		{"ten ms", 10 * time.Millisecond, 48000, 2, 1920},
		{"unset", 0, 48000, 2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := playerBufferBytes(tt.d, tt.rate, tt.channels); got != tt.expected {
				t.Errorf("playerBufferBytes = %d, want %d", got, tt.expected)
			}
		})
	}
}
