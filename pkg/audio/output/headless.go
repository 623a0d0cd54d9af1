// ABOUTME: Device-free output that drains the stream in real time
// ABOUTME: Paces reads with a ticker so the transport sees bus-rate requests
package output

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/Resonate-Protocol/resonate-tone/pkg/audio"
)

// Headless reads chunkFrames frames every chunkFrames/sampleRate seconds and
// discards them.
type Headless struct {
	chunkFrames int

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	frames int64
	err    error
}

// NewHeadless creates a headless output; chunkFrames <= 0 uses the default
// block size.
func NewHeadless(chunkFrames int) *Headless {
	if chunkFrames <= 0 {
		chunkFrames = audio.DefaultBlockSamples
	}
	return &Headless{chunkFrames: chunkFrames}
}

func (h *Headless) Open(src io.Reader, sampleRate, channels int) error {
	if sampleRate <= 0 || channels <= 0 {
		return fmt.Errorf("invalid format %dHz %dch", sampleRate, channels)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cancel != nil {
		return ErrAlreadyOpen
	}

	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	h.done = make(chan struct{})

	period := time.Duration(h.chunkFrames) * time.Second / time.Duration(sampleRate)
	chunk := make([]byte, h.chunkFrames*channels*audio.BytesPerSample)
	go h.drain(ctx, src, chunk, channels, period)

	log.Printf("Headless output started: %dHz, %d channels, %v per chunk", sampleRate, channels, period)
	return nil
}

func (h *Headless) drain(ctx context.Context, src io.Reader, chunk []byte, channels int, period time.Duration) {
	defer close(h.done)

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	frameBytes := channels * audio.BytesPerSample
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := io.ReadFull(src, chunk)
			h.mu.Lock()
			h.frames += int64(n / frameBytes)
			if err != nil {
				h.err = err
			}
			h.mu.Unlock()
			if err != nil {
				log.Printf("Headless output stopped: %v", err)
				return
			}
		}
	}
}

// Frames is the number of whole frames consumed so far
func (h *Headless) Frames() int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.frames
}

// Close stops draining and returns the read error that ended it, if any
func (h *Headless) Close() error {
	h.mu.Lock()
	cancel, done := h.cancel, h.done
	h.mu.Unlock()
	if cancel == nil {
		return nil
	}

	cancel()
	<-done

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.err == io.EOF || h.err == io.ErrUnexpectedEOF {
		return nil
	}
	return h.err
}
