// ABOUTME: Tests for the tonectl commands
// ABOUTME: Runs the cli app against an in-process control server
package main

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/Resonate-Protocol/resonate-tone/internal/control"
	"github.com/Resonate-Protocol/resonate-tone/pkg/audio"
	"github.com/Resonate-Protocol/resonate-tone/pkg/dma"
	"github.com/Resonate-Protocol/resonate-tone/pkg/tonegen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTone struct {
	mu     sync.Mutex
	freq   float64
	volume float64
}

func (f *fakeTone) SetFrequency(hz float64) float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.freq = hz
	return hz
}

func (f *fakeTone) SetVolume(v float64) float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.volume = v
	return v
}

func (f *fakeTone) Status() tonegen.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return tonegen.Status{
		Frequency: f.freq,
		Volume:    f.volume,
		Transport: dma.Stats{State: dma.StateStreaming, Refills: 7},
	}
}

func startServer(t *testing.T, tone *fakeTone) string {
	t.Helper()
	srv, err := control.NewServer(control.Config{Name: "Bench"}, tone, tonegen.Config{Audio: audio.DefaultConfig()})
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return strings.TrimPrefix(ts.URL, "http://")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := newApp(&out).Run(append([]string{"tonectl"}, args...))
	return out.String(), err
}

func TestStatusCommand(t *testing.T) {
	addr := startServer(t, &fakeTone{freq: 440, volume: 1})

	out, err := run(t, "--addr", addr, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Bench: 440.0 Hz, volume 1.00, streaming")
	assert.Contains(t, out, "refills  7")
}

func TestSetCommand(t *testing.T) {
	tone := &fakeTone{freq: 440, volume: 1}
	addr := startServer(t, tone)

	out, err := run(t, "--addr", addr, "set", "--freq", "880", "--volume", "0.25")
	require.NoError(t, err)
	assert.Contains(t, out, "880.0 Hz, volume 0.25")

	tone.mu.Lock()
	defer tone.mu.Unlock()
	assert.Equal(t, 880.0, tone.freq)
	assert.Equal(t, 0.25, tone.volume)
}

func TestSetOnlyVolume(t *testing.T) {
	tone := &fakeTone{freq: 440, volume: 1}
	addr := startServer(t, tone)

	_, err := run(t, "--addr", addr, "set", "--volume", "0")
	require.NoError(t, err)

	tone.mu.Lock()
	defer tone.mu.Unlock()
	assert.Equal(t, 440.0, tone.freq, "frequency should be left alone")
	assert.Equal(t, 0.0, tone.volume)
}

func TestSetRequiresAChange(t *testing.T) {
	addr := startServer(t, &fakeTone{})

	_, err := run(t, "--addr", addr, "set")
	assert.ErrorIs(t, err, errNoChange)
}

func TestUnreachableGenerator(t *testing.T) {
	_, err := run(t, "--addr", "127.0.0.1:1", "status")
	assert.Error(t, err)
}
