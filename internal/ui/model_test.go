// ABOUTME: Tests for TUI model and state management
// ABOUTME: Tests key bindings, status refresh and rendering
package ui

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/Resonate-Protocol/resonate-tone/pkg/audio"
	"github.com/Resonate-Protocol/resonate-tone/pkg/dma"
	"github.com/Resonate-Protocol/resonate-tone/pkg/timing"
	"github.com/Resonate-Protocol/resonate-tone/pkg/tonegen"
	tea "github.com/charmbracelet/bubbletea"
)

type fakeTone struct {
	freq    float64
	volume  float64
	refills uint64
}

func (f *fakeTone) SetFrequency(hz float64) float64 {
	if hz < 1 {
		hz = 1
	}
	if hz > 24000 {
		hz = 24000
	}
	f.freq = hz
	return hz
}

func (f *fakeTone) SetVolume(v float64) float64 {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	f.volume = v
	return v
}

func (f *fakeTone) Status() tonegen.Status {
	return tonegen.Status{
		Frequency: f.freq,
		Volume:    f.volume,
		Transport: dma.Stats{State: dma.StateStreaming, Refills: f.refills},
	}
}

func newTestModel() (Model, *fakeTone) {
	tone := &fakeTone{freq: 440, volume: 0.5}
	return NewModel(tone, "", audio.DefaultConfig(), ""), tone
}

func press(m Model, key tea.KeyType) Model {
	next, _ := m.Update(tea.KeyMsg{Type: key})
	return next.(Model)
}

func pressRune(m Model, r rune) (Model, tea.Cmd) {
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	return next.(Model), cmd
}

func TestNewModel(t *testing.T) {
	model, _ := newTestModel()

	if model.name != defaultServerName {
		t.Errorf("expected default name %q, got %q", defaultServerName, model.name)
	}
	if model.status.Frequency != 440 {
		t.Errorf("expected initial frequency 440, got %v", model.status.Frequency)
	}
	if model.showDebug {
		t.Error("expected showDebug to be false initially")
	}
	if model.Init() == nil {
		t.Error("Init should start the refresh ticker")
	}
}

func TestFrequencyKeys(t *testing.T) {
	tests := []struct {
		name string
		key  tea.KeyType
		want float64
	}{
		{"right", tea.KeyRight, 450},
		{"left", tea.KeyLeft, 430},
		{"shift right", tea.KeyShiftRight, 540},
		{"shift left", tea.KeyShiftLeft, 340},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model, tone := newTestModel()
			model = press(model, tt.key)
			if model.status.Frequency != tt.want {
				t.Errorf("model frequency = %v, want %v", model.status.Frequency, tt.want)
			}
			if tone.freq != tt.want {
				t.Errorf("tone frequency = %v, want %v", tone.freq, tt.want)
			}
		})
	}
}

func TestFrequencyClampedByTone(t *testing.T) {
	model, tone := newTestModel()
	tone.freq = 5
	model.status.Frequency = 5

	model = press(model, tea.KeyLeft)
	if model.status.Frequency != 1 {
		t.Errorf("expected frequency to stop at 1, got %v", model.status.Frequency)
	}
}

func TestVolumeKeys(t *testing.T) {
	model, tone := newTestModel()

	model = press(model, tea.KeyUp)
	if math.Abs(model.status.Volume-0.55) > 1e-9 {
		t.Errorf("expected volume 0.55, got %v", model.status.Volume)
	}

	for i := 0; i < 30; i++ {
		model = press(model, tea.KeyUp)
	}
	if model.status.Volume != 1 || tone.volume != 1 {
		t.Errorf("expected volume capped at 1, got %v", model.status.Volume)
	}

	for i := 0; i < 30; i++ {
		model = press(model, tea.KeyDown)
	}
	if model.status.Volume != 0 {
		t.Errorf("expected volume floored at 0, got %v", model.status.Volume)
	}
}

func TestDebugToggle(t *testing.T) {
	model, _ := newTestModel()

	model, _ = pressRune(model, 'd')
	if !model.showDebug {
		t.Error("expected showDebug after d")
	}
	if !strings.Contains(model.View(), "DEBUG") {
		t.Error("debug section not rendered")
	}

	model, _ = pressRune(model, 'd')
	if model.showDebug {
		t.Error("expected showDebug off after second d")
	}
}

func TestQuit(t *testing.T) {
	model, _ := newTestModel()

	model, cmd := pressRune(model, 'q')
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if !model.quitting {
		t.Error("expected quitting state")
	}
	if !strings.Contains(model.View(), "Shutting down") {
		t.Error("expected shutdown view")
	}
}

func TestTickRefreshesStatus(t *testing.T) {
	model, tone := newTestModel()
	tone.refills = 42

	next, cmd := model.Update(tickMsg(time.Now()))
	model = next.(Model)
	if model.status.Transport.Refills != 42 {
		t.Errorf("expected refills 42, got %d", model.status.Transport.Refills)
	}
	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}
}

func TestStatusMsg(t *testing.T) {
	model, _ := newTestModel()

	next, _ := model.Update(StatusMsg{Frequency: 1000, Volume: 0.25})
	model = next.(Model)
	if model.status.Frequency != 1000 || model.status.Volume != 0.25 {
		t.Errorf("status not applied: %+v", model.status)
	}
}

func TestWindowSize(t *testing.T) {
	model, _ := newTestModel()
	next, _ := model.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	model = next.(Model)
	if model.width != 100 || model.height != 40 {
		t.Errorf("size = %dx%d", model.width, model.height)
	}
}

func TestView(t *testing.T) {
	model, _ := newTestModel()
	model.controlAddr = "localhost:8928"
	model.status.Transport.Misses = 3
	model.status.Transport.Budget = 2666 * time.Microsecond
	model.status.Transport.Latency = timing.Stats{Last: 50 * time.Microsecond, Max: 80 * time.Microsecond}

	view := model.View()
	for _, want := range []string{"440.0 Hz", "48000Hz Stereo", "misses 3", "ws://localhost:8928/tone", "streaming"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestRenderBar(t *testing.T) {
	tests := []struct {
		value, limit float64
		want         string
	}{
		{0, 1, "░░░░"},
		{0.5, 1, "██░░"},
		{1, 1, "████"},
		{2, 1, "████"},
		{-1, 1, "░░░░"},
		{1, 0, "░░░░"},
	}
	for _, tt := range tests {
		if got := renderBar(tt.value, tt.limit, 4); got != tt.want {
			t.Errorf("renderBar(%v, %v) = %q, want %q", tt.value, tt.limit, got, tt.want)
		}
	}
}
