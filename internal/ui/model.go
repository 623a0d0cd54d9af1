// ABOUTME: Bubbletea model for the tone generator TUI
// ABOUTME: Defines display state, key bindings and status refresh
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/Resonate-Protocol/resonate-tone/internal/version"
	"github.com/Resonate-Protocol/resonate-tone/pkg/audio"
	"github.com/Resonate-Protocol/resonate-tone/pkg/tonegen"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	refreshInterval = 250 * time.Millisecond

	frequencyStep     = 10.0
	frequencyBigStep  = 100.0
	volumeStep        = 0.05
	volumeBarWidth    = 20
	latencyBarWidth   = 20
	defaultServerName = "local"
)

// Tone is the stream the TUI controls
type Tone interface {
	SetFrequency(hz float64) float64
	SetVolume(v float64) float64
	Status() tonegen.Status
}

// Model represents the TUI state
type Model struct {
	tone  Tone
	name  string
	audio audio.Config

	// Latest snapshot
	status tonegen.Status

	// Control endpoint, empty when disabled
	controlAddr string

	showDebug bool
	quitting  bool

	width  int
	height int
}

// StatusMsg carries a fresh status snapshot
type StatusMsg tonegen.Status

type tickMsg time.Time

// Init starts the refresh ticker
func (m Model) Init() tea.Cmd {
	return tickEvery()
}

func tickEvery() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tickMsg:
		m.applyStatus(StatusMsg(m.tone.Status()))
		return m, tickEvery()
	case StatusMsg:
		m.applyStatus(msg)
	}

	return m, nil
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "right":
		m.status.Frequency = m.tone.SetFrequency(m.status.Frequency + frequencyStep)
	case "left":
		m.status.Frequency = m.tone.SetFrequency(m.status.Frequency - frequencyStep)
	case "shift+right":
		m.status.Frequency = m.tone.SetFrequency(m.status.Frequency + frequencyBigStep)
	case "shift+left":
		m.status.Frequency = m.tone.SetFrequency(m.status.Frequency - frequencyBigStep)
	case "up":
		m.status.Volume = m.tone.SetVolume(m.status.Volume + volumeStep)
	case "down":
		m.status.Volume = m.tone.SetVolume(m.status.Volume - volumeStep)
	case "d":
		m.showDebug = !m.showDebug
	}

	return m, nil
}

// applyStatus updates model from a status snapshot
func (m *Model) applyStatus(msg StatusMsg) {
	m.status = tonegen.Status(msg)
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).MarginBottom(1)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	warnStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220"))
	helpStyle   = lipgloss.NewStyle().Faint(true)
)

// View renders the TUI
func (m Model) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render(version.String()))
	b.WriteString("\n\n")

	field(&b, "Name: ", m.name)
	if m.controlAddr != "" {
		field(&b, "Control: ", "ws://"+m.controlAddr+"/tone")
	}
	field(&b, "Format: ", fmt.Sprintf("%dHz %s 16-bit, %d frames/block",
		m.audio.SampleRate, channelName(m.audio.Channels), m.audio.BlockSamples))
	field(&b, "Clock: ", m.status.Transport.Clock.String())
	field(&b, "State: ", m.status.Transport.State.String())
	b.WriteString("\n")

	field(&b, "Frequency: ", fmt.Sprintf("%.1f Hz", m.status.Frequency))
	field(&b, "Volume:    ", fmt.Sprintf("[%s] %3.0f%%",
		renderBar(m.status.Volume, 1, volumeBarWidth), m.status.Volume*100))
	b.WriteString("\n")

	b.WriteString(m.renderStats())

	if m.showDebug {
		b.WriteString(m.renderDebug())
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("←/→ ±10Hz  shift+←/→ ±100Hz  ↑/↓ volume  d debug  q quit"))

	return b.String()
}

// renderStats renders the refill counters and latency against the budget
func (m Model) renderStats() string {
	var b strings.Builder
	tr := m.status.Transport

	counters := fmt.Sprintf("refills %d  misses %d  overruns %d", tr.Refills, tr.Misses, tr.Overruns)
	b.WriteString(headerStyle.Render("Stats: "))
	if tr.Misses > 0 {
		b.WriteString(warnStyle.Render(counters))
	} else {
		b.WriteString(valueStyle.Render(counters))
	}
	b.WriteString("\n")

	lat := tr.Latency
	field(&b, "Refill: ", fmt.Sprintf("[%s] last %v  max %v  budget %v",
		renderBar(float64(lat.Max), float64(tr.Budget), latencyBarWidth),
		lat.Last, lat.Max, tr.Budget))
	field(&b, "Uptime: ", m.status.Uptime.Round(time.Second).String())

	return b.String()
}

// renderDebug renders bus level counters
func (m Model) renderDebug() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(warnStyle.Render("DEBUG"))
	b.WriteString("\n")
	field(&b, "  Interrupts: ", fmt.Sprintf("%d", m.status.Interrupts))
	field(&b, "  Flushes:    ", fmt.Sprintf("%d", m.status.Flushes))
	field(&b, "  Transfers:  ", fmt.Sprintf("%d", m.status.Transfers))
	field(&b, "  Last half:  ", m.status.Transport.LastHalf.String())
	field(&b, "  Mean refill:", " "+m.status.Transport.Latency.Mean.String())
	return b.String()
}

func field(b *strings.Builder, label, value string) {
	b.WriteString(headerStyle.Render(label))
	b.WriteString(valueStyle.Render(value))
	b.WriteString("\n")
}

// renderBar draws value/limit as a bar of width cells
func renderBar(value, limit float64, width int) string {
	filled := 0
	if limit > 0 {
		filled = int(value / limit * float64(width))
	}
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func channelName(channels int) string {
	if channels == 1 {
		return "Mono"
	}
	return "Stereo"
}
