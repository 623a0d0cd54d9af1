// ABOUTME: TUI initialization and control
// ABOUTME: Wraps the bubbletea program for the tone generator
package ui

import (
	"sync"

	"github.com/Resonate-Protocol/resonate-tone/pkg/audio"
	tea "github.com/charmbracelet/bubbletea"
)

// TUI manages the terminal UI
type TUI struct {
	mu      sync.Mutex
	program *tea.Program
}

// NewModel creates a TUI model for tone
func NewModel(tone Tone, name string, cfg audio.Config, controlAddr string) Model {
	if name == "" {
		name = defaultServerName
	}
	return Model{
		tone:        tone,
		name:        name,
		audio:       cfg,
		status:      tone.Status(),
		controlAddr: controlAddr,
	}
}

// NewTUI creates a TUI
func NewTUI() *TUI {
	return &TUI{}
}

// Run shows the TUI until the user quits or Stop is called
func (t *TUI) Run(m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	t.mu.Lock()
	t.program = p
	t.mu.Unlock()

	_, err := p.Run()
	return err
}

// Stop stops the TUI
func (t *TUI) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.program != nil {
		t.program.Quit()
	}
}
