// ABOUTME: Host model of the synchronous audio interface and its clock tree
// ABOUTME: Records programmed clock state so the stream can run without hardware
package sim

import (
	"sync"
	"sync/atomic"

	"github.com/Resonate-Protocol/resonate-tone/pkg/clock"
)

const (
	// TransmitDataRegister mirrors the SAI1 TDR0 address on the target
	TransmitDataRegister uintptr = 0x40384020

	// RequestSAI1Tx mirrors the DMAMUX source for SAI1 transmit
	RequestSAI1Tx uint8 = 20
)

// SAIState is a snapshot of everything the clock configurator programmed
type SAIState struct {
	ClockGated     bool
	PLL            clock.PLL
	Prescaler      int
	Divider        int
	MasterSelected bool
	Pins           clock.Pins
	TX, RX         clock.FrameFormat
	PLLWrites      int
	Transmitting   bool
	Receiving      bool
}

// SAI implements clock.Bus and dma.Transmitter in memory
type SAI struct {
	mu    sync.Mutex
	state SAIState

	tx atomic.Bool
	rx atomic.Bool
}

// NewSAI creates an idle interface
func NewSAI() *SAI {
	return &SAI{}
}

func (s *SAI) TransmitterEnabled() bool { return s.tx.Load() }
func (s *SAI) ReceiverEnabled() bool    { return s.rx.Load() }

func (s *SAI) EnableClockGate() {
	s.mu.Lock()
	s.state.ClockGated = true
	s.mu.Unlock()
}

func (s *SAI) SetPLL(pll clock.PLL) {
	s.mu.Lock()
	s.state.PLL = pll
	s.state.PLLWrites++
	s.mu.Unlock()
}

func (s *SAI) SetRootClock(prescaler, divider int) {
	s.mu.Lock()
	s.state.Prescaler = prescaler
	s.state.Divider = divider
	s.mu.Unlock()
}

func (s *SAI) SelectMasterClock() {
	s.mu.Lock()
	s.state.MasterSelected = true
	s.mu.Unlock()
}

// RoutePins only ever adds routes, like writing a pad mux
func (s *SAI) RoutePins(pins clock.Pins) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := &s.state.Pins
	p.MasterClock = p.MasterClock || pins.MasterClock
	p.FrameSync = p.FrameSync || pins.FrameSync
	p.BitClock = p.BitClock || pins.BitClock
}

func (s *SAI) SetFrameFormat(tx, rx clock.FrameFormat) {
	s.mu.Lock()
	s.state.TX = tx
	s.state.RX = rx
	s.mu.Unlock()
}

func (s *SAI) DataRegister() uintptr { return TransmitDataRegister }
func (s *SAI) RequestSource() uint8  { return RequestSAI1Tx }

// EnableTransmitter starts both directions; the receiver supplies the bit
// clock the transmitter synchronizes to.
func (s *SAI) EnableTransmitter() {
	s.rx.Store(true)
	s.tx.Store(true)
}

// State returns a snapshot of the programmed configuration
func (s *SAI) State() SAIState {
	s.mu.Lock()
	st := s.state
	s.mu.Unlock()
	st.Transmitting = s.tx.Load()
	st.Receiving = s.rx.Load()
	return st
}
