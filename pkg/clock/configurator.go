// ABOUTME: One-time programming of the audio clock tree and frame format
// ABOUTME: Skips clock changes while the bus is already transmitting or receiving
package clock

import (
	"fmt"
	"log"
)

// Pins selects which clock signals are routed to their pads
type Pins struct {
	MasterClock bool // MCLK
	FrameSync   bool // LRCLK
	BitClock    bool // BCLK
}

// FrameFormat describes one direction of the serial audio frame
type FrameFormat struct {
	Words           int  // slots per frame
	SyncWidth       int  // frame sync width in bit clocks
	WordBits        int  // bits per slot (first and subsequent words)
	FirstBit        int  // bit index shifted first
	MSBFirst        bool
	EarlyFrameSync  bool // sync asserted one bit before the first word
	SyncActiveLow   bool
	SyncInternal    bool // frame sync generated internally
	BitClockFalling bool // data driven on the falling edge
	BitClockMaster  bool // bit clock generated internally
	BitClockDivider int
	MasterSelect    int // which MCLK feeds the bit clock divider
	Synchronous     bool
	FIFOWatermark   int
}

// DefaultFrameFormat is the 2 x 32-bit I2S frame used for both directions
func DefaultFrameFormat() FrameFormat {
	return FrameFormat{
		Words:           FrameSlots,
		SyncWidth:       SlotBits,
		WordBits:        SlotBits,
		FirstBit:        SlotBits - 1,
		MSBFirst:        true,
		EarlyFrameSync:  true,
		SyncActiveLow:   true,
		SyncInternal:    true,
		BitClockFalling: true,
		BitClockMaster:  true,
		BitClockDivider: BitClockDivider,
		MasterSelect:    1,
		FIFOWatermark:   1,
	}
}

// Bus is the hardware surface the configurator programs
type Bus interface {
	TransmitterEnabled() bool
	ReceiverEnabled() bool
	EnableClockGate()
	SetPLL(pll PLL)
	SetRootClock(prescaler, divider int)
	SelectMasterClock()
	RoutePins(pins Pins)
	SetFrameFormat(tx, rx FrameFormat)
}

// Result reports what Apply did
type Result struct {
	Config  Config
	Applied bool // false when the bus was already active and only pins changed
}

// Configurator programs a Bus once
type Configurator struct {
	bus Bus
}

// NewConfigurator creates a configurator for bus
func NewConfigurator(bus Bus) *Configurator {
	return &Configurator{bus: bus}
}

// Apply derives the clock tree for sampleRate and programs it. When
// onlyBitClock is set, MCLK and LRCLK stay unrouted.
func (c *Configurator) Apply(sampleRate int, onlyBitClock bool) (Result, error) {
	cfg, err := Compute(sampleRate)
	if err != nil {
		return Result{}, fmt.Errorf("failed to compute clock config: %w", err)
	}

	c.bus.EnableClockGate()

	if c.bus.TransmitterEnabled() || c.bus.ReceiverEnabled() {
		if !onlyBitClock {
			c.bus.RoutePins(Pins{MasterClock: true, FrameSync: true})
		}
		log.Printf("Audio bus already active, leaving clock tree untouched")
		return Result{Config: cfg, Applied: false}, nil
	}

	c.bus.SetPLL(cfg.PLL)
	c.bus.SetRootClock(cfg.Prescaler, cfg.Divider)
	c.bus.SelectMasterClock()
	c.bus.RoutePins(Pins{
		MasterClock: !onlyBitClock,
		FrameSync:   !onlyBitClock,
		BitClock:    true,
	})

	tx := DefaultFrameFormat()
	tx.Synchronous = true
	rx := DefaultFrameFormat()
	c.bus.SetFrameFormat(tx, rx)

	log.Printf("Audio clock configured: %s", cfg)

	return Result{Config: cfg, Applied: true}, nil
}
