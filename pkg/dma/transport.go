// ABOUTME: Double-buffered DMA audio transport
// ABOUTME: Programs a circular transfer and refills the vacated half on every boundary interrupt
package dma

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/Resonate-Protocol/resonate-tone/pkg/audio"
	"github.com/Resonate-Protocol/resonate-tone/pkg/clock"
	"github.com/Resonate-Protocol/resonate-tone/pkg/timing"
)

var (
	ErrAlreadyStreaming  = errors.New("transport already started")
	ErrMissingDependency = errors.New("missing transport dependency")
	ErrBufferTooLarge    = errors.New("buffer exceeds channel major loop count")
)

// Producer writes frames of interleaved samples into a buffer section
type Producer interface {
	Fill(dst []int16, frames int)
}

// ClockConfigurator programs the bus clock tree once
type ClockConfigurator interface {
	Apply(sampleRate int, onlyBitClock bool) (clock.Result, error)
}

// Stopwatch measures one refill
type Stopwatch interface {
	Reset()
	Lap() time.Duration
}

// State is the transport lifecycle position
type State int32

const (
	StateUninitialized State = iota
	StateClocked
	StateStreaming
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateClocked:
		return "clocked"
	case StateStreaming:
		return "streaming"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Deps are the collaborators a Transport drives
type Deps struct {
	Clock       ClockConfigurator
	Channel     Channel
	Transmitter Transmitter
	Cache       CacheMaintainer
	Producer    Producer
}

// Stats is a snapshot of transport counters
type Stats struct {
	State    State
	Clock    clock.Config
	Refills  uint64
	Misses   uint64 // refills that finished late or behind the hardware
	Overruns uint64 // boundaries dropped because the previous one was pending
	LastHalf Half
	Budget   time.Duration
	Latency  timing.Stats
}

// Transport owns the two-section audio buffer and the DMA descriptor that
// streams it to the bus.
type Transport struct {
	cfg  audio.Config
	deps Deps

	buf  []int16
	base uintptr
	size int // bytes

	inline bool
	sw     Stopwatch
	budget time.Duration
	ready  chan Half

	clockCfg clock.Config
	state    atomic.Int32
	refills  atomic.Uint64
	misses   atomic.Uint64
	overruns atomic.Uint64
	lastHalf atomic.Int32
}

// Option configures a Transport
type Option func(*Transport)

// WithInline refills inside the boundary interrupt instead of handing the
// half to Run.
func WithInline() Option {
	return func(t *Transport) { t.inline = true }
}

// WithStopwatch replaces the default refill stopwatch
func WithStopwatch(sw Stopwatch) Option {
	return func(t *Transport) {
		if sw != nil {
			t.sw = sw
		}
	}
}

// NewTransport validates cfg and allocates the zeroed transfer buffer
func NewTransport(cfg audio.Config, deps Deps, opts ...Option) (*Transport, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid audio config: %w", err)
	}
	switch {
	case deps.Clock == nil:
		return nil, fmt.Errorf("%w: clock", ErrMissingDependency)
	case deps.Channel == nil:
		return nil, fmt.Errorf("%w: channel", ErrMissingDependency)
	case deps.Transmitter == nil:
		return nil, fmt.Errorf("%w: transmitter", ErrMissingDependency)
	case deps.Cache == nil:
		return nil, fmt.Errorf("%w: cache", ErrMissingDependency)
	case deps.Producer == nil:
		return nil, fmt.Errorf("%w: producer", ErrMissingDependency)
	}

	if l, ok := deps.Channel.(IterationLimiter); ok && cfg.BufferSamples() > l.MaxMajorIterations() {
		return nil, fmt.Errorf("%w: %d samples, limit %d", ErrBufferTooLarge, cfg.BufferSamples(), l.MaxMajorIterations())
	}

	buf := make([]int16, cfg.BufferSamples())

	t := &Transport{
		cfg:    cfg,
		deps:   deps,
		buf:    buf,
		base:   uintptr(unsafe.Pointer(unsafe.SliceData(buf))),
		size:   len(buf) * audio.BytesPerSample,
		sw:     timing.NewStopwatch(),
		budget: cfg.BlockDuration(),
		ready:  make(chan Half, 1),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Begin configures the clock tree, programs the circular transfer and starts
// the transmitter. The stream then runs until power is removed.
func (t *Transport) Begin() error {
	if State(t.state.Load()) != StateUninitialized {
		return ErrAlreadyStreaming
	}

	res, err := t.deps.Clock.Apply(t.cfg.SampleRate, false)
	if err != nil {
		return fmt.Errorf("failed to configure bus clock: %w", err)
	}
	t.clockCfg = res.Config
	t.state.Store(int32(StateClocked))

	t.deps.Channel.Program(t.Descriptor())
	t.deps.Channel.Enable()
	t.deps.Transmitter.EnableTransmitter()
	t.deps.Channel.AttachInterrupt(t.OnTransferBoundary)

	t.state.Store(int32(StateStreaming))

	mode := "handoff"
	if t.inline {
		mode = "inline"
	}
	log.Printf("Audio transport streaming: %dHz, %d frames/block, %d channels, refill budget %v (%s)",
		t.cfg.SampleRate, t.cfg.BlockSamples, t.cfg.Channels, t.budget, mode)

	return nil
}

// Descriptor returns the circular transfer Begin programs: one 16-bit sample
// per minor loop into a fixed data register, the whole buffer per major loop,
// wrapping back to the start with interrupts at half and full.
func (t *Transport) Descriptor() Descriptor {
	return Descriptor{
		Source:          t.buf,
		SourceAddr:      t.base,
		SourceOffset:    audio.BytesPerSample,
		SourceSize:      audio.BytesPerSample,
		DestSize:        audio.BytesPerSample,
		MinorLoopBytes:  audio.BytesPerSample,
		SourceLast:      -t.size,
		DestAddr:        t.deps.Transmitter.DataRegister() + 2, // 16-bit sample in the upper half of the word
		DestOffset:      0,
		DestLast:        0,
		MajorIterations: len(t.buf),
		InterruptHalf:   true,
		InterruptMajor:  true,
		Trigger:         t.deps.Transmitter.RequestSource(),
	}
}

// OnTransferBoundary is the half/major completion interrupt handler. It never
// blocks or allocates.
func (t *Transport) OnTransferBoundary() {
	addr := t.deps.Channel.SourceAddress()
	t.deps.Channel.ClearInterrupt()

	half := RefillHalf(addr, t.base, t.size)

	if t.inline {
		t.refill(half)
		return
	}

	select {
	case t.ready <- half:
	default:
		t.overruns.Add(1)
		t.misses.Add(1)
	}
}

// Run services boundary notifications until ctx is done. Only used when the
// transport is not inline.
func (t *Transport) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case half := <-t.ready:
			t.refill(half)
		}
	}
}

func (t *Transport) refill(half Half) {
	section := t.Section(half)

	t.sw.Reset()
	t.deps.Producer.Fill(section, t.cfg.BlockSamples)
	t.deps.Cache.FlushDelete(t.sectionAddr(half), t.cfg.SectionBytes())
	elapsed := t.sw.Lap()

	t.refills.Add(1)
	t.lastHalf.Store(int32(half))

	// the hardware is already inside the section we just wrote
	behind := ReadingHalf(t.deps.Channel.SourceAddress(), t.base, t.size) == half
	if elapsed > t.budget || behind {
		t.misses.Add(1)
	}
}

// Section returns the slice backing one buffer half
func (t *Transport) Section(half Half) []int16 {
	n := t.cfg.SectionSamples()
	start := int(half) * n
	return t.buf[start : start+n]
}

func (t *Transport) sectionAddr(half Half) uintptr {
	return t.base + uintptr(int(half)*t.cfg.SectionBytes())
}

// BaseAddress is the bus address of the first sample
func (t *Transport) BaseAddress() uintptr {
	return t.base
}

// State returns the lifecycle position
func (t *Transport) State() State {
	return State(t.state.Load())
}

// Inline reports whether refills run inside the interrupt handler
func (t *Transport) Inline() bool {
	return t.inline
}

// Stats returns a snapshot of the transport counters
func (t *Transport) Stats() Stats {
	st := Stats{
		State:    t.State(),
		Refills:  t.refills.Load(),
		Misses:   t.misses.Load(),
		Overruns: t.overruns.Load(),
		LastHalf: Half(t.lastHalf.Load()),
		Budget:   t.budget,
	}
	if st.State != StateUninitialized {
		st.Clock = t.clockCfg
	}
	if r, ok := t.sw.(interface{ Stats() timing.Stats }); ok {
		st.Latency = r.Stats()
	}
	return st
}
