// ABOUTME: Streamer assembles and runs the tone pipeline on the host model
// ABOUTME: Exposes frequency and volume control plus live transport status
package tonegen

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Resonate-Protocol/resonate-tone/internal/sim"
	"github.com/Resonate-Protocol/resonate-tone/pkg/audio"
	"github.com/Resonate-Protocol/resonate-tone/pkg/audio/output"
	"github.com/Resonate-Protocol/resonate-tone/pkg/clock"
	"github.com/Resonate-Protocol/resonate-tone/pkg/dma"
	"github.com/Resonate-Protocol/resonate-tone/pkg/oscillator"
)

// ErrNotStarted is returned by operations that need a running stream
var ErrNotStarted = errors.New("streamer not started")

// Config configures a Streamer
type Config struct {
	// Audio format (default: audio.DefaultConfig)
	Audio audio.Config

	// Frequency in Hz (default: 440)
	Frequency float64

	// Volume is linear gain in [0,1] (default: 1). Zero selects the
	// default; start muted with SetVolume(0).
	Volume float64

	// Amplitude is the peak sample value at full volume (default: 4000)
	Amplitude int

	// Inline refills inside the boundary interrupt instead of a worker
	Inline bool

	// Output pulls the stream (default: oto with a two-block device buffer)
	Output output.Output
}

// Status is a snapshot of the running stream
type Status struct {
	Frequency  float64
	Volume     float64
	Transport  dma.Stats
	Interrupts uint64
	Flushes    uint64
	Transfers  uint64
	Uptime     time.Duration
}

// Streamer runs the tone pipeline
type Streamer struct {
	config Config

	sai       *sim.SAI
	ch        *sim.DMA
	osc       *oscillator.Oscillator
	transport *dma.Transport
	out       output.Output

	mu      sync.Mutex
	started time.Time
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewStreamer validates config and builds the pipeline without starting it
func NewStreamer(config Config) (*Streamer, error) {
	if config.Audio == (audio.Config{}) {
		config.Audio = audio.DefaultConfig()
	}
	if config.Frequency == 0 {
		config.Frequency = oscillator.DefaultFrequency
	}
	if config.Volume == 0 {
		config.Volume = oscillator.DefaultVolume
	}
	if config.Amplitude == 0 {
		config.Amplitude = oscillator.DefaultAmplitude
	}
	if config.Output == nil {
		config.Output = output.NewOto(2 * config.Audio.BlockDuration())
	}

	sai := sim.NewSAI()
	ch := sim.NewDMA(sai)
	osc := oscillator.New(config.Audio.SampleRate, config.Audio.Channels,
		oscillator.WithAmplitude(config.Amplitude),
		oscillator.WithFrequency(config.Frequency),
		oscillator.WithVolume(config.Volume),
	)

	var opts []dma.Option
	if config.Inline {
		opts = append(opts, dma.WithInline())
	}

	transport, err := dma.NewTransport(config.Audio, dma.Deps{
		Clock:       clock.NewConfigurator(sai),
		Channel:     ch,
		Transmitter: sai,
		Cache:       ch,
		Producer:    osc,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create transport: %w", err)
	}

	return &Streamer{
		config:    config,
		sai:       sai,
		ch:        ch,
		osc:       osc,
		transport: transport,
		out:       config.Output,
	}, nil
}

// Start begins the transport, the refill worker and the output. The stream
// keeps running until the process exits; cancelling ctx only stops the
// refill worker.
func (s *Streamer) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.transport.Begin(); err != nil {
		return err
	}

	ctx, s.cancel = context.WithCancel(ctx)
	if !s.transport.Inline() {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			if err := s.transport.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("Refill worker stopped: %v", err)
			}
		}()
	}

	if err := s.out.Open(s.ch, s.config.Audio.SampleRate, s.config.Audio.Channels); err != nil {
		return fmt.Errorf("failed to open output: %w", err)
	}
	s.started = time.Now()

	log.Printf("Tone streaming: %.1fHz, volume %.2f, clock %s",
		s.osc.Frequency(), s.osc.Volume(), s.transport.Stats().Clock)
	return nil
}

// SetFrequency changes the tone and returns the frequency actually stored
func (s *Streamer) SetFrequency(hz float64) float64 {
	got := s.osc.SetFrequency(hz)
	log.Printf("Frequency set to %.1fHz", got)
	return got
}

// SetVolume changes the gain and returns the volume actually stored
func (s *Streamer) SetVolume(v float64) float64 {
	got := s.osc.SetVolume(v)
	log.Printf("Volume set to %.2f", got)
	return got
}

// Status returns the current tone parameters and transport counters
func (s *Streamer) Status() Status {
	s.mu.Lock()
	started := s.started
	s.mu.Unlock()

	st := Status{
		Frequency:  s.osc.Frequency(),
		Volume:     s.osc.Volume(),
		Transport:  s.transport.Stats(),
		Interrupts: s.ch.Interrupts(),
		Flushes:    s.ch.Flushes(),
		Transfers:  s.ch.Transfers(),
	}
	if !started.IsZero() {
		st.Uptime = time.Since(started)
	}
	return st
}

// Config returns the effective configuration after defaults
func (s *Streamer) Config() Config {
	return s.config
}

// Close stops the refill worker and releases the output device. The
// simulated transfer itself has no stop operation.
func (s *Streamer) Close() error {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel == nil {
		return ErrNotStarted
	}

	err := s.out.Close()
	cancel()
	s.wg.Wait()
	return err
}
