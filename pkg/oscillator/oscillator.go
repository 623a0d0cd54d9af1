// ABOUTME: Phase-accumulator sine oscillator producing interleaved 16-bit PCM
// ABOUTME: Frequency and volume are published atomically by the controller
package oscillator

import (
	"math"
	"sync/atomic"

	"github.com/Resonate-Protocol/resonate-tone/pkg/audio"
)

const (
	DefaultFrequency = 440.0 // A4
	DefaultVolume    = 1.0

	// DefaultAmplitude is the peak sample value at full volume
	DefaultAmplitude = 4000

	// MinFrequency is the lowest frequency SetFrequency accepts
	MinFrequency = 1.0
)

// Oscillator generates a sine tone one frame at a time.
//
// Fill is called from a single refill context. SetFrequency and SetVolume may
// be called concurrently from one controller goroutine.
type Oscillator struct {
	sampleRate float64
	channels   int
	amplitude  float64

	acc float64 // phase accumulator in samples, kept below samplesPerCycle

	frequency atomic.Uint64 // float64 bits
	volume    atomic.Uint64 // float64 bits
}

// Option configures an Oscillator
type Option func(*Oscillator)

// WithAmplitude sets the peak sample value at full volume
func WithAmplitude(amplitude int) Option {
	return func(o *Oscillator) {
		if amplitude > audio.Max16Bit {
			amplitude = audio.Max16Bit
		}
		if amplitude < 0 {
			amplitude = 0
		}
		o.amplitude = float64(amplitude)
	}
}

// WithFrequency sets the initial frequency (clamped like SetFrequency)
func WithFrequency(hz float64) Option {
	return func(o *Oscillator) { o.SetFrequency(hz) }
}

// WithVolume sets the initial volume (clamped like SetVolume)
func WithVolume(v float64) Option {
	return func(o *Oscillator) { o.SetVolume(v) }
}

// New creates an oscillator for the given stream geometry
func New(sampleRate, channels int, opts ...Option) *Oscillator {
	if sampleRate <= 0 {
		sampleRate = audio.DefaultSampleRate
	}
	if channels <= 0 {
		channels = audio.DefaultChannels
	}

	o := &Oscillator{
		sampleRate: float64(sampleRate),
		channels:   channels,
		amplitude:  DefaultAmplitude,
	}
	o.frequency.Store(math.Float64bits(DefaultFrequency))
	o.volume.Store(math.Float64bits(DefaultVolume))

	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Fill writes frames interleaved frames into dst, the same value in every
// channel slot. dst must hold at least frames*channels samples.
func (o *Oscillator) Fill(dst []int16, frames int) {
	ch := o.channels
	for i := 0; i < frames; i++ {
		spc := o.SamplesPerCycle()
		vol := o.Volume()

		o.acc++
		v := o.sample(o.acc, spc, vol)

		base := i * ch
		for c := 0; c < ch; c++ {
			dst[base+c] = v
		}

		if o.acc >= spc {
			o.acc -= spc
			if o.acc >= spc {
				// frequency jumped up by more than one cycle's worth
				o.acc = math.Mod(o.acc, spc)
			}
		}
	}
}

// SampleAt evaluates the waveform at accumulator position acc with the
// current frequency and volume. It does not advance the oscillator.
func (o *Oscillator) SampleAt(acc float64) int16 {
	return o.sample(acc, o.SamplesPerCycle(), o.Volume())
}

func (o *Oscillator) sample(acc, spc, vol float64) int16 {
	phase := acc / spc
	v := math.Round(o.amplitude * math.Sin(2*math.Pi*phase) * vol)
	return audio.ClampInt16(int64(v))
}

// SamplesPerCycle is sampleRate / frequency
func (o *Oscillator) SamplesPerCycle() float64 {
	return o.sampleRate / o.Frequency()
}

// Accumulator returns the current phase accumulator
func (o *Oscillator) Accumulator() float64 {
	return o.acc
}

// Reset rewinds the phase accumulator to zero
func (o *Oscillator) Reset() {
	o.acc = 0
}

// Frequency returns the current frequency in Hz
func (o *Oscillator) Frequency() float64 {
	return math.Float64frombits(o.frequency.Load())
}

// Volume returns the current linear gain
func (o *Oscillator) Volume() float64 {
	return math.Float64frombits(o.volume.Load())
}

// SetFrequency clamps hz to [MinFrequency, sampleRate/2] and publishes it.
// NaN is ignored. Returns the frequency now in effect.
func (o *Oscillator) SetFrequency(hz float64) float64 {
	if math.IsNaN(hz) {
		return o.Frequency()
	}
	if hz < MinFrequency {
		hz = MinFrequency
	}
	if nyquist := o.sampleRate / 2; hz > nyquist {
		hz = nyquist
	}
	o.frequency.Store(math.Float64bits(hz))
	return hz
}

// SetVolume clamps v to [0, 1] and publishes it. NaN is ignored.
// Returns the volume now in effect.
func (o *Oscillator) SetVolume(v float64) float64 {
	if math.IsNaN(v) {
		return o.Volume()
	}
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	o.volume.Store(math.Float64bits(v))
	return v
}

// Channels returns the number of interleaved slots written per frame
func (o *Oscillator) Channels() int {
	return o.channels
}
