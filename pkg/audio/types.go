// ABOUTME: Audio stream configuration and sample constants
// ABOUTME: Validates block, channel and rate settings before any buffer is allocated
package audio

import (
	"errors"
	"fmt"
	"time"
)

const (
	// 16-bit PCM range
	Max16Bit = 32767
	Min16Bit = -32768

	// BytesPerSample is the size of one 16-bit PCM sample on the bus
	BytesPerSample = 2

	// Sections is the number of buffer halves the transport alternates between
	Sections = 2

	// CacheLineSize is the data cache line of the target core. Buffer sections
	// must cover whole lines so a flush never touches the other section.
	CacheLineSize = 32

	DefaultSampleRate   = 48000
	DefaultBlockSamples = 128
	DefaultChannels     = 2
)

var (
	ErrInvalidSampleRate = errors.New("sample rate must be positive")
	ErrInvalidBlockSize  = errors.New("block size must be positive")
	ErrInvalidChannels   = errors.New("channel count must be positive")
	ErrUnalignedSection  = errors.New("buffer section does not cover whole cache lines")
)

// Config describes the fixed stream geometry chosen at initialization
type Config struct {
	SampleRate   int // frames per second
	BlockSamples int // frames per buffer section
	Channels     int // interleaved samples per frame
}

// DefaultConfig returns 48kHz stereo with 128-frame blocks
func DefaultConfig() Config {
	return Config{
		SampleRate:   DefaultSampleRate,
		BlockSamples: DefaultBlockSamples,
		Channels:     DefaultChannels,
	}
}

// Validate rejects non-positive values and sections that split a cache line
func (c Config) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSampleRate, c.SampleRate)
	}
	if c.BlockSamples <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidBlockSize, c.BlockSamples)
	}
	if c.Channels <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidChannels, c.Channels)
	}
	if c.SectionBytes()%CacheLineSize != 0 {
		return fmt.Errorf("%w: %d bytes per section, line is %d",
			ErrUnalignedSection, c.SectionBytes(), CacheLineSize)
	}
	return nil
}

// SectionSamples is the number of int16 values in one buffer half
func (c Config) SectionSamples() int {
	return c.BlockSamples * c.Channels
}

// SectionBytes is the byte size of one buffer half
func (c Config) SectionBytes() int {
	return c.SectionSamples() * BytesPerSample
}

// BufferSamples is the number of int16 values in the whole transfer buffer
func (c Config) BufferSamples() int {
	return c.SectionSamples() * Sections
}

// BlockDuration is the playback time of one section, which is also the
// deadline for refilling the other one.
func (c Config) BlockDuration() time.Duration {
	return time.Duration(c.BlockSamples) * time.Second / time.Duration(c.SampleRate)
}

// PutInt16LE packs samples little-endian into dst and returns bytes written
func PutInt16LE(dst []byte, samples []int16) int {
	n := len(dst) / BytesPerSample
	if n > len(samples) {
		n = len(samples)
	}
	for i := 0; i < n; i++ {
		v := uint16(samples[i])
		dst[i*2] = byte(v)
		dst[i*2+1] = byte(v >> 8)
	}
	return n * BytesPerSample
}

// ClampInt16 saturates a wide sample into the 16-bit range
func ClampInt16(v int64) int16 {
	if v > Max16Bit {
		return Max16Bit
	}
	if v < Min16Bit {
		return Min16Bit
	}
	return int16(v)
}
