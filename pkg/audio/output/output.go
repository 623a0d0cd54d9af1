// ABOUTME: Audio output interface definition
// ABOUTME: Sinks that pull interleaved 16-bit PCM from a reader
package output

import "io"

// Output is a device that consumes the serial audio stream
type Output interface {
	// Open starts pulling little-endian 16-bit PCM from src
	Open(src io.Reader, sampleRate, channels int) error

	// Close stops pulling and releases the device
	Close() error
}
