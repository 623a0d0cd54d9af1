// ABOUTME: Audio output package for playing the generated stream
// ABOUTME: Provides the Output interface with Oto and headless implementations
// Package output provides sinks for the serial audio stream.
//
// A sink pulls bytes the way the serial transmitter pulls words from its FIFO,
// so each read drives the DMA model forward.
//
// Example:
//
//	out := output.NewOto(0)
//	err := out.Open(dmaChannel, 48000, 2)
package output
