// ABOUTME: High-level tone streaming API
// ABOUTME: Wires clock, transport, oscillator and audio output together
// Package tonegen is the main entry point for running the tone stream on a
// host.
//
// A Streamer assembles the simulated serial bus and DMA channel, the
// double-buffered transport and the sine oscillator, then hands the DMA
// channel to an output sink that pulls the stream at the bus rate.
//
// Example:
//
//	s, err := tonegen.NewStreamer(tonegen.Config{
//	    Frequency: 440,
//	    Volume:    0.5,
//	})
//	err = s.Start(ctx)
//	s.SetFrequency(880)
package tonegen
