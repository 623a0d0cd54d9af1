// ABOUTME: Audio fundamentals package providing stream configuration
// ABOUTME: Defines Config, PCM constants and 16-bit packing helpers
// Package audio provides the fixed stream geometry shared by the clock,
// transport and oscillator packages.
//
// A Config is validated once at startup and never changes afterwards:
//
//	cfg := audio.Config{
//	    SampleRate:   48000,
//	    BlockSamples: 128,
//	    Channels:     2,
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Deadline for one refill
//	budget := cfg.BlockDuration()
package audio
