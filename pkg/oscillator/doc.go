// ABOUTME: Sine oscillator package for the tone stream
// ABOUTME: Documents the phase accumulator and concurrency contract
// Package oscillator generates the synthesized tone as interleaved 16-bit
// PCM. The same value is written into every channel slot of a frame.
//
// The phase accumulator counts samples and is reduced by subtracting one
// cycle length, so fractional phase survives the wrap:
//
//	osc := oscillator.New(48000, 2, oscillator.WithFrequency(440))
//	osc.Fill(section, 128)
//
// Frequency and volume are atomics. They are clamped by the setters, which
// run in the controller, never inside Fill.
package oscillator
