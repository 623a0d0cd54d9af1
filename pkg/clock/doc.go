// ABOUTME: Audio clock derivation and one-time bus clock programming
// ABOUTME: Computes PLL/divider settings and applies them through a Bus
// Package clock derives the audio PLL and serial bus dividers for a sample
// rate and programs them once.
//
// The bit clock is always rate × 32 bits × 2 slots, derived from a master
// clock of 256 × rate:
//
//	cfg, err := clock.Compute(48000)
//	// cfg.Prescaler=4 cfg.Divider=14 cfg.PLL={28 6720 10000}
//
// Configurator.Apply refuses to touch the clock tree while the transmitter or
// receiver is running; only the pin routing is refreshed in that case.
package clock
