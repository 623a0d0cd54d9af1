// ABOUTME: PLL and divider derivation for the audio bus clock
// ABOUTME: Pure function of the sample rate for a fixed 2x32-bit frame
package clock

import (
	"errors"
	"fmt"
)

const (
	// ReferenceHz is the crystal feeding the audio PLL
	ReferenceHz = 24000000

	// MasterClockRatio is MCLK / sample rate
	MasterClockRatio = 256

	// Frame geometry on the bus
	FrameSlots = 2
	SlotBits   = 32

	// PLL multiplier limits (648..1296 MHz with a 24 MHz reference)
	MinMultiplier = 27
	MaxMultiplier = 54

	// Denominator used for the fractional multiplier
	FractionDenominator = 10000

	// Root clock divider ranges (3-bit prescaler, 6-bit post divider)
	DefaultPrescaler = 4
	MaxPrescaler     = 8
	MaxDivider       = 64

	// BitClockDivider is the SAI DIV field; BCLK = MCLK / ((DIV+1) * 2)
	BitClockDivider = 1
)

var (
	ErrInvalidRate   = errors.New("sample rate must be positive")
	ErrUnreachable   = errors.New("no divider combination reaches sample rate")
	ErrPLLOutOfRange = errors.New("PLL multiplier out of range")
)

// SupportedRates lists the rates the clock tree is verified against
var SupportedRates = []int{8000, 11025, 16000, 22050, 32000, 44100, 48000, 88200, 96000, 176400, 192000}

// PLL is the fractional multiplier Integer + Numerator/Denominator
type PLL struct {
	Integer     int
	Numerator   int
	Denominator int
}

// Multiplier returns the multiplier as a float
func (p PLL) Multiplier() float64 {
	return float64(p.Integer) + float64(p.Numerator)/float64(p.Denominator)
}

// OutputHz returns the PLL output frequency
func (p PLL) OutputHz() float64 {
	return ReferenceHz * p.Multiplier()
}

// Config is the derived clock tree for one sample rate
type Config struct {
	SampleRate int
	Prescaler  int // n1
	Divider    int // n2
	PLL        PLL
}

// Compute derives the clock configuration for sampleRate
func Compute(sampleRate int) (Config, error) {
	if sampleRate <= 0 {
		return Config{}, fmt.Errorf("%w: %d", ErrInvalidRate, sampleRate)
	}

	mclk := int64(sampleRate) * MasterClockRatio
	floor := int64(ReferenceHz) * MinMultiplier

	for n1 := DefaultPrescaler; n1 <= MaxPrescaler; n1++ {
		n2 := 1 + floor/(mclk*int64(n1))
		if n2 > MaxDivider {
			continue
		}

		c := float64(mclk*int64(n1)*n2) / ReferenceHz
		if c > MaxMultiplier {
			return Config{}, fmt.Errorf("%w: %.4f for %dHz", ErrPLLOutOfRange, c, sampleRate)
		}

		c0 := int(c)
		c2 := FractionDenominator
		c1 := int(c*float64(c2) - float64(c0*c2))

		return Config{
			SampleRate: sampleRate,
			Prescaler:  n1,
			Divider:    int(n2),
			PLL:        PLL{Integer: c0, Numerator: c1, Denominator: c2},
		}, nil
	}

	return Config{}, fmt.Errorf("%w: %dHz", ErrUnreachable, sampleRate)
}

// MasterClockHz is the SAI root clock after the prescaler and divider
func (c Config) MasterClockHz() float64 {
	return c.PLL.OutputHz() / float64(c.Prescaler*c.Divider)
}

// BitClockHz is the serial bit clock produced from the master clock
func (c Config) BitClockHz() float64 {
	return c.MasterClockHz() / float64((BitClockDivider+1)*2)
}

// EffectiveRate reconstructs the sample rate the hardware will actually run at
func (c Config) EffectiveRate() float64 {
	return c.MasterClockHz() / MasterClockRatio
}

// RateError is the relative error between the effective and target rates
func (c Config) RateError() float64 {
	if c.SampleRate == 0 {
		return 0
	}
	diff := c.EffectiveRate() - float64(c.SampleRate)
	if diff < 0 {
		diff = -diff
	}
	return diff / float64(c.SampleRate)
}

func (c Config) String() string {
	return fmt.Sprintf("%dHz: n1=%d n2=%d pll=%d+%d/%d (%.3fMHz, bclk %.3fMHz)",
		c.SampleRate, c.Prescaler, c.Divider,
		c.PLL.Integer, c.PLL.Numerator, c.PLL.Denominator,
		c.PLL.OutputHz()/1e6, c.BitClockHz()/1e6)
}
