// ABOUTME: Tests for the sine oscillator
// ABOUTME: Tests periodicity, phase wrap continuity, volume scaling and clamping
package oscillator

import (
	"math"
	"testing"
)

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func peak(samples []int16) int {
	m := 0
	for _, s := range samples {
		if a := absInt(int(s)); a > m {
			m = a
		}
	}
	return m
}

func TestDefaults(t *testing.T) {
	o := New(48000, 2)

	if o.Frequency() != DefaultFrequency {
		t.Errorf("expected frequency %v, got %v", DefaultFrequency, o.Frequency())
	}
	if o.Volume() != DefaultVolume {
		t.Errorf("expected volume %v, got %v", DefaultVolume, o.Volume())
	}
	if o.Channels() != 2 {
		t.Errorf("expected 2 channels, got %d", o.Channels())
	}
}

func TestEndToEnd440At48k(t *testing.T) {
	o := New(48000, 2, WithFrequency(440), WithVolume(1.0))
	spc := o.SamplesPerCycle()

	if got := o.SampleAt(0); absInt(int(got)) > 1 {
		t.Errorf("expected ~0 at index 0, got %d", got)
	}

	quarter := o.SampleAt(spc / 4)
	if absInt(int(quarter)-DefaultAmplitude) > 1 {
		t.Errorf("expected ~%d at quarter period, got %d", DefaultAmplitude, quarter)
	}

	buf := make([]int16, 512*2)
	o.Fill(buf, 512)
	for i := 0; i < 512; i++ {
		if buf[i*2] != buf[i*2+1] {
			t.Fatalf("frame %d: left %d != right %d", i, buf[i*2], buf[i*2+1])
		}
	}
	// sampled peaks land within half a sample of the crest
	if p := peak(buf); p < DefaultAmplitude-10 || p > DefaultAmplitude {
		t.Errorf("expected peak ~%d, got %d", DefaultAmplitude, p)
	}
}

func TestPeriodicIntegerCycle(t *testing.T) {
	// 48000 / 480 = exactly 100 samples per cycle
	o := New(48000, 1, WithFrequency(480))
	buf := make([]int16, 300)
	o.Fill(buf, 300)

	for i := 0; i < 200; i++ {
		if buf[i] != buf[i+100] {
			t.Fatalf("sample %d (%d) != sample %d (%d)", i, buf[i], i+100, buf[i+100])
		}
	}
}

func TestPhaseWrapMatchesUnwrappedSine(t *testing.T) {
	// 109.09 samples per cycle: the wrap leaves a fractional remainder
	o := New(48000, 1, WithFrequency(440))
	spc := 48000.0 / 440.0

	const n = 2000
	buf := make([]int16, n)
	o.Fill(buf, n)

	for i := 0; i < n; i++ {
		idx := float64(i + 1)
		want := int(math.Round(DefaultAmplitude * math.Sin(2*math.Pi*idx/spc)))
		if absInt(int(buf[i])-want) > 1 {
			t.Fatalf("sample %d: expected %d, got %d", i, want, buf[i])
		}
	}

	if acc := o.Accumulator(); acc < 0 || acc >= spc {
		t.Errorf("accumulator %v not reduced below %v", acc, spc)
	}
}

func TestNoDiscontinuityAcrossWrap(t *testing.T) {
	o := New(48000, 1, WithFrequency(1000))
	spc := o.SamplesPerCycle()

	buf := make([]int16, 4800)
	o.Fill(buf, len(buf))

	// largest step of a sampled sine plus one quantization step
	maxStep := int(math.Ceil(DefaultAmplitude*2*math.Pi/spc)) + 1
	for i := 1; i < len(buf); i++ {
		if d := absInt(int(buf[i]) - int(buf[i-1])); d > maxStep {
			t.Fatalf("step %d between samples %d and %d exceeds %d", d, i-1, i, maxStep)
		}
	}
}

func TestVolumeScalesLinearly(t *testing.T) {
	full := New(48000, 2, WithVolume(1.0))
	half := New(48000, 2, WithVolume(0.5))

	a := make([]int16, 1024)
	b := make([]int16, 1024)
	full.Fill(a, 512)
	half.Fill(b, 512)

	pa, pb := peak(a), peak(b)
	if absInt(pa/2-pb) > 1 {
		t.Errorf("expected half volume peak ~%d, got %d", pa/2, pb)
	}

	for i := range a {
		want := int(math.Round(float64(a[i]) / 2))
		if absInt(int(b[i])-want) > 1 {
			t.Fatalf("sample %d: expected ~%d at half volume, got %d", i, want, b[i])
		}
	}
}

func TestSetFrequencyClamps(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"normal", 1000, 1000},
		{"zero", 0, MinFrequency},
		{"negative", -440, MinFrequency},
		{"above nyquist", 30000, 24000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := New(48000, 2)
			if got := o.SetFrequency(tt.input); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
			if o.Frequency() != tt.expected {
				t.Errorf("expected stored %v, got %v", tt.expected, o.Frequency())
			}
		})
	}
}

func TestSetFrequencyIgnoresNaN(t *testing.T) {
	o := New(48000, 2, WithFrequency(880))
	if got := o.SetFrequency(math.NaN()); got != 880 {
		t.Errorf("expected 880 after NaN, got %v", got)
	}
}

func TestSetVolumeClamps(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"normal", 0.25, 0.25},
		{"negative", -1, 0},
		{"above unity", 2, 1},
		{"nan keeps default", math.NaN(), DefaultVolume},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := New(48000, 2)
			if got := o.SetVolume(tt.input); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestZeroVolumeIsSilent(t *testing.T) {
	o := New(48000, 2, WithVolume(0))
	buf := make([]int16, 256)
	o.Fill(buf, 128)

	if p := peak(buf); p != 0 {
		t.Errorf("expected silence, got peak %d", p)
	}
}

func TestAmplitudeSaturates(t *testing.T) {
	o := New(48000, 1, WithAmplitude(100000))
	buf := make([]int16, 200)
	o.Fill(buf, 200)

	if p := peak(buf); p > 32767 {
		t.Errorf("peak %d exceeds int16", p)
	}
	if p := peak(buf); p < 32000 {
		t.Errorf("expected near full-scale peak, got %d", p)
	}
}

func TestFrequencyJumpKeepsAccumulatorBounded(t *testing.T) {
	o := New(48000, 1, WithFrequency(10))
	buf := make([]int16, 3000)
	o.Fill(buf, 3000)

	o.SetFrequency(4000)
	o.Fill(buf, 1)

	if acc := o.Accumulator(); acc >= o.SamplesPerCycle() {
		t.Errorf("accumulator %v not below %v after frequency jump", acc, o.SamplesPerCycle())
	}
}

func TestResetRewindsPhase(t *testing.T) {
	o := New(48000, 1)
	first := make([]int16, 10)
	o.Fill(first, 10)

	o.Reset()
	second := make([]int16, 10)
	o.Fill(second, 10)

	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("sample %d differs after reset: %d vs %d", i, first[i], second[i])
		}
	}
}
