// ABOUTME: Tests for buffer half selection
// ABOUTME: Tests the address-to-section mapping is total and unambiguous at the midpoint
package dma

import "testing"

func TestRefillHalf(t *testing.T) {
	const base = uintptr(0x20200000)
	const size = 1024 // bytes

	tests := []struct {
		name     string
		addr     uintptr
		expected Half
	}{
		{"start", base, SecondHalf},
		{"inside first", base + 100, SecondHalf},
		{"last sample of first", base + size/2 - 2, SecondHalf},
		{"midpoint", base + size/2, FirstHalf},
		{"inside second", base + 700, FirstHalf},
		{"last sample", base + size - 2, FirstHalf},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RefillHalf(tt.addr, base, size); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestRefillHalfIsComplementOfReadingHalf(t *testing.T) {
	const base = uintptr(0x1000)
	const size = 512

	firstCount, secondCount := 0, 0
	for addr := base; addr < base+size; addr += 2 {
		reading := ReadingHalf(addr, base, size)
		refill := RefillHalf(addr, base, size)
		if reading == refill {
			t.Fatalf("addr %#x: reading and refill both %v", addr, reading)
		}
		if refill == FirstHalf {
			firstCount++
		} else {
			secondCount++
		}
	}

	if firstCount != secondCount {
		t.Errorf("expected equal partitions, got %d/%d", firstCount, secondCount)
	}
}

func TestHalfOther(t *testing.T) {
	if FirstHalf.Other() != SecondHalf || SecondHalf.Other() != FirstHalf {
		t.Error("Other does not swap halves")
	}
	if FirstHalf.String() != "first" || SecondHalf.String() != "second" {
		t.Errorf("unexpected names %q %q", FirstHalf, SecondHalf)
	}
}
