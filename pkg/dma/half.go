// ABOUTME: Buffer half selection from the DMA read address
// ABOUTME: Pure mapping from the hardware position to the section software may fill
package dma

// Half identifies one section of the transfer buffer
type Half int

const (
	FirstHalf Half = iota
	SecondHalf
)

func (h Half) String() string {
	if h == FirstHalf {
		return "first"
	}
	return "second"
}

// Other returns the opposite section
func (h Half) Other() Half {
	return 1 - h
}

// ReadingHalf returns the section the hardware is reading at addr. Addresses
// below the midpoint belong to the first half; the midpoint and everything
// after it to the second.
func ReadingHalf(addr, base uintptr, size int) Half {
	mid := base + uintptr(size)/2
	if addr < mid {
		return FirstHalf
	}
	return SecondHalf
}

// RefillHalf returns the section software must fill while the hardware reads
// from addr.
func RefillHalf(addr, base uintptr, size int) Half {
	return ReadingHalf(addr, base, size).Other()
}
