// ABOUTME: Transfer descriptor and hardware interfaces for the DMA transport
// ABOUTME: Abstracts the channel, the serial transmitter and cache maintenance
package dma

// Descriptor is a transfer control descriptor: one minor loop moves
// MinorLoopBytes from source to destination, MajorIterations minor loops make
// up the major loop, after which the addresses are adjusted by SourceLast and
// DestLast.
type Descriptor struct {
	// Source is the memory the channel reads; SourceAddr is its bus address
	Source     []int16
	SourceAddr uintptr

	SourceOffset   int // bytes added to the source address per minor loop
	SourceSize     int // bytes per source read
	DestSize       int // bytes per destination write
	MinorLoopBytes int
	SourceLast     int // bytes added to the source address after the major loop

	DestAddr   uintptr
	DestOffset int
	DestLast   int

	MajorIterations int

	InterruptHalf  bool
	InterruptMajor bool

	// Trigger is the peripheral request line that paces the transfer
	Trigger uint8
}

// Channel is one DMA channel
type Channel interface {
	// Program loads the descriptor; the channel stays idle until Enable
	Program(d Descriptor)
	// Enable starts servicing hardware requests
	Enable()
	// AttachInterrupt installs the half/major completion handler
	AttachInterrupt(isr func())
	// ClearInterrupt acknowledges the pending completion interrupt
	ClearInterrupt()
	// SourceAddress is the address the next minor loop will read from
	SourceAddress() uintptr
}

// IterationLimiter is implemented by channels whose major loop counter is
// narrower than an int. NewTransport rejects buffers with more samples.
type IterationLimiter interface {
	MaxMajorIterations() int
}

// Transmitter is the serial bus side of the transfer
type Transmitter interface {
	// DataRegister is the address of the transmit data register
	DataRegister() uintptr
	// RequestSource is the DMA request line raised when the FIFO wants data
	RequestSource() uint8
	// EnableTransmitter starts the bit clock and FIFO requests
	EnableTransmitter()
}

// CacheMaintainer makes CPU writes visible to the DMA engine
type CacheMaintainer interface {
	FlushDelete(addr uintptr, size int)
}
