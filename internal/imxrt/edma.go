// ABOUTME: eDMA channel and data cache maintenance for the i.MX RT1062
// ABOUTME: Implements dma.Channel and dma.CacheMaintainer over a RegisterFile
package imxrt

import "github.com/Resonate-Protocol/resonate-tone/pkg/dma"

// Channel is one eDMA channel with its DMAMUX slot
type Channel struct {
	regs  RegisterFile
	n     uint32
	isr   func()
	upper uintptr // address bits above 32, only non-zero on host builds
}

// NewChannel creates a driver for eDMA channel n
func NewChannel(regs RegisterFile, n int) *Channel {
	return &Channel{regs: regs, n: uint32(n)}
}

func (c *Channel) tcd(off uint32) uint32 {
	return dmaTCD + c.n*tcdSize + off
}

// Program writes the transfer control descriptor and routes the trigger
func (c *Channel) Program(d dma.Descriptor) {
	c.upper = d.SourceAddr &^ 0xFFFFFFFF

	c.regs.Store32(c.tcd(tcdSADDR), uint32(d.SourceAddr))
	c.regs.Store16(c.tcd(tcdSOFF), uint16(int16(d.SourceOffset)))
	c.regs.Store16(c.tcd(tcdATTR), tcdAttr(d.SourceSize, d.DestSize))
	c.regs.Store32(c.tcd(tcdNBYTES), uint32(d.MinorLoopBytes))
	c.regs.Store32(c.tcd(tcdSLAST), uint32(int32(d.SourceLast)))
	c.regs.Store32(c.tcd(tcdDADDR), uint32(d.DestAddr))
	c.regs.Store16(c.tcd(tcdDOFF), uint16(int16(d.DestOffset)))
	c.regs.Store16(c.tcd(tcdCITER), uint16(d.MajorIterations)&tcdIterMask)
	c.regs.Store32(c.tcd(tcdDLASTSGA), uint32(int32(d.DestLast)))
	c.regs.Store16(c.tcd(tcdBITER), uint16(d.MajorIterations)&tcdIterMask)

	var csr uint16
	if d.InterruptHalf {
		csr |= tcdCSRIntHalf
	}
	if d.InterruptMajor {
		csr |= tcdCSRIntMajor
	}
	c.regs.Store16(c.tcd(tcdCSR), csr)

	mux := dmamuxBase + c.n*4
	c.regs.Store32(mux, 0)
	c.regs.Store32(mux, uint32(d.Trigger)|dmamuxEnable)
}

// MaxMajorIterations is the largest CITER/BITER value without channel linking
func (c *Channel) MaxMajorIterations() int {
	return tcdIterMask
}

// Enable sets the channel's hardware request enable
func (c *Channel) Enable() {
	c.regs.Store8(dmaSERQ, uint8(c.n))
}

func (c *Channel) AttachInterrupt(isr func()) {
	c.isr = isr
}

// ServeInterrupt is called from the DMA channel interrupt vector
func (c *Channel) ServeInterrupt() {
	if c.isr != nil {
		c.isr()
	}
}

func (c *Channel) ClearInterrupt() {
	c.regs.Store8(dmaCINT, uint8(c.n))
}

func (c *Channel) SourceAddress() uintptr {
	return c.upper | uintptr(c.regs.Load32(c.tcd(tcdSADDR)))
}

// Cache cleans and invalidates data cache lines so DMA reads see CPU writes
type Cache struct {
	regs RegisterFile
}

// NewCache creates a cache maintenance driver
func NewCache(regs RegisterFile) *Cache {
	return &Cache{regs: regs}
}

// FlushDelete cleans and invalidates every line overlapping [addr, addr+size)
// and waits for the maintenance to complete.
func (c *Cache) FlushDelete(addr uintptr, size int) {
	start := uint32(addr) &^ (cacheLine - 1)
	end := uint32(addr) + uint32(size)
	for a := start; a < end; a += cacheLine {
		c.regs.Store32(scbDCCIMVAC, a)
	}
	c.regs.Barrier()
}
