// ABOUTME: Host model of a DMA channel executing a circular transfer descriptor
// ABOUTME: Each pulled sample is one minor loop; half/major completions raise the attached handler
package sim

import (
	"io"
	"sync/atomic"
	"time"

	"github.com/Resonate-Protocol/resonate-tone/pkg/audio"
	"github.com/Resonate-Protocol/resonate-tone/pkg/dma"
)

// DefaultRefillTimeout bounds how long Read waits for a boundary refill
// before playing the section as it stands.
const DefaultRefillTimeout = 250 * time.Millisecond

// DMA implements dma.Channel and dma.CacheMaintainer. Reading from it plays
// the role of the transmit FIFO requesting data: every 16-bit sample read
// executes one minor loop.
//
// Read is called from a single goroutine (the audio sink) and stops at every
// half/major boundary. Before reading past a boundary it waits until the
// refill raised there has been flushed, so a refill worker never writes a
// section the sink is reading. Flushes are published through an atomic
// generation that Read observes before touching the buffer.
type DMA struct {
	sai *SAI

	desc    dma.Descriptor
	pos     atomic.Int64 // minor loop index within the major loop
	enabled atomic.Bool
	isr     func()
	pending atomic.Bool

	timeout time.Duration
	flushed chan struct{}
	owed    uint64 // boundaries raised with a handler attached; Read goroutine only
	lag     uint64 // refills given up on after timeout; Read goroutine only

	flushes    atomic.Uint64
	interrupts atomic.Uint64
	transfers  atomic.Uint64
	stalls     atomic.Uint64
}

// NewDMA creates a channel paced by sai's transmitter
func NewDMA(sai *SAI) *DMA {
	return &DMA{
		sai:     sai,
		timeout: DefaultRefillTimeout,
		flushed: make(chan struct{}, 1),
	}
}

func (d *DMA) Program(desc dma.Descriptor) {
	d.desc = desc
	d.pos.Store(0)
}

func (d *DMA) Enable()                    { d.enabled.Store(true) }
func (d *DMA) AttachInterrupt(isr func()) { d.isr = isr }
func (d *DMA) ClearInterrupt()            { d.pending.Store(false) }

// SetRefillTimeout changes how long Read waits for an outstanding refill.
// Call it before the stream starts.
func (d *DMA) SetRefillTimeout(timeout time.Duration) {
	if timeout > 0 {
		d.timeout = timeout
	}
}

// SourceAddress is the address the next minor loop reads
func (d *DMA) SourceAddress() uintptr {
	return d.desc.SourceAddr + uintptr(d.pos.Load()*int64(d.desc.SourceOffset))
}

// FlushDelete publishes CPU writes to the reader
func (d *DMA) FlushDelete(addr uintptr, size int) {
	d.flushes.Add(1)
	select {
	case d.flushed <- struct{}{}:
	default:
	}
}

// Read executes up to len(p)/2 minor loops, writing each sample
// little-endian. It returns early after the sample that completes a half or
// major loop. While the channel or transmitter is idle the bus carries
// silence.
func (d *DMA) Read(p []byte) (int, error) {
	if !d.enabled.Load() || !d.sai.TransmitterEnabled() || len(d.desc.Source) == 0 {
		clear(p)
		return len(p), nil
	}

	d.awaitRefills()

	major := int64(d.desc.MajorIterations)
	half := major / 2
	pos := d.pos.Load()

	n := len(p) / 2
	for i := 0; i < n; i++ {
		audio.PutInt16LE(p[i*2:], d.desc.Source[pos:pos+1])
		pos++

		boundary := false
		switch {
		case pos == half && d.desc.InterruptHalf:
			boundary = true
		case pos == major:
			pos = 0 // SourceLast rewinds to the buffer start
			boundary = d.desc.InterruptMajor
		}
		if boundary {
			d.pos.Store(pos)
			d.transfers.Add(uint64(i + 1))
			d.raise()
			return (i + 1) * 2, nil
		}
	}
	d.pos.Store(pos)
	d.transfers.Add(uint64(n))

	if len(p)%2 != 0 {
		p[len(p)-1] = 0
	}
	return len(p), nil
}

// awaitRefills blocks until every boundary raised so far has been flushed,
// or the refill timeout passes.
func (d *DMA) awaitRefills() {
	if d.flushes.Load()+d.lag >= d.owed {
		return
	}

	timer := time.NewTimer(d.timeout)
	defer timer.Stop()

	for d.flushes.Load()+d.lag < d.owed {
		select {
		case <-d.flushed:
		case <-timer.C:
			d.stalls.Add(1)
			d.lag = d.owed - d.flushes.Load()
			return
		}
	}
}

func (d *DMA) raise() {
	d.interrupts.Add(1)
	d.pending.Store(true)
	if d.isr != nil {
		d.owed++
		d.isr()
	}
}

// Step runs n minor loops and discards the output
func (d *DMA) Step(n int) {
	buf := make([]byte, n*2)
	_, _ = io.ReadFull(d, buf)
}

// Pending reports an unacknowledged completion interrupt
func (d *DMA) Pending() bool { return d.pending.Load() }

// Interrupts counts half and major completions raised
func (d *DMA) Interrupts() uint64 { return d.interrupts.Load() }

// Flushes counts cache maintenance operations
func (d *DMA) Flushes() uint64 { return d.flushes.Load() }

// Transfers counts executed minor loops
func (d *DMA) Transfers() uint64 { return d.transfers.Load() }

// Stalls counts boundaries whose refill did not arrive within the timeout
func (d *DMA) Stalls() uint64 { return d.stalls.Load() }

var _ io.Reader = (*DMA)(nil)
