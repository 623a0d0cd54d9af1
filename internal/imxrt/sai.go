// ABOUTME: SAI1 and audio clock tree programming for the i.MX RT1062
// ABOUTME: Implements clock.Bus and dma.Transmitter over a RegisterFile
package imxrt

import (
	"log"

	"github.com/Resonate-Protocol/resonate-tone/pkg/clock"
)

const (
	// DMAMUX request source for SAI1 transmit
	requestSAI1Tx = 20

	// PLL4 as the SAI1 clock root
	sai1ClkSelPLL4 = 2

	defaultLockPolls = 100000
)

// SAI drives SAI1 and the clock tree feeding it
type SAI struct {
	regs      RegisterFile
	lockPolls int
}

// NewSAI creates a driver for SAI1
func NewSAI(regs RegisterFile) *SAI {
	return &SAI{regs: regs, lockPolls: defaultLockPolls}
}

func (s *SAI) TransmitterEnabled() bool {
	return s.regs.Load32(saiTCSR)&csrEnable != 0
}

func (s *SAI) ReceiverEnabled() bool {
	return s.regs.Load32(saiRCSR)&csrEnable != 0
}

func (s *SAI) EnableClockGate() {
	s.or32(ccmCCGR5, ccgrOn<<ccgr5SAI1Shift)
}

// SetPLL programs PLL4 and waits for lock before leaving bypass
func (s *SAI) SetPLL(pll clock.PLL) {
	s.regs.Store32(pllAudio, pllAudioBypass|pllAudioEnable|
		pllAudioPostDiv(pllAudioPostDivOne)|pllAudioDivSelect(uint32(pll.Integer)))
	s.regs.Store32(pllAudioNum, uint32(pll.Numerator)&pllAudioNumMask)
	s.regs.Store32(pllAudioDenom, uint32(pll.Denominator)&pllAudioDenomMask)

	s.clear32(pllAudio, pllAudioPowerdown)

	locked := false
	for i := 0; i < s.lockPolls; i++ {
		if s.regs.Load32(pllAudio)&pllAudioLock != 0 {
			locked = true
			break
		}
	}
	if !locked {
		log.Printf("Warning: audio PLL did not report lock after %d polls", s.lockPolls)
	}

	s.clear32(analogMisc2, misc2AudioDivMSB|misc2AudioDivLSB)
	s.clear32(pllAudio, pllAudioBypass)
}

// SetRootClock selects PLL4 and sets the SAI1 prescaler and post divider
func (s *SAI) SetRootClock(prescaler, divider int) {
	s.regs.Store32(ccmCSCMR1, s.regs.Load32(ccmCSCMR1)&^cscmr1SAI1ClkSelMask|
		cscmr1SAI1ClkSel(sai1ClkSelPLL4))
	s.regs.Store32(ccmCS1CDR, s.regs.Load32(ccmCS1CDR)&^(cs1cdrSAI1PredMask|cs1cdrSAI1PodfMask)|
		cs1cdrSAI1Pred(uint32(prescaler-1))|cs1cdrSAI1Podf(uint32(divider-1)))
}

// SelectMasterClock drives MCLK1 out of the SAI1 root clock
func (s *SAI) SelectMasterClock() {
	s.regs.Store32(gpr1, s.regs.Load32(gpr1)&^gpr1SAI1Mclk1SelMask|gpr1SAI1MclkDir)
}

func (s *SAI) RoutePins(pins clock.Pins) {
	if pins.MasterClock {
		s.regs.Store32(padMCLK, padAltSAI1)
	}
	if pins.FrameSync {
		s.regs.Store32(padLRCLK, padAltSAI1)
	}
	if pins.BitClock {
		s.regs.Store32(padBCLK, padAltSAI1)
	}
}

func (s *SAI) SetFrameFormat(tx, rx clock.FrameFormat) {
	s.regs.Store32(saiTMR, 0)
	s.regs.Store32(saiTCR1, cr1Watermark(uint32(tx.FIFOWatermark)))
	s.regs.Store32(saiTCR2, cr2(tx))
	s.regs.Store32(saiTCR3, cr3ChannelEnable)
	s.regs.Store32(saiTCR4, cr4(tx))
	s.regs.Store32(saiTCR5, cr5(tx))

	s.regs.Store32(saiRMR, 0)
	s.regs.Store32(saiRCR1, cr1Watermark(uint32(rx.FIFOWatermark)))
	s.regs.Store32(saiRCR2, cr2(rx))
	s.regs.Store32(saiRCR3, cr3ChannelEnable)
	s.regs.Store32(saiRCR4, cr4(rx))
	s.regs.Store32(saiRCR5, cr5(rx))
}

func cr2(f clock.FrameFormat) uint32 {
	var v uint32
	if f.Synchronous {
		v |= cr2Sync(1)
	}
	if f.BitClockFalling {
		v |= cr2BitClockPolarity
	}
	if f.BitClockMaster {
		v |= cr2BitClockDir
	}
	return v | cr2Div(uint32(f.BitClockDivider)) | cr2MasterSel(uint32(f.MasterSelect))
}

func cr4(f clock.FrameFormat) uint32 {
	v := cr4FrameSize(uint32(f.Words-1)) | cr4SyncWidth(uint32(f.SyncWidth-1))
	if f.MSBFirst {
		v |= cr4MSBFirst
	}
	if f.EarlyFrameSync {
		v |= cr4EarlySync
	}
	if f.SyncActiveLow {
		v |= cr4SyncActiveLow
	}
	if f.SyncInternal {
		v |= cr4SyncInternal
	}
	return v
}

func cr5(f clock.FrameFormat) uint32 {
	w := uint32(f.WordBits - 1)
	return cr5WordNWidth(w) | cr5Word0Width(w) | cr5FirstBit(uint32(f.FirstBit))
}

func (s *SAI) DataRegister() uintptr { return saiTDR0 }
func (s *SAI) RequestSource() uint8  { return requestSAI1Tx }

// EnableTransmitter routes TX_DATA0, starts the receiver bit clock and the
// transmitter with FIFO DMA requests.
func (s *SAI) EnableTransmitter() {
	s.regs.Store32(padTXD0, padAltSAI1)
	s.or32(saiRCSR, csrEnable|csrBitClockEn)
	s.regs.Store32(saiTCSR, csrEnable|csrBitClockEn|csrFIFORequestDMA)
}

func (s *SAI) or32(addr, bits uint32) {
	s.regs.Store32(addr, s.regs.Load32(addr)|bits)
}

func (s *SAI) clear32(addr, bits uint32) {
	s.regs.Store32(addr, s.regs.Load32(addr)&^bits)
}
