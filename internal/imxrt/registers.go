// ABOUTME: i.MX RT1062 register addresses and bitfields used by the audio path
// ABOUTME: Covers CCM, PLL4, IOMUXC, SAI1, eDMA, DMAMUX and the SCB cache operations
package imxrt

// RegisterFile is word/half-word/byte access to memory-mapped registers.
// Barrier completes outstanding memory and cache operations before the next
// access.
type RegisterFile interface {
	Load32(addr uint32) uint32
	Store32(addr uint32, v uint32)
	Load16(addr uint32) uint16
	Store16(addr uint32, v uint16)
	Store8(addr uint32, v uint8)
	Barrier()
}

// Clock control module
const (
	ccmCSCMR1 = 0x400FC01C
	ccmCS1CDR = 0x400FC020
	ccmCCGR5  = 0x400FC07C

	cscmr1SAI1ClkSelMask = 3 << 10
	cs1cdrSAI1PredMask   = 7 << 6
	cs1cdrSAI1PodfMask   = 0x3F

	ccgrOn         = 3
	ccgr5SAI1Shift = 18
)

func cscmr1SAI1ClkSel(n uint32) uint32 { return (n & 3) << 10 }
func cs1cdrSAI1Pred(n uint32) uint32   { return (n & 7) << 6 }
func cs1cdrSAI1Podf(n uint32) uint32   { return n & 0x3F }

// PLL4 (audio PLL)
const (
	pllAudio      = 0x400D8070
	pllAudioNum   = 0x400D8080
	pllAudioDenom = 0x400D8090
	analogMisc2   = 0x400D8170

	pllAudioLock      = 1 << 31
	pllAudioBypass    = 1 << 16
	pllAudioEnable    = 1 << 13
	pllAudioPowerdown = 1 << 12
	pllAudioNumMask   = 0x3FFFFFFF
	pllAudioDenomMask = 0x3FFFFFFF

	misc2AudioDivMSB = 1 << 23
	misc2AudioDivLSB = 1 << 15

	// 2 selects divide-by-one on the PLL output
	pllAudioPostDivOne = 2
)

func pllAudioDivSelect(n uint32) uint32 { return n & 0x7F }
func pllAudioPostDiv(n uint32) uint32   { return (n & 3) << 19 }

// IOMUXC
const (
	gpr1 = 0x400AC004

	gpr1SAI1MclkDir      = 1 << 19
	gpr1SAI1Mclk1SelMask = 7

	padMCLK  = 0x401F8160 // GPIO_AD_B1_09, pin 23
	padLRCLK = 0x401F8164 // GPIO_AD_B1_10, pin 20
	padBCLK  = 0x401F8168 // GPIO_AD_B1_11, pin 21
	padTXD0  = 0x401F81A0 // GPIO_B1_01, pin 7

	padAltSAI1 = 3
)

// SAI1
const (
	sai1Base = 0x40384000

	saiTCSR = sai1Base + 0x08
	saiTCR1 = sai1Base + 0x0C
	saiTCR2 = sai1Base + 0x10
	saiTCR3 = sai1Base + 0x14
	saiTCR4 = sai1Base + 0x18
	saiTCR5 = sai1Base + 0x1C
	saiTDR0 = sai1Base + 0x20
	saiTMR  = sai1Base + 0x60
	saiRCSR = sai1Base + 0x88
	saiRCR1 = sai1Base + 0x8C
	saiRCR2 = sai1Base + 0x90
	saiRCR3 = sai1Base + 0x94
	saiRCR4 = sai1Base + 0x98
	saiRCR5 = sai1Base + 0x9C
	saiRMR  = sai1Base + 0xE0

	csrEnable         = 1 << 31 // TE / RE
	csrBitClockEn     = 1 << 28 // BCE
	csrFIFORequestDMA = 1 << 0  // FRDE

	cr2BitClockPolarity = 1 << 25 // BCP
	cr2BitClockDir      = 1 << 24 // BCD
	cr3ChannelEnable    = 1 << 16 // TCE / RCE
	cr4MSBFirst         = 1 << 4  // MF
	cr4EarlySync        = 1 << 3  // FSE
	cr4SyncActiveLow    = 1 << 1  // FSP
	cr4SyncInternal     = 1 << 0  // FSD
)

func cr1Watermark(n uint32) uint32  { return n & 0x1F }
func cr2Sync(n uint32) uint32       { return (n & 3) << 30 }
func cr2MasterSel(n uint32) uint32  { return (n & 3) << 26 }
func cr2Div(n uint32) uint32        { return n & 0xFF }
func cr4FrameSize(n uint32) uint32  { return (n & 0x1F) << 16 }
func cr4SyncWidth(n uint32) uint32  { return (n & 0x1F) << 8 }
func cr5WordNWidth(n uint32) uint32 { return (n & 0x1F) << 24 }
func cr5Word0Width(n uint32) uint32 { return (n & 0x1F) << 16 }
func cr5FirstBit(n uint32) uint32   { return (n & 0x1F) << 8 }

// eDMA
const (
	dmaBase = 0x400E8000
	dmaSERQ = dmaBase + 0x1B
	dmaCINT = dmaBase + 0x1F
	dmaTCD  = dmaBase + 0x1000

	tcdSize = 32

	tcdSADDR    = 0x00
	tcdSOFF     = 0x04
	tcdATTR     = 0x06
	tcdNBYTES   = 0x08
	tcdSLAST    = 0x0C
	tcdDADDR    = 0x10
	tcdDOFF     = 0x14
	tcdCITER    = 0x16
	tcdDLASTSGA = 0x18
	tcdCSR      = 0x1C
	tcdBITER    = 0x1E

	tcdCSRIntMajor = 1 << 1
	tcdCSRIntHalf  = 1 << 2

	tcdIterMask = 0x7FFF // CITER/BITER without channel linking

	dmamuxBase   = 0x400EC000
	dmamuxEnable = 1 << 31
)

// attrSize encodes a transfer width in bytes as the ATTR SSIZE/DSIZE code
func attrSize(bytes int) uint16 {
	switch bytes {
	case 1:
		return 0
	case 2:
		return 1
	case 4:
		return 2
	case 8:
		return 3
	default:
		return 5 // 32-byte burst
	}
}

func tcdAttr(srcBytes, dstBytes int) uint16 {
	return attrSize(srcBytes)<<8 | attrSize(dstBytes)
}

// System control block cache maintenance
const (
	scbDCCIMVAC = 0xE000EF70 // clean and invalidate data cache line by address

	cacheLine = 32
)
