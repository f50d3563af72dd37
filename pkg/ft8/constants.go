// Package ft8 implements the FT8/FT4 message, channel, modulation and
// demodulation codec: text in, GFSK baseband out, and back.
package ft8

// Protocol identifies which of the two supported digital modes a call
// operates on. The two modes share the message and channel codec but
// differ in symbol geometry, Costas placement and Gray mapping.
type Protocol int

const (
	ProtocolFT8 Protocol = iota
	ProtocolFT4
)

func (p Protocol) String() string {
	if p == ProtocolFT4 {
		return "FT4"
	}
	return "FT8"
}

// Frame geometry, bit-exact with the published FT8/FT4 protocol.
const (
	FT8SymbolCount = 79
	FT8ToneCount   = 8
	FT8SymbolTime  = 0.160 // seconds
	FT8ToneSpacing = 6.25  // Hz
	FT8SlotTime    = 15.0  // seconds
	FT8GaussianBT  = 2.0

	FT4SymbolCount = 105
	FT4ToneCount   = 4
	FT4SymbolTime  = 0.048 // seconds (48ms nominal; exact = 576/12000)
	FT4ToneSpacing = 20.8333333333
	FT4SlotTime    = 7.5 // seconds
	FT4GaussianBT  = 1.0

	PayloadBits = 77
	CrcBits     = 14
	PayloadWithCrcBits = PayloadBits + CrcBits // 91
	LDPCN       = 174
	LDPCK       = 91
	LDPCM       = 83 // LDPCN - LDPCK

	CostasLength = 7
)

// SymbolCount and ToneCount return the frame geometry for a protocol.
func (p Protocol) SymbolCount() int {
	if p == ProtocolFT4 {
		return FT4SymbolCount
	}
	return FT8SymbolCount
}

func (p Protocol) ToneCount() int {
	if p == ProtocolFT4 {
		return FT4ToneCount
	}
	return FT8ToneCount
}

func (p Protocol) SymbolTime() float64 {
	if p == ProtocolFT4 {
		return FT4SymbolTime
	}
	return FT8SymbolTime
}

func (p Protocol) ToneSpacing() float64 {
	if p == ProtocolFT4 {
		return FT4ToneSpacing
	}
	return FT8ToneSpacing
}

func (p Protocol) SlotTime() float64 {
	if p == ProtocolFT4 {
		return FT4SlotTime
	}
	return FT8SlotTime
}

func (p Protocol) GaussianBT() float64 {
	if p == ProtocolFT4 {
		return FT4GaussianBT
	}
	return FT8GaussianBT
}

// FT8Costas is the length-7 Costas array repeated at symbol offsets
// 0, 36 and 72 in every FT8 transmission.
var FT8Costas = [7]int{3, 1, 4, 0, 6, 5, 2}

// FT8CostasOffsets gives the starting symbol index of each Costas block.
var FT8CostasOffsets = [3]int{0, 36, 72}

// FT4Costas holds the four distinct 4-symbol Costas sequences used at
// FT4 symbol offsets 1, 34, 67 and 100.
var FT4Costas = [4][4]int{
	{0, 1, 3, 2},
	{1, 0, 2, 3},
	{2, 3, 1, 0},
	{3, 2, 0, 1},
}

// FT4CostasOffsets gives the starting symbol index of each Costas quartet.
var FT4CostasOffsets = [4]int{1, 34, 67, 100}

// FT4RampSymbols are the fixed positions of FT4's leading/trailing ramp
// symbols, which carry no information and are always tone 0.
var FT4RampSymbols = [2]int{0, 104}

// Gray maps used to translate consecutive codeword bits into a tone
// index and back.
var FT8GrayMap = [8]int{0, 1, 3, 2, 5, 6, 4, 7}
var FT4GrayMap = [4]int{0, 1, 3, 2}

// FT8GrayInverse and FT4GrayInverse map a tone back to its bit pattern.
var FT8GrayInverse = buildGrayInverse(FT8GrayMap[:])
var FT4GrayInverse = buildGrayInverse(FT4GrayMap[:])

func buildGrayInverse(gray []int) []int {
	inv := make([]int, len(gray))
	for bits, tone := range gray {
		inv[tone] = bits
	}
	return inv
}

// FT4XORSequence is XORed onto the 77-bit payload (as full bytes) before
// CRC and LDPC framing, and again after LDPC decode, to whiten the FT4
// payload.
var FT4XORSequence = [10]byte{0x00, 0x00, 0x00, 0x01, 0x01, 0x00, 0x00, 0x01, 0x00, 0x01}

// CRC14Poly is the generator polynomial for the 14-bit payload CRC.
const CRC14Poly = 0x2757
