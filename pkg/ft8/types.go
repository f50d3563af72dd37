package ft8

import "fmt"

// Payload is the 77-bit message payload, stored MSB-first in 10 bytes;
// the low 3 bits of byte 9 are unused and always zero.
type Payload [10]byte

// PayloadWithCrc is the 91-bit payload+CRC, stored MSB-first in 12
// bytes; the low 5 bits of byte 11 are unused and always zero.
type PayloadWithCrc [12]byte

// Codeword is the full 174-bit LDPC codeword, stored MSB-first in 22
// bytes; the first 91 bits equal a PayloadWithCrc (systematic code).
type Codeword [22]byte

// ToneSequence holds the tone (0..7 for FT8, 0..3 for FT4) transmitted
// at every symbol interval.
type ToneSequence []int

// Sentinel errors the codec returns, matching §7's error kinds. Callers
// use errors.Is against these.
var (
	ErrInvalidCallsign         = fmt.Errorf("ft8: invalid callsign")
	ErrInvalidLocator          = fmt.Errorf("ft8: invalid locator")
	ErrInvalidCharacter        = fmt.Errorf("ft8: invalid character")
	ErrMessageTooLong          = fmt.Errorf("ft8: message too long")
	ErrUnsupportedMessageType  = fmt.Errorf("ft8: unsupported message type")
	ErrCrcMismatch             = fmt.Errorf("ft8: crc mismatch")
	ErrLdpcFailure             = fmt.Errorf("ft8: ldpc decode failed to converge")
	ErrInvalidInput            = fmt.Errorf("ft8: invalid input")
)

// MessageKind discriminates the Message sum type's variants.
type MessageKind int

const (
	KindInvalid MessageKind = iota
	KindStandard
	KindFreeText
	KindTelemetry
	KindNonStandard
)

// Message is the tagged variant described in spec §3: exactly one of
// its fields is meaningful, selected by Kind.
type Message struct {
	Kind MessageKind

	// KindStandard
	CallTo string
	CallDe string
	Extra  string // grid, report, RRR/RR73/73, or ""

	// KindFreeText
	Text string

	// KindTelemetry
	TelemetryHex string // 18 hex chars, the wire form

	// KindNonStandard
	I3  int
	N3  int
	Raw [10]byte
}

func (m Message) String() string {
	switch m.Kind {
	case KindStandard:
		if m.Extra == "" {
			return fmt.Sprintf("%s %s", m.CallTo, m.CallDe)
		}
		return fmt.Sprintf("%s %s %s", m.CallTo, m.CallDe, m.Extra)
	case KindFreeText:
		return m.Text
	case KindTelemetry:
		return m.TelemetryHex
	case KindNonStandard:
		return fmt.Sprintf("<non-standard i3=%d n3=%d>", m.I3, m.N3)
	default:
		return "<invalid>"
	}
}
