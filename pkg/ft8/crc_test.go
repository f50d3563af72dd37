package ft8

import "testing"

func TestCRC14Deterministic(t *testing.T) {
	var p Payload
	copy(p[:], []byte{0x12, 0x34, 0x56, 0x78, 0x9A, 0xBC, 0xDE, 0xF0, 0x11, 0x22})

	c1 := ComputeCRC14(p)
	c2 := ComputeCRC14(p)
	if c1 != c2 {
		t.Fatalf("CRC not deterministic: %d vs %d", c1, c2)
	}
	if c1 >= 1<<14 {
		t.Fatalf("CRC out of 14-bit range: %d", c1)
	}
}

func TestAppendCRCRoundTrip(t *testing.T) {
	var p Payload
	copy(p[:], []byte{0xAA, 0x55, 0x0F, 0xF0, 0x01, 0x02, 0x03, 0x04, 0x05, 0x00})

	w := AppendCRC(p)
	if !CheckCRC(w) {
		t.Fatalf("expected freshly appended CRC to check out")
	}

	t.Logf("checkmark: payload %v appends CRC and checks out", p)
}

func TestCheckCRCDetectsCorruption(t *testing.T) {
	var p Payload
	w := AppendCRC(p)

	// Flip a payload bit; CRC should now fail.
	corrupted := w
	corrupted[0] ^= 0x80
	if CheckCRC(corrupted) {
		t.Fatalf("expected corrupted payload to fail CRC check")
	}
}

func TestGetSetBitMSBFirst(t *testing.T) {
	buf := make([]byte, 2)
	setBit(buf, 0, 1)
	if buf[0] != 0x80 {
		t.Fatalf("bit 0 should be the MSB of byte 0, got %08b", buf[0])
	}
	setBit(buf, 15, 1)
	if buf[1] != 0x01 {
		t.Fatalf("bit 15 should be the LSB of byte 1, got %08b", buf[1])
	}
	if getBit(buf, 0) != 1 || getBit(buf, 15) != 1 || getBit(buf, 1) != 0 {
		t.Fatalf("getBit mismatch: %08b %08b", buf[0], buf[1])
	}
}
