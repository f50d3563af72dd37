package ft8

import "testing"

func TestEncodeLDPCIsSystematic(t *testing.T) {
	var w PayloadWithCrc
	copy(w[:], []byte{0xAB, 0xCD, 0xEF, 0x01, 0x23, 0x45, 0x67, 0x89, 0xFE, 0xDC, 0xBA, 0x00})

	cw := EncodeLDPC(w)
	for i := 0; i < PayloadWithCrcBits; i++ {
		if getBit(cw[:], i) != getBit(w[:], i) {
			t.Fatalf("codeword bit %d = %d, want %d (systematic prefix)", i, getBit(cw[:], i), getBit(w[:], i))
		}
	}
}

func TestEncodeLDPCSatisfiesParityChecks(t *testing.T) {
	vectors := []PayloadWithCrc{
		{},
		{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xE0},
		{0x12, 0x34, 0x56, 0x78, 0x9A, 0xBC, 0xDE, 0xF0, 0x11, 0x22, 0x33, 0x40},
	}

	for _, w := range vectors {
		cw := EncodeLDPC(w)
		var bits [LDPCN]byte
		for i := 0; i < LDPCN; i++ {
			bits[i] = getBit(cw[:], i)
		}
		if errs := syndromeErrors(bits); errs != 0 {
			t.Errorf("encoded codeword for %v fails %d parity checks, want 0", w, errs)
		}
	}
}

func TestDecodeLDPCZeroNoiseRoundTrip(t *testing.T) {
	var w PayloadWithCrc
	copy(w[:], []byte{0x9A, 0x03, 0x77, 0x40, 0x55, 0x66, 0x77, 0x88, 0x99, 0xAA, 0xBB, 0x20})

	cw := EncodeLDPC(w)

	var llr [LDPCN]float64
	for i := 0; i < LDPCN; i++ {
		if getBit(cw[:], i) == 0 {
			llr[i] = 10.0
		} else {
			llr[i] = -10.0
		}
	}

	decoded, errs := DecodeLDPC(llr, 20)
	if errs != 0 {
		t.Fatalf("expected zero-noise decode to converge with 0 errors, got %d", errs)
	}
	if decoded != cw {
		t.Fatalf("decoded codeword differs from the encoded one:\n got  %v\n want %v", decoded, cw)
	}
}

func TestDecodeLDPCErrorCountBounded(t *testing.T) {
	var w PayloadWithCrc
	copy(w[:], []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0A, 0x0B, 0x00})
	cw := EncodeLDPC(w)

	var llr [LDPCN]float64
	for i := 0; i < LDPCN; i++ {
		if getBit(cw[:], i) == 0 {
			llr[i] = 6.0
		} else {
			llr[i] = -6.0
		}
	}
	// Flip a couple of channel LLRs to simulate noise on a handful of bits.
	llr[3] = -llr[3]
	llr[100] = -llr[100]

	_, errs := DecodeLDPC(llr, 30)
	if errs < 0 || errs > LDPCM {
		t.Fatalf("syndrome error count %d out of valid range [0, %d]", errs, LDPCM)
	}
}
