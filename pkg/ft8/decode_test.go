package ft8

import "testing"

// buildFT8Signal runs a message through the full transmit chain (pack,
// CRC, LDPC encode, tone mapping, GFSK modulation) and returns the
// resulting waveform along with the spectrogram parameters that give an
// exact tone/bin alignment: nfft == nstep == one symbol period's worth
// of samples, and a carrier frequency that is an exact multiple of the
// resulting bin spacing.
func buildFT8Signal(t *testing.T, msg Message) ([]float32, int, float64, float64) {
	t.Helper()

	payload, err := Pack(msg, nil)
	if err != nil {
		t.Fatalf("Pack failed: %v", err)
	}
	w := AppendCRC(payload)
	cw := EncodeLDPC(w)
	tones := Tones(cw, ProtocolFT8)

	const sampleRateHz = 12000
	const f0Hz = 1000.0 // BinHz will be 6.25, so 1000/6.25 = 160 exactly
	samples := Modulate(tones, ProtocolFT8, sampleRateHz, f0Hz)

	nfft := int(FT8SymbolTime * sampleRateHz) // 1920, matches BinHz=6.25=FT8ToneSpacing
	return samples, nfft, sampleRateHz, f0Hz
}

func TestExtractAndDecodeGivenExactCandidate(t *testing.T) {
	original, err := Parse("CQ K1ABC FN42")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	samples, nfft, sampleRateHz, f0Hz := buildFT8Signal(t, original)

	wf := BuildSpectrogram(samples, sampleRateHz, nfft, nfft, ProtocolFT8)
	if wf.NumBlocks != FT8SymbolCount {
		t.Fatalf("got %d waterfall blocks, want %d (one per symbol)", wf.NumBlocks, FT8SymbolCount)
	}

	freqBin := int(f0Hz / wf.BinHz)
	cand := Candidate{TimeBin: 0, FreqBin: freqBin}

	llr := ExtractLLRs(wf, cand, ProtocolFT8)
	cw, errs := DecodeLDPC(llr, 30)
	if errs != 0 {
		t.Fatalf("LDPC decode did not converge from the exact candidate, %d syndrome errors remain", errs)
	}

	var w PayloadWithCrc
	copy(w[:], cw[:12])
	if !CheckCRC(w) {
		t.Fatalf("CRC check failed on decoded payload")
	}

	var payload Payload
	copy(payload[:], w[:10])
	got, err := Unpack(payload, nil)
	if err != nil {
		t.Fatalf("Unpack failed: %v", err)
	}
	if got.String() != original.String() {
		t.Fatalf("round trip mismatch: got %q, want %q", got.String(), original.String())
	}
}

func TestDecodeFullPipeline(t *testing.T) {
	original, err := Parse("CQ K1ABC FN42")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	samples, nfft, sampleRateHz, _ := buildFT8Signal(t, original)

	opts := DecodeOptions{
		SampleRateHz:  sampleRateHz,
		NFFT:          nfft,
		MinFreqHz:     700,
		MaxFreqHz:     1300,
		MaxCandidates: 10,
		MinSyncScore:  0,
		MaxLDPCIters:  30,
	}

	results := Decode(samples, ProtocolFT8, nil, opts)
	if len(results) == 0 {
		t.Fatalf("expected at least one decoded candidate from a clean synthetic signal")
	}

	found := false
	for _, r := range results {
		if r.Message.String() == original.String() {
			found = true
			if r.SNR < -24 || r.SNR > 24 {
				t.Errorf("SNR %v out of the documented [-24,24] range", r.SNR)
			}
		}
	}
	if !found {
		t.Fatalf("no decoded candidate matched %q; got %+v", original.String(), results)
	}
}
