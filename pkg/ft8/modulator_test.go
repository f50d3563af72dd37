package ft8

import "testing"

func TestTonesFT8CostasPlacement(t *testing.T) {
	var cw Codeword
	tones := tonesFT8(cw)
	if len(tones) != FT8SymbolCount {
		t.Fatalf("expected %d tones, got %d", FT8SymbolCount, len(tones))
	}
	for _, off := range FT8CostasOffsets {
		for i := 0; i < CostasLength; i++ {
			if tones[off+i] != FT8Costas[i] {
				t.Errorf("tone at %d = %d, want Costas[%d] = %d", off+i, tones[off+i], i, FT8Costas[i])
			}
		}
	}
	for _, tone := range tones {
		if tone < 0 || tone >= FT8ToneCount {
			t.Fatalf("tone %d out of range [0,%d)", tone, FT8ToneCount)
		}
	}
}

func TestTonesFT4CostasAndRampPlacement(t *testing.T) {
	var cw Codeword
	tones := tonesFT4(cw)
	if len(tones) != FT4SymbolCount {
		t.Fatalf("expected %d tones, got %d", FT4SymbolCount, len(tones))
	}
	for _, pos := range FT4RampSymbols {
		if tones[pos] != 0 {
			t.Errorf("ramp symbol at %d = %d, want 0", pos, tones[pos])
		}
	}
	for block, off := range FT4CostasOffsets {
		for i := 0; i < 4; i++ {
			if tones[off+i] != FT4Costas[block][i] {
				t.Errorf("tone at %d = %d, want Costas block %d[%d] = %d", off+i, tones[off+i], block, i, FT4Costas[block][i])
			}
		}
	}
	for _, tone := range tones {
		if tone < 0 || tone >= FT4ToneCount {
			t.Fatalf("tone %d out of range [0,%d)", tone, FT4ToneCount)
		}
	}
}

func TestTonesGrayMapRoundTrip(t *testing.T) {
	var cw Codeword
	for i := range cw {
		cw[i] = byte(0x55 + i)
	}

	tones := tonesFT8(cw)
	k := CostasLength
	for j := 0; j < 58; j++ {
		if j == 29 {
			k += CostasLength
		}
		bitIdx := 3 * j
		want := int(getBit(cw[:], bitIdx))*4 + int(getBit(cw[:], bitIdx+1))*2 + int(getBit(cw[:], bitIdx+2))
		if FT8GrayInverse[tones[k]] != want {
			t.Errorf("data symbol %d: Gray-decoded tone %d gives bits %d, want %d", j, tones[k], FT8GrayInverse[tones[k]], want)
		}
		k++
	}
}

func TestModulateSampleCountAndAmplitude(t *testing.T) {
	var cw Codeword
	for i := range cw {
		cw[i] = byte(0xA5 ^ i)
	}
	tones := Tones(cw, ProtocolFT8)

	const sampleRate = 12000
	samples := Modulate(tones, ProtocolFT8, sampleRate, 1000.0)

	nspsym := int(FT8SymbolTime * sampleRate)
	want := len(tones) * nspsym
	if len(samples) != want {
		t.Fatalf("got %d samples, want %d", len(samples), want)
	}
	for i, s := range samples {
		if s < -1.0001 || s > 1.0001 {
			t.Fatalf("sample %d = %v out of [-1,1] amplitude bounds", i, s)
		}
	}
	// The raised-cosine taper should start and end near zero amplitude.
	if samples[0] > 0.05 || samples[0] < -0.05 {
		t.Errorf("first sample should be tapered near zero, got %v", samples[0])
	}
	last := samples[len(samples)-1]
	if last > 0.05 || last < -0.05 {
		t.Errorf("last sample should be tapered near zero, got %v", last)
	}
}

func TestModulateFT4SampleCount(t *testing.T) {
	var cw Codeword
	tones := Tones(cw, ProtocolFT4)

	const sampleRate = 12000
	samples := Modulate(tones, ProtocolFT4, sampleRate, 1500.0)

	nspsym := int(FT4SymbolTime * sampleRate)
	want := len(tones) * nspsym
	if len(samples) != want {
		t.Fatalf("got %d samples, want %d", len(samples), want)
	}
}
