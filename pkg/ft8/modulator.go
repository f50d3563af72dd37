package ft8

import "math"

// Tones reconstructs the transmitted 79 (FT8) or 105 (FT4) symbol-tone
// sequence from a 174-bit codeword: Costas sync blocks interleaved with
// Gray-coded 3-bit (FT8) or 2-bit (FT4) data tones. Grounded on
// madpsy-ka9q_ubersdr's snr.go getTonesFromBitsFT8/FT4, which performs
// the identical reconstruction to recompute SNR after a successful
// decode; used here in the forward (transmit) direction as well.
func Tones(cw Codeword, protocol Protocol) ToneSequence {
	if protocol == ProtocolFT4 {
		return tonesFT4(cw)
	}
	return tonesFT8(cw)
}

func tonesFT8(cw Codeword) ToneSequence {
	itone := make(ToneSequence, FT8SymbolCount)

	for i := 0; i < CostasLength; i++ {
		itone[FT8CostasOffsets[0]+i] = FT8Costas[i]
		itone[FT8CostasOffsets[1]+i] = FT8Costas[i]
		itone[FT8CostasOffsets[2]+i] = FT8Costas[i]
	}

	const dataSymbols = 58
	k := CostasLength
	for j := 0; j < dataSymbols; j++ {
		if j == 29 {
			k += CostasLength
		}
		bitIdx := 3 * j
		idx := int(getBit(cw[:], bitIdx))*4 + int(getBit(cw[:], bitIdx+1))*2 + int(getBit(cw[:], bitIdx+2))
		itone[k] = FT8GrayMap[idx]
		k++
	}
	return itone
}

func tonesFT4(cw Codeword) ToneSequence {
	itone := make(ToneSequence, FT4SymbolCount)

	itone[FT4RampSymbols[0]] = 0
	itone[FT4RampSymbols[1]] = 0

	for block := 0; block < 4; block++ {
		off := FT4CostasOffsets[block]
		for i := 0; i < 4; i++ {
			itone[off+i] = FT4Costas[block][i]
		}
	}

	const dataSymbols = 87
	k := 5
	for j := 0; j < dataSymbols; j++ {
		switch j {
		case 29, 58:
			k += 4
		}
		bitIdx := 2 * j
		idx := int(getBit(cw[:], bitIdx))*2 + int(getBit(cw[:], bitIdx+1))
		itone[k] = FT4GrayMap[idx]
		k++
	}
	return itone
}

// gaussianPulseSpan is how many symbol periods either side of a symbol
// its Gaussian frequency pulse contributes energy to; spec §4.4 defines
// the pulse over t in [-1.5, 1.5] symbol periods, so +/-2 comfortably
// covers its support.
const gaussianPulseSpan = 2

// gaussianPulse evaluates the normalised Gaussian frequency-shaping
// pulse at offset t (in symbol periods) for the given bandwidth-time
// product bt: p(t) = (erf(K*bt*(t+0.5)) - erf(K*bt*(t-0.5)))/2, K =
// pi*sqrt(2/ln2). Grounded on
// other_examples/8ff-udarp__fskGenerator.go's identical erf-based
// pulse, generalised here to take bt as a parameter so it serves both
// FT8 (BT=2.0) and FT4 (BT=1.0), matching spec §4.4 exactly.
func gaussianPulse(t, bt float64) float64 {
	k := math.Pi * math.Sqrt(2.0/math.Ln2)
	c := k * bt
	return 0.5 * (math.Erf(c*(t+0.5)) - math.Erf(c*(t-0.5)))
}

// Modulate synthesises a continuous-phase GFSK baseband waveform for
// tones at the given sample rate and base (audio) frequency, following
// spec §4.4's phase-increment construction: each symbol contributes a
// Gaussian-shaped increment to a running phase-increment sum (h=1
// modulation index, which the fixed FT8/FT4 tone-spacing/symbol-time
// products make exactly toneSpacing Hz per tone step), integrated into
// a continuous phase so consecutive symbols join without discontinuity,
// tapered by a raised-cosine envelope over the leading/trailing
// Nspsym/8 samples. Boundary symbols are duplicated past the ends of
// the tone sequence, per spec, so the pulse shaping stays valid there.
func Modulate(tones ToneSequence, protocol Protocol, sampleRateHz int, f0Hz float64) []float32 {
	tsym := protocol.SymbolTime()
	bt := protocol.GaussianBT()
	ns := len(tones)

	nspsym := int(math.Round(tsym * float64(sampleRateHz)))
	totalSamples := ns * nspsym
	out := make([]float32, totalSamples)

	// dphiPeak = 2*pi*h/Nspsym with h=1; FT8/FT4's toneSpacing*symbolTime
	// both equal 1.0, so this increment is exactly 2*pi*toneSpacing/fs
	// per unit tone step, as spec's h=1 modulation index intends.
	dphiPeak := 2 * math.Pi / float64(nspsym)
	baseDphi := 2 * math.Pi * f0Hz / float64(sampleRateHz)

	symbolAt := func(i int) int {
		if i < 0 {
			i = 0
		} else if i >= ns {
			i = ns - 1
		}
		return tones[i]
	}

	rampLen := nspsym / 8
	if rampLen < 1 {
		rampLen = 1
	}

	phi := 0.0
	for n := 0; n < totalSamples; n++ {
		symPos := float64(n) / float64(nspsym)
		center := n / nspsym

		dphi := baseDphi
		for i := center - gaussianPulseSpan; i <= center+gaussianPulseSpan; i++ {
			t := symPos - float64(i)
			dphi += dphiPeak * float64(symbolAt(i)) * gaussianPulse(t, bt)
		}

		phi += dphi
		for phi > math.Pi {
			phi -= 2 * math.Pi
		}
		for phi < -math.Pi {
			phi += 2 * math.Pi
		}

		sample := math.Sin(phi)

		envelope := 1.0
		if n < rampLen {
			envelope = 0.5 * (1 - math.Cos(math.Pi*float64(n)/float64(rampLen)))
		} else if n >= totalSamples-rampLen {
			envelope = 0.5 * (1 - math.Cos(math.Pi*float64(totalSamples-1-n)/float64(rampLen)))
		}

		out[n] = float32(sample * envelope)
	}

	return out
}
