package ft8

import "math"

// DefaultNFFT and DefaultSampleRate are the spectrogram parameters spec
// §4.5/§6 name as the standard configuration (12 kHz audio, 2048-point
// FFT). BuildSpectrogram's hop is always chosen to match one symbol
// period so waterfall block index and symbol index coincide.
const (
	DefaultSampleRateHz = 12000
	DefaultNFFT         = 2048
)

// DecodeOptions tunes a decode pass. Zero-value Options uses the
// package's defaults.
type DecodeOptions struct {
	SampleRateHz  float64
	NFFT          int
	MinFreqHz     float64
	MaxFreqHz     float64
	MaxCandidates int
	MinSyncScore  float64
	MaxLDPCIters  int
}

func (o DecodeOptions) withDefaults() DecodeOptions {
	if o.SampleRateHz == 0 {
		o.SampleRateHz = DefaultSampleRateHz
	}
	if o.NFFT == 0 {
		o.NFFT = DefaultNFFT
	}
	if o.MaxFreqHz == 0 {
		o.MaxFreqHz = 2500
	}
	if o.MaxCandidates == 0 {
		o.MaxCandidates = 32
	}
	if o.MaxLDPCIters == 0 {
		o.MaxLDPCIters = 20
	}
	return o
}

// Decoded is one successfully decoded candidate: the recovered message,
// its estimated SNR, and where in the recording it was found.
type Decoded struct {
	Message    Message
	SNR        float64
	TimeBin    int
	FreqBin    int
	LDPCErrors int
}

// Decode runs the full demodulation pipeline of spec §4.5 end to end:
// build a spectrogram, search for Costas-sync candidates, extract soft
// symbols, run LDPC decode, verify CRC, undo FT4 whitening, and unpack
// the message. Only candidates that reach the Decoded state are
// returned; every other candidate is dropped without aborting the rest
// of the batch, per §7's per-candidate error model.
func Decode(samples []float32, protocol Protocol, ht *HashTable, opts DecodeOptions) []Decoded {
	opts = opts.withDefaults()

	symsPerFrame := protocol.SymbolCount()
	nstep := int(math.Round(protocol.SymbolTime() * opts.SampleRateHz))

	wf := BuildSpectrogram(samples, opts.SampleRateHz, opts.NFFT, nstep, protocol)

	candidates := FindCandidates(wf, protocol, opts.MinFreqHz, opts.MaxFreqHz, opts.MaxCandidates, opts.MinSyncScore)

	var results []Decoded
	for _, cand := range candidates {
		if cand.TimeBin+symsPerFrame > wf.NumBlocks {
			continue
		}

		llr := ExtractLLRs(wf, cand, protocol)
		cw, errs := DecodeLDPC(llr, opts.MaxLDPCIters)
		if errs != 0 {
			continue
		}

		var w PayloadWithCrc
		copy(w[:], cw[:12])

		if protocol == ProtocolFT4 {
			for i := 0; i < 10; i++ {
				w[i] ^= FT4XORSequence[i]
			}
		}

		if !CheckCRC(w) {
			continue
		}

		var payload Payload
		copy(payload[:], w[:10])

		msg, err := Unpack(payload, ht)
		if err != nil && msg.Kind != KindNonStandard {
			continue
		}

		results = append(results, Decoded{
			Message:    msg,
			SNR:        estimateSNR(wf, cand, cw, protocol),
			TimeBin:    cand.TimeBin,
			FreqBin:    cand.FreqBin,
			LDPCErrors: errs,
		})
	}

	return results
}

// estimateSNR compares average on-tone magnitude at the decoded
// codeword's tones against neighbouring off-signal bins, per spec
// §4.5, clamped to [-24, +24] dB. Grounded on
// madpsy-ka9q_ubersdr's snr.go CalculateSNR, adapted to operate on the
// standardised float32 waterfall (which is already in a log-power-like
// domain) instead of its uint8 dB-quantised one.
func estimateSNR(wf *Waterfall, cand Candidate, cw Codeword, protocol Protocol) float64 {
	tones := Tones(cw, protocol)
	toneBinSpacing := protocol.ToneSpacing() / wf.BinHz
	numTones := protocol.ToneCount()

	var sigSum float64
	sigCount := 0
	var noiseSum float64
	noiseCount := 0

	for i, tone := range tones {
		t := cand.TimeBin + i
		sigBin := cand.FreqBin + roundToInt(float64(tone)*toneBinSpacing)
		sigSum += wf.at(t, sigBin)
		sigCount++

		for other := 0; other < numTones; other++ {
			if other == tone {
				continue
			}
			bin := cand.FreqBin + roundToInt(float64(other)*toneBinSpacing)
			noiseSum += wf.at(t, bin)
			noiseCount++
		}
	}

	if sigCount == 0 || noiseCount == 0 {
		return -24
	}

	signalPower := sigSum / float64(sigCount)
	noisePower := noiseSum / float64(noiseCount)
	if noisePower <= 0 {
		noisePower = 1e-9
	}

	snr := 10 * math.Log10(math.Max(signalPower/noisePower, 1e-9))
	if snr < -24 {
		snr = -24
	}
	if snr > 24 {
		snr = 24
	}
	return snr
}
