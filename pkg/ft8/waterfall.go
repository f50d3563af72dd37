package ft8

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Waterfall is the time-frequency representation a decode starts from:
// log-power per (time-block, frequency-bin), standardised to zero mean
// and unit variance within each frequency column, per spec §4.5.
// Grounded on madpsy-ka9q_ubersdr's waterfall.go, which builds the
// equivalent structure but keeps a uint8 dB-quantised Mag array; this
// codec keeps gonum's FFT call but replaces that quantisation with the
// float32 z-score normalisation the spec requires.
type Waterfall struct {
	Protocol  Protocol
	NumBlocks int
	NumBins   int
	BinHz     float64
	StepS     float64
	Mag       []float32 // [block*NumBins + bin]
}

func (wf *Waterfall) at(block, bin int) float64 {
	if block < 0 || block >= wf.NumBlocks || bin < 0 || bin >= wf.NumBins {
		return 0
	}
	return float64(wf.Mag[block*wf.NumBins+bin])
}

// BuildSpectrogram runs a real FFT of length nfft over samples with hop
// nstep, applies a Hann window, and standardises the resulting log-power
// spectrogram per frequency bin. Decode always chooses nstep equal to
// one symbol period's worth of samples, so waterfall block index and
// symbol index coincide — every downstream sync/extract computation
// relies on that.
func BuildSpectrogram(samples []float32, fsHz float64, nfft, nstep int, protocol Protocol) *Waterfall {
	window := hannWindow(nfft)
	fft := fourier.NewFFT(nfft)
	numBins := nfft/2 + 1

	numBlocks := 0
	if len(samples) >= nfft {
		numBlocks = (len(samples)-nfft)/nstep + 1
	}

	mag := make([]float32, numBlocks*numBins)
	timeBuf := make([]float64, nfft)

	for b := 0; b < numBlocks; b++ {
		offset := b * nstep
		for i := 0; i < nfft; i++ {
			timeBuf[i] = float64(samples[offset+i]) * window[i]
		}
		coeffs := fft.Coefficients(nil, timeBuf)
		for f := 0; f < numBins; f++ {
			re, im := real(coeffs[f]), imag(coeffs[f])
			power := re*re + im*im
			mag[b*numBins+f] = float32(math.Log10(power + 1e-6))
		}
	}

	standardizeColumns(mag, numBlocks, numBins)

	return &Waterfall{
		Protocol:  protocol,
		NumBlocks: numBlocks,
		NumBins:   numBins,
		BinHz:     fsHz / float64(nfft),
		StepS:     float64(nstep) / fsHz,
		Mag:       mag,
	}
}

func standardizeColumns(mag []float32, numBlocks, numBins int) {
	for f := 0; f < numBins; f++ {
		var sum, sumSq float64
		for b := 0; b < numBlocks; b++ {
			v := float64(mag[b*numBins+f])
			sum += v
			sumSq += v * v
		}
		n := float64(numBlocks)
		if n == 0 {
			continue
		}
		mean := sum / n
		variance := sumSq/n - mean*mean
		std := 1.0
		if variance > 1e-12 {
			std = math.Sqrt(variance)
		}
		for b := 0; b < numBlocks; b++ {
			idx := b*numBins + f
			mag[idx] = float32((float64(mag[idx]) - mean) / std)
		}
	}
}

func hannWindow(n int) []float64 {
	w := make([]float64, n)
	for i := 0; i < n; i++ {
		x := math.Sin(math.Pi * float64(i) / float64(n))
		w[i] = x * x
	}
	return w
}
