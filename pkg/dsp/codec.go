// Package dsp is the thin orchestration layer between the ft8 codec CORE
// and the daemon: it owns sample-rate/mode configuration, scratch-buffer
// pooling, and the []int16 <-> []float32 audio conversion the CORE never
// touches.
package dsp

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/kb9vqf/ft8d/pkg/ft8"
)

// Mode selects which of the two protocols a Codec operates in.
type Mode int

const (
	ModeFT8 Mode = iota
	ModeFT4
)

func (m Mode) protocol() ft8.Protocol {
	if m == ModeFT4 {
		return ft8.ProtocolFT4
	}
	return ft8.ProtocolFT8
}

func (m Mode) String() string {
	if m == ModeFT4 {
		return "FT4"
	}
	return "FT8"
}

// DecodeResult mirrors one entry of a Codec.DecodeBuffer callback: a
// decoded message plus the metadata a daemon needs to log, store, or
// stream to a client.
type DecodeResult struct {
	UTC       int64   `json:"utc"`
	SNR       int     `json:"snr"`
	DT        float32 `json:"dt"`
	Frequency float32 `json:"frequency"`
	Message   string  `json:"message"`
	Type      int     `json:"type"`
	Quality   float32 `json:"quality"`
	Mode      string  `json:"mode"`

	// CallTo/CallDe/Extra are populated when Type is ft8.KindStandard, the
	// two-callsign exchange most CQ and QSO traffic uses. Extra carries a
	// grid, signal report, or RRR/RR73/73 acknowledgement.
	CallTo string `json:"call_to,omitempty"`
	CallDe string `json:"call_de,omitempty"`
	Extra  string `json:"extra,omitempty"`
}

var (
	// ErrNotInitialized is returned by Codec methods called before Initialize.
	ErrNotInitialized = errors.New("dsp: codec not initialized")
	// ErrEmptyMessage is returned by EncodeMessage for a blank input string.
	ErrEmptyMessage = errors.New("dsp: message cannot be empty")
)

// DecodeResult.Type values, mirroring ft8.MessageKind so callers outside
// this package can classify a result without importing pkg/ft8 directly.
const (
	KindInvalid     = int(ft8.KindInvalid)
	KindStandard    = int(ft8.KindStandard)
	KindFreeText    = int(ft8.KindFreeText)
	KindTelemetry   = int(ft8.KindTelemetry)
	KindNonStandard = int(ft8.KindNonStandard)
)

// Codec wraps the ft8 CORE with the sample-rate/mode configuration and
// scratch-buffer pooling a long-running daemon needs. It holds no
// blocking I/O of its own; the daemon supplies audio in and consumes
// decoded messages out.
type Codec struct {
	mode         Mode
	sampleRateHz int
	f0Hz         float64
	nfft         int
	minFreqHz    float64
	maxFreqHz    float64
	maxLDPCIters int
	minSyncScore float64

	hashTable   *ft8.HashTable
	pool        *SampleBufferPool
	initialized bool
}

// NewCodec creates a Codec for the given mode with the library's default
// sample rate (12 kHz) and search bandwidth (200-3000 Hz).
func NewCodec(mode Mode) *Codec {
	c := &Codec{
		mode:         mode,
		sampleRateHz: ft8.DefaultSampleRateHz,
		f0Hz:         1500.0,
		minFreqHz:    200,
		maxFreqHz:    3000,
		maxLDPCIters: 20,
		minSyncScore: 1.5,
		hashTable:    ft8.NewHashTable(),
		pool:         GetGlobalSamplePool(),
	}
	c.nfft = c.symbolNFFT()
	return c
}

// symbolNFFT picks the FFT size that gives one waterfall block per symbol
// period, so the resulting bin spacing lines up exactly with the mode's
// tone spacing (BuildSpectrogram's own convention, see waterfall.go).
func (c *Codec) symbolNFFT() int {
	return int(math.Round(c.mode.protocol().SymbolTime() * float64(c.sampleRateHz)))
}

// Initialize prepares the codec for use. It exists to mirror the
// teacher's DSP lifecycle (Initialize/Close pair) even though the ft8
// CORE itself needs no setup.
func (c *Codec) Initialize() error {
	c.initialized = true
	return nil
}

// Close releases codec resources.
func (c *Codec) Close() error {
	c.initialized = false
	return nil
}

// SetSampleRate sets the audio sample rate used for both encode and
// decode, and recomputes the FFT size that keeps bin spacing aligned to
// tone spacing at the new rate.
func (c *Codec) SetSampleRate(rate int) {
	c.sampleRateHz = rate
	c.nfft = c.symbolNFFT()
}

// GetSampleRate returns the configured sample rate.
func (c *Codec) GetSampleRate() int {
	return c.sampleRateHz
}

// SetCarrierFrequency sets the tone-zero carrier frequency used by EncodeMessage.
func (c *Codec) SetCarrierFrequency(hz float64) {
	c.f0Hz = hz
}

// SetSearchBand sets the frequency range DecodeBuffer searches for candidates.
func (c *Codec) SetSearchBand(minHz, maxHz float64) {
	c.minFreqHz = minHz
	c.maxFreqHz = maxHz
}

// SetMaxLDPCIters caps the belief-propagation iterations DecodeBuffer
// spends per candidate before giving up.
func (c *Codec) SetMaxLDPCIters(n int) {
	c.maxLDPCIters = n
}

// SetMinSyncScore sets the Costas correlation threshold a candidate must
// clear before DecodeBuffer attempts to demodulate and LDPC-decode it.
func (c *Codec) SetMinSyncScore(score float64) {
	c.minSyncScore = score
}

// EncodeMessage packs, CRCs, LDPC-encodes and modulates a text message
// into signed 16-bit PCM audio samples at the configured sample rate.
func (c *Codec) EncodeMessage(message string, mode Mode) ([]int16, error) {
	if !c.initialized {
		return nil, ErrNotInitialized
	}
	if message == "" {
		return nil, ErrEmptyMessage
	}

	msg, err := ft8.Parse(message)
	if err != nil {
		return nil, fmt.Errorf("dsp: parse message: %w", err)
	}

	payload, err := ft8.Pack(msg, c.hashTable)
	if err != nil {
		return nil, fmt.Errorf("dsp: pack message: %w", err)
	}

	w := ft8.AppendCRC(payload)
	protocol := mode.protocol()

	if mode == ModeFT4 {
		for i := 0; i < 10; i++ {
			w[i] ^= ft8.FT4XORSequence[i]
		}
	}

	cw := ft8.EncodeLDPC(w)
	tones := ft8.Tones(cw, protocol)
	samples := ft8.Modulate(tones, protocol, c.sampleRateHz, c.f0Hz)

	return floatToPCM16(samples), nil
}

// DecodeBuffer runs a full decode pass over int16 PCM audio and invokes
// callback once per decoded message, returning the number decoded.
func (c *Codec) DecodeBuffer(audioData []int16, callback func(*DecodeResult)) (int, error) {
	if !c.initialized {
		return 0, ErrNotInitialized
	}
	if len(audioData) == 0 {
		return 0, nil
	}

	buf := c.pool.Get(len(audioData))
	defer buf.Release()
	samples := buf.Data
	pcm16ToFloat(audioData, samples)

	protocol := c.mode.protocol()
	opts := ft8.DecodeOptions{
		SampleRateHz:  float64(c.sampleRateHz),
		NFFT:          c.nfft,
		MinFreqHz:     c.minFreqHz,
		MaxFreqHz:     c.maxFreqHz,
		MaxCandidates: 32,
		MinSyncScore:  c.minSyncScore,
		MaxLDPCIters:  c.maxLDPCIters,
	}

	decoded := ft8.Decode(samples, protocol, c.hashTable, opts)
	now := time.Now().Unix()
	for _, d := range decoded {
		result := &DecodeResult{
			UTC:       now,
			SNR:       int(math.Round(d.SNR)),
			DT:        float32(d.TimeBin) * float32(protocol.SymbolTime()),
			Frequency: float32(float64(d.FreqBin) * (float64(c.sampleRateHz) / float64(c.nfft))),
			Message:   d.Message.String(),
			Type:      int(d.Message.Kind),
			Quality:   qualityFromLDPCErrors(d.LDPCErrors),
			Mode:      c.mode.String(),
			CallTo:    d.Message.CallTo,
			CallDe:    d.Message.CallDe,
			Extra:     d.Message.Extra,
		}
		if callback != nil {
			callback(result)
		}
	}

	return len(decoded), nil
}

// EstimateAudioDuration returns the fixed transmission length for the
// codec's configured mode's slot time.
func (c *Codec) EstimateAudioDuration(mode Mode) time.Duration {
	slot := mode.protocol().SlotTime()
	return time.Duration(slot * float64(time.Second))
}

// HashTable exposes the codec's callsign hash table so a daemon can seed
// it with heard callsigns across decode calls.
func (c *Codec) HashTable() *ft8.HashTable {
	return c.hashTable
}

func qualityFromLDPCErrors(errs int) float32 {
	if errs == 0 {
		return 1.0
	}
	return 0.0
}

func floatToPCM16(samples []float32) []int16 {
	out := make([]int16, len(samples))
	for i, s := range samples {
		v := s * 32767.0
		if v > 32767 {
			v = 32767
		}
		if v < -32768 {
			v = -32768
		}
		out[i] = int16(v)
	}
	return out
}

func pcm16ToFloat(in []int16, out []float32) {
	for i, s := range in {
		out[i] = float32(s) / 32768.0
	}
}
