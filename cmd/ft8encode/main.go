// Command ft8encode is a standalone CLI for encoding a single FT8 or FT4
// message to audio, without running the daemon. It is useful for testing
// a radio's audio chain or generating a reference signal offline.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/kb9vqf/ft8d/pkg/dsp"
)

func main() {
	var (
		message    = flag.String("message", "", "message to encode, e.g. \"CQ K1ABC FN42\"")
		modeName   = flag.String("mode", "ft8", "protocol mode: ft8 or ft4")
		sampleRate = flag.Int("rate", 12000, "audio sample rate in Hz")
		frequency  = flag.Float64("freq", 1500.0, "tone-zero carrier frequency in Hz")
		output     = flag.String("output", "", "output audio file (raw signed 16-bit PCM, little endian)")
	)
	flag.Parse()

	if *message == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s -message \"CQ K1ABC FN42\" [options]\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	var mode dsp.Mode
	switch *modeName {
	case "ft8":
		mode = dsp.ModeFT8
	case "ft4":
		mode = dsp.ModeFT4
	default:
		fmt.Fprintf(os.Stderr, "Unknown mode %q, expected \"ft8\" or \"ft4\"\n", *modeName)
		os.Exit(1)
	}

	codec := dsp.NewCodec(mode)
	codec.SetSampleRate(*sampleRate)
	codec.SetCarrierFrequency(*frequency)
	if err := codec.Initialize(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize codec: %v\n", err)
		os.Exit(1)
	}
	defer codec.Close()

	fmt.Printf("Encoding %s Message\n", mode)
	fmt.Printf("====================\n")
	fmt.Printf("Message:   %q\n", *message)
	fmt.Printf("Rate:      %d Hz\n", *sampleRate)
	fmt.Printf("Carrier:   %.1f Hz\n", *frequency)
	fmt.Printf("\n")

	audio, err := codec.EncodeMessage(*message, mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Encoding failed: %v\n", err)
		os.Exit(1)
	}

	duration := codec.EstimateAudioDuration(mode).Seconds()
	fmt.Printf("Generated %d audio samples (%.2f seconds)\n", len(audio), duration)

	var minSample, maxSample int16 = 32767, -32768
	var avgSample float64
	for _, sample := range audio {
		if sample < minSample {
			minSample = sample
		}
		if sample > maxSample {
			maxSample = sample
		}
		avgSample += float64(sample)
	}
	if len(audio) > 0 {
		avgSample /= float64(len(audio))
	}

	fmt.Printf("Audio Stats:\n")
	fmt.Printf("  Range:    %d to %d\n", minSample, maxSample)
	fmt.Printf("  Average:  %.1f\n", avgSample)
	fmt.Printf("  Peak:     %.1f%% of full scale\n", float64(maxSample)/32767.0*100)

	if *output != "" {
		file, err := os.Create(*output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create output file: %v\n", err)
			os.Exit(1)
		}
		defer file.Close()

		for _, sample := range audio {
			file.Write([]byte{byte(sample), byte(sample >> 8)})
		}

		fmt.Printf("Wrote audio to %s\n", *output)
		fmt.Printf("  Play with: sox -r %d -e signed -b 16 -c 1 %s -t alsa\n", *sampleRate, *output)
	}
}
