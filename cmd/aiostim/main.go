package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-audio/audio"
)

const analysisBufferSize = 8192

// channelStats accumulates the running level statistics of one channel.
type channelStats struct {
	sumSquares float64
	peak       float64
	samples    int64
}

func main() {
	var target float64

	flag.Float64Var(&target, "target", 0, "Target peak level in dBFS; when set, a gain adjustment is suggested.")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <stimulus file>\n", os.Args[0])
		fmt.Fprintln(os.Stderr, "\nSupported formats: WAV, MP3, Ogg Vorbis.")
		fmt.Fprintln(os.Stderr, "\nOptions:")
		if f := flag.Lookup("target"); f != nil {
			fmt.Fprintf(os.Stderr, "  --%s\n    \t%v (default %q)\n", f.Name, f.Usage, f.DefValue)
		}
	}

	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	path := flag.Arg(0)

	decoder, file, err := openDecoder(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening stimulus: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()

	stats, err := analyze(decoder)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error decoding stimulus: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("File:        %s\n", path)
	fmt.Printf("Sample rate: %d Hz\n", decoder.SampleRate())
	fmt.Printf("Channels:    %d\n", decoder.NumChans())
	fmt.Printf("Bit depth:   %d\n", decoder.BitDepth())

	if len(stats) > 0 && stats[0].samples > 0 {
		seconds := float64(stats[0].samples) / float64(decoder.SampleRate())
		fmt.Printf("Duration:    %.2f s\n", seconds)
	}

	fullScale := float64(int64(1)<<(decoder.BitDepth()-1)) - 1

	for i, st := range stats {
		if st.samples == 0 {
			fmt.Printf("Channel %d: empty\n", i)

			continue
		}

		rms := math.Sqrt(st.sumSquares / float64(st.samples))
		rmsDB := toDBFS(rms, fullScale)
		peakDB := toDBFS(st.peak, fullScale)

		line := fmt.Sprintf("Channel %d: RMS %.1f dBFS, peak %.1f dBFS", i, rmsDB, peakDB)

		if target != 0 {
			line += fmt.Sprintf(", suggested gain adjustment %+.1f dB", target-peakDB)
		}

		fmt.Println(line)
	}
}

// analyze decodes the whole stimulus and accumulates per-channel statistics.
func analyze(decoder StimulusDecoder) ([]channelStats, error) {
	channels := int(decoder.NumChans())
	if channels < 1 {
		return nil, errors.New("stimulus has no channels")
	}

	stats := make([]channelStats, channels)

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: channels,
			SampleRate:  int(decoder.SampleRate()),
		},
		Data:           make([]int, analysisBufferSize*channels),
		SourceBitDepth: int(decoder.BitDepth()),
	}

	for {
		n, err := decoder.PCMBuffer(buf)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}

		for i := 0; i < n; i++ {
			sample := math.Abs(float64(buf.Data[i]))
			st := &stats[i%channels]

			st.sumSquares += sample * sample
			st.samples++

			if sample > st.peak {
				st.peak = sample
			}
		}

		if n == 0 || errors.Is(err, io.EOF) {
			break
		}
	}

	return stats, nil
}

// toDBFS converts a linear sample magnitude to decibels relative to full scale.
func toDBFS(value, fullScale float64) float64 {
	if value <= 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(value/fullScale)
}
