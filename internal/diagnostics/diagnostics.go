// Package diagnostics provides optional, best-effort sanity checks over a
// classification Result: per-channel DC offset and, for stereo results,
// inter-channel correlation. These are not part of the classification
// decision — they run after the fact, decoded using the winning
// FormatClass, purely to give a human a second signal that the guess
// looks sane.
package diagnostics

import (
	"io"
	"math"

	"github.com/farcloser/rawsniff/internal/classifier"
	"github.com/farcloser/rawsniff/internal/preprocess"
	"github.com/farcloser/rawsniff/internal/rawreader"
	"github.com/farcloser/rawsniff/internal/types"
)

// previewFrames caps how many per-channel samples the report is computed
// over; large enough to be stable, small enough to stay a quick pass.
const previewFrames = 4096

// Report holds a short preview decode's per-channel DC offset (in the
// classified format's native sample units, unscaled) and, for stereo
// results, the Pearson correlation between the two channels.
type Report struct {
	DCOffset    []float64
	Correlation float64
	Frames      int
}

// Analyze decodes a short preview of src using result's FormatClass and
// channel count, then reports per-channel DC offset and, for stereo
// results, the correlation between channels.
func Analyze(src io.ReadSeeker, result types.Result) (Report, error) {
	channels := result.Channels
	width := result.Class.Format.Width()

	reader := rawreader.New(src)
	rawBuf := make([]byte, previewFrames*width)

	perChannel := make([][]float64, channels)
	frames := 0

	for ch := 0; ch < channels; ch++ {
		if err := reader.Reset(classifier.HeaderSkip + int64(ch*width)); err != nil {
			return Report{}, err
		}

		n, err := reader.Read(rawBuf, previewFrames, channels, result.Class.Format, result.Class.Endian)
		if err != nil {
			return Report{}, err
		}

		samples := make([]float64, n)
		preprocess.ConvertSamplesInto(rawBuf[:n*width], result.Class.Format, samples)

		perChannel[ch] = samples
		if n > frames {
			frames = n
		}
	}

	offsets := make([]float64, channels)
	for ch, samples := range perChannel {
		if len(samples) > 0 {
			offsets[ch] = preprocess.Mean(samples)
		}
	}

	var correlation float64
	if channels == 2 && len(perChannel[0]) > 0 && len(perChannel[0]) == len(perChannel[1]) {
		correlation = pearson(perChannel[0], perChannel[1])
	}

	return Report{DCOffset: offsets, Correlation: correlation, Frames: frames}, nil
}

// pearson computes the Pearson correlation coefficient between two
// equal-length series, the same formula internal/audit/stereo (the
// teacher's caller-declared-format stereo analyzer) uses.
func pearson(a, b []float64) float64 {
	n := float64(len(a))

	var sumA, sumB, sumAA, sumBB, sumAB float64

	for i := range a {
		sumA += a[i]
		sumB += b[i]
		sumAA += a[i] * a[i]
		sumBB += b[i] * b[i]
		sumAB += a[i] * b[i]
	}

	numerator := n*sumAB - sumA*sumB
	denominator := math.Sqrt((n*sumAA - sumA*sumA) * (n*sumBB - sumB*sumB))

	if denominator <= 0 {
		return 0
	}

	return numerator / denominator
}
