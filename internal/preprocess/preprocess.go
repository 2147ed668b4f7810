// Package preprocess implements the per-candidate signal transformation
// chain: widen raw samples to float64, sinc×Hann window, polyphase fold,
// DC removal, and L2-norm normalization.
package preprocess

import (
	"encoding/binary"
	"math"

	"github.com/farcloser/rawsniff/internal/types"
)

// Dither-compensation equalizer constants.
const (
	DitherF1  = 0.31
	DitherF2  = 0.42
	DitherADb = 12.0
)

// ConvertSamplesInto widens raw (already byte-order-corrected to host
// order) bytes into out by direct numeric cast per element, no scaling.
// Signed types stay signed, unsigned stay unsigned. It converts
// min(len(raw)/format.Width(), len(out)) samples and returns that count.
func ConvertSamplesInto(raw []byte, format types.SampleFormat, out []float64) int {
	width := format.Width()
	count := len(raw) / width

	if count > len(out) {
		count = len(out)
	}

	switch format {
	case types.FormatInt8:
		for i := 0; i < count; i++ {
			out[i] = float64(int8(raw[i])) //nolint:gosec // direct narrowing cast per spec
		}
	case types.FormatUint8:
		for i := 0; i < count; i++ {
			out[i] = float64(raw[i])
		}
	case types.FormatInt16:
		for i := 0; i < count; i++ {
			out[i] = float64(int16(binary.NativeEndian.Uint16(raw[i*2:]))) //nolint:gosec
		}
	case types.FormatUint16:
		for i := 0; i < count; i++ {
			out[i] = float64(binary.NativeEndian.Uint16(raw[i*2:]))
		}
	case types.FormatInt32:
		for i := 0; i < count; i++ {
			out[i] = float64(int32(binary.NativeEndian.Uint32(raw[i*4:]))) //nolint:gosec
		}
	case types.FormatUint32:
		for i := 0; i < count; i++ {
			out[i] = float64(binary.NativeEndian.Uint32(raw[i*4:]))
		}
	case types.FormatFloat32:
		for i := 0; i < count; i++ {
			out[i] = float64(math.Float32frombits(binary.NativeEndian.Uint32(raw[i*4:])))
		}
	case types.FormatFloat64:
		for i := 0; i < count; i++ {
			out[i] = math.Float64frombits(binary.NativeEndian.Uint64(raw[i*8:]))
		}
	}

	return count
}

// SincWindowInto fills dst (length S) with a sinc lobe tapered by a Hann
// window: x = (4π/(S-1))·n - 2π, w[n] = sin(x)/x · 0.5·(1 - cos(2πn/(S-1))).
// Guards the n = (S-1)/2 singularity (x == 0) for odd lengths by
// substituting the limit value 1; for even S, the standard candidate
// length used throughout this package, x is never exactly zero.
func SincWindowInto(dst []float64) {
	n := len(dst)
	m := float64(n - 1)

	for i := 0; i < n; i++ {
		x := (4*math.Pi/m)*float64(i) - 2*math.Pi

		var sinc float64
		if x == 0 {
			sinc = 1
		} else {
			sinc = math.Sin(x) / x
		}

		hann := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/m))
		dst[i] = sinc * hann
	}
}

// EqualizerMaskInto fills dst (length N) with a piecewise-linear
// dither-compensation mask in normalized frequency f = n/N: 1 below F1,
// a linear ramp down to A = 10^(-DitherADb/20) between F1 and F2, A above
// F2, then mirrored about the Nyquist index.
func EqualizerMaskInto(dst []float64) {
	n := len(dst)
	a := math.Pow(10, -DitherADb/20)
	slope := (a - 1) / (DitherF2 - DitherF1)
	half := n / 2

	for i := 0; i < half; i++ {
		f := float64(i) / float64(n)

		var v float64

		switch {
		case f < DitherF1:
			v = 1
		case f < DitherF2:
			v = slope*(f-DitherF1) + 1
		default:
			v = a
		}

		dst[i] = v
		dst[n-1-i] = v
	}
}

// FilterPolyphaseInto windows signal in place by window (same length),
// then folds it into taps consecutive sub-blocks summed elementwise into
// out (length len(signal)/taps). This is a length-taps polyphase
// decimator using window as the prototype filter; the conventional 1/taps
// normalization is intentionally omitted, matching the original.
func FilterPolyphaseInto(signal, window []float64, taps int, out []float64) {
	for i, w := range window {
		signal[i] *= w
	}

	outLen := len(signal) / taps

	for i := 0; i < outLen; i++ {
		out[i] = 0
	}

	for t := 0; t < taps; t++ {
		base := t * outLen

		for i := 0; i < outLen; i++ {
			out[i] += signal[base+i]
		}
	}
}

// Add accumulates src into dst elementwise.
func Add(dst, src []float64) {
	for i := range dst {
		dst[i] += src[i]
	}
}

// Mean returns the arithmetic mean of signal.
func Mean(signal []float64) float64 {
	var sum float64

	for _, v := range signal {
		sum += v
	}

	return sum / float64(len(signal))
}

// RemoveDCInto subtracts the scalar mean of signal from each of its
// elements, in place.
func RemoveDCInto(signal []float64) {
	mean := Mean(signal)

	for i := range signal {
		signal[i] -= mean
	}
}

// L2Norm returns sqrt(Σx²). This is deliberately not divided by length —
// it is energy, not RMS, but is called "RMS" nowhere in this codebase to
// avoid that confusion; the normalization step below still yields a
// unit-energy signal, which is all the classifier's ratio-based features
// require.
func L2Norm(signal []float64) float64 {
	var sum float64

	for _, v := range signal {
		sum += v * v
	}

	return math.Sqrt(sum)
}

// Normalize divides signal by its L2 norm, in place. If the norm is zero,
// the signal is left unchanged and false is returned: the caller's
// features for this window will be degenerate (NaN or Inf ratios) and
// should be excluded from any argmax over them.
func Normalize(signal []float64) bool {
	norm := L2Norm(signal)
	if norm == 0 {
		return false
	}

	inv := 1 / norm
	for i := range signal {
		signal[i] *= inv
	}

	return true
}
