// Package spectral implements a fixed-length real-input FFT subband power
// meter, with an optional frequency-domain equalizer mask applied before
// power integration.
package spectral

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Meter computes subband power over a fixed-length real-valued signal via
// an FFT, with an optional multiplicative mask in the frequency domain.
type Meter struct {
	n        int
	fft      *fourier.FFT
	coeffBuf []complex128
	eqMask   []float64
	eqOn     bool
}

// New returns a Meter for signals of length n.
func New(n int) *Meter {
	return &Meter{
		n:        n,
		fft:      fourier.NewFFT(n),
		coeffBuf: make([]complex128, n/2+1),
	}
}

// SetEqualizer copies mask (length n) into the meter's internal storage.
func (m *Meter) SetEqualizer(mask []float64) {
	m.eqMask = append(m.eqMask[:0], mask...)
}

// EnableEqualizer turns on multiplication by the equalizer mask before
// power integration.
func (m *Meter) EnableEqualizer() { m.eqOn = true }

// DisableEqualizer turns off the equalizer mask.
func (m *Meter) DisableEqualizer() { m.eqOn = false }

// bin maps a normalized frequency to an FFT bin index, wrapping modulo n.
func (m *Meter) bin(f float64) int {
	b := int(math.Floor(f * float64(m.n)))

	b %= m.n
	if b < 0 {
		b += m.n
	}

	return b
}

// CalcPower computes the real-input FFT of signal (length n) and returns
// the sum of squared magnitude over frequency bins in [fc-bw/2, fc+bw/2).
// fc and bw are normalized frequencies in cycles/sample (Nyquist = 0.5).
func (m *Meter) CalcPower(signal []float64, fc, bw float64) float64 {
	loBin := m.bin(fc - bw/2)
	hiBin := m.bin(fc + bw/2)

	if hiBin == loBin {
		hiBin = loBin + 1
	}

	coeffs := m.fft.Coefficients(m.coeffBuf, signal)

	var power float64

	// eqMask spans the full transform length N (it is defined and mirrored
	// over the whole spectrum), while coeffs holds only the non-redundant
	// half a real-input FFT produces (bins 0..n/2). Every band the
	// classifier requests lies within [0, 0.5], so its bin indices stay
	// within that half and eqMask is indexed directly by bin without
	// remapping.
	if m.eqOn && len(m.eqMask) > 0 {
		for n := loBin; n < hiBin; n++ {
			re := real(coeffs[n]) * m.eqMask[n]
			im := imag(coeffs[n]) * m.eqMask[n]
			power += re*re + im*im
		}
	} else {
		for n := loBin; n < hiBin; n++ {
			re := real(coeffs[n])
			im := imag(coeffs[n])
			power += re*re + im*im
		}
	}

	return power
}
