package spectral_test

import (
	"math"
	"testing"

	"github.com/farcloser/rawsniff/internal/spectral"
)

func TestCalcPowerLowToneConcentratesInLowBand(t *testing.T) {
	const n = 256

	m := spectral.New(n)

	lowFreqSignal := make([]float64, n)
	for i := range lowFreqSignal {
		lowFreqSignal[i] = math.Sin(2 * math.Pi * 4 * float64(i) / float64(n))
	}

	pLo := m.CalcPower(lowFreqSignal, 0.25, 0.5)
	pHi := m.CalcPower(lowFreqSignal, 0.45, 0.1)

	if pLo <= pHi {
		t.Fatalf("expected a low-frequency tone to concentrate power in the low band: pLo=%v pHi=%v", pLo, pHi)
	}
}

func TestCalcPowerBinRangeNeverEmpty(t *testing.T) {
	const n = 256

	m := spectral.New(n)

	// A tone exactly on bin 115, the bin both band edges map to.
	signal := make([]float64, n)
	for i := range signal {
		signal[i] = math.Cos(2 * math.Pi * 115 * float64(i) / float64(n))
	}

	// fc=0.45, bw=0.0001 makes loBin and hiBin coincide before the bump rule.
	if power := m.CalcPower(signal, 0.45, 0.0001); power <= 0 {
		t.Fatalf("expected the bumped one-bin band to capture the tone's power, got %v", power)
	}
}

func TestEqualizerMaskAttenuatesHighBand(t *testing.T) {
	const n = 256

	m := spectral.New(n)

	// A tone on bin 112 (f = 0.4375), inside the [102, 128) bins of the
	// (0.45, 0.1) band.
	tone := make([]float64, n)
	for i := range tone {
		tone[i] = math.Cos(2 * math.Pi * 112 * float64(i) / float64(n))
	}

	withoutEq := m.CalcPower(tone, 0.45, 0.1)

	mask := make([]float64, n)
	for i := range mask {
		mask[i] = 0.25
	}

	m.SetEqualizer(mask)
	m.EnableEqualizer()

	withEq := m.CalcPower(tone, 0.45, 0.1)

	if withEq >= withoutEq {
		t.Fatalf("expected equalizer to attenuate power: with=%v without=%v", withEq, withoutEq)
	}
}
