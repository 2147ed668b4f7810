package preprocess_test

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/farcloser/rawsniff/internal/preprocess"
	"github.com/farcloser/rawsniff/internal/types"
)

func TestConvertSamplesInt16(t *testing.T) {
	raw := make([]byte, 4)
	negSample := int16(-1000)
	binary.NativeEndian.PutUint16(raw[0:], uint16(negSample)) //nolint:gosec
	binary.NativeEndian.PutUint16(raw[2:], 2000)

	out := make([]float64, 2)

	n := preprocess.ConvertSamplesInto(raw, types.FormatInt16, out)
	if n != 2 {
		t.Fatalf("expected 2 samples converted, got %d", n)
	}

	if out[0] != -1000 || out[1] != 2000 {
		t.Fatalf("unexpected conversion: %v", out)
	}
}

func TestConvertSamplesUint8NoScaling(t *testing.T) {
	raw := []byte{0, 128, 255}
	out := make([]float64, 3)

	preprocess.ConvertSamplesInto(raw, types.FormatUint8, out)

	if out[0] != 0 || out[1] != 128 || out[2] != 255 {
		t.Fatalf("unexpected conversion: %v", out)
	}
}

func TestSincWindowSymmetry(t *testing.T) {
	const n = 1024

	win := make([]float64, n)
	preprocess.SincWindowInto(win)

	for i := 0; i < n; i++ {
		if math.Abs(win[i]-win[n-1-i]) > 1e-9 {
			t.Fatalf("window not symmetric at index %d: %v vs %v", i, win[i], win[n-1-i])
		}
	}
}

func TestEqualizerMaskMirrorSymmetry(t *testing.T) {
	const n = 256

	mask := make([]float64, n)
	preprocess.EqualizerMaskInto(mask)

	for i := 0; i < n; i++ {
		if mask[i] != mask[n-1-i] {
			t.Fatalf("mask not mirrored at index %d: %v vs %v", i, mask[i], mask[n-1-i])
		}
	}

	if mask[0] != 1 {
		t.Fatalf("expected mask[0] == 1 (below F1), got %v", mask[0])
	}
}

func TestFilterPolyphaseNoNormalizationConstantSignal(t *testing.T) {
	const (
		siglen = 1024
		taps   = 4
	)

	signal := make([]float64, siglen)
	for i := range signal {
		signal[i] = 1
	}

	window := make([]float64, siglen)
	for i := range window {
		window[i] = 1
	}

	out := make([]float64, siglen/taps)
	preprocess.FilterPolyphaseInto(signal, window, taps, out)

	for i, v := range out {
		if v != float64(taps) {
			t.Fatalf("index %d: expected fold of %d unit taps to sum to %d, got %v", i, taps, taps, v)
		}
	}
}

func TestNormalizeProducesUnitL2Norm(t *testing.T) {
	signal := []float64{3, 4, 0, 0}

	ok := preprocess.Normalize(signal)
	if !ok {
		t.Fatal("expected normalization to succeed")
	}

	if math.Abs(preprocess.L2Norm(signal)-1) > 1e-9 {
		t.Fatalf("expected unit L2 norm, got %v", preprocess.L2Norm(signal))
	}
}

func TestNormalizeZeroSignalSkipped(t *testing.T) {
	signal := []float64{0, 0, 0}

	ok := preprocess.Normalize(signal)
	if ok {
		t.Fatal("expected normalization of an all-zero signal to report failure")
	}

	for _, v := range signal {
		if v != 0 {
			t.Fatalf("expected signal to be left unchanged, got %v", signal)
		}
	}
}

func TestRemoveDCZeroesMean(t *testing.T) {
	signal := []float64{1, 2, 3, 4, 5}
	preprocess.RemoveDCInto(signal)

	if math.Abs(preprocess.Mean(signal)) > 1e-9 {
		t.Fatalf("expected zero mean after DC removal, got %v", preprocess.Mean(signal))
	}
}
