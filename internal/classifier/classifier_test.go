package classifier_test

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/farcloser/rawsniff/internal/classifier"
	"github.com/farcloser/rawsniff/internal/types"
)

const sampleRate = 44100

// buildInt16 encodes a mono sine wave as little- or big-endian int16 PCM.
func buildInt16(freqHz float64, numSamples int, big bool) []byte {
	buf := make([]byte, numSamples*2)

	for i := 0; i < numSamples; i++ {
		v := int16(10000 * math.Sin(2*math.Pi*freqHz*float64(i)/sampleRate)) //nolint:gosec

		if big {
			binary.BigEndian.PutUint16(buf[i*2:], uint16(v)) //nolint:gosec
		} else {
			binary.LittleEndian.PutUint16(buf[i*2:], uint16(v)) //nolint:gosec
		}
	}

	return buf
}

// buildInt16Stereo interleaves two independently generated channels.
func buildInt16Stereo(leftHz, rightHz float64, numSamples int, big bool) []byte {
	buf := make([]byte, numSamples*2*2)

	for i := 0; i < numSamples; i++ {
		l := int16(10000 * math.Sin(2*math.Pi*leftHz*float64(i)/sampleRate))  //nolint:gosec
		r := int16(10000 * math.Sin(2*math.Pi*rightHz*float64(i)/sampleRate)) //nolint:gosec

		if big {
			binary.BigEndian.PutUint16(buf[i*4:], uint16(l))   //nolint:gosec
			binary.BigEndian.PutUint16(buf[i*4+2:], uint16(r)) //nolint:gosec
		} else {
			binary.LittleEndian.PutUint16(buf[i*4:], uint16(l))   //nolint:gosec
			binary.LittleEndian.PutUint16(buf[i*4+2:], uint16(r)) //nolint:gosec
		}
	}

	return buf
}

func TestClassifyInt16LittleEndianMono(t *testing.T) {
	data := buildInt16(1000, sampleRate, false)

	result := classifier.New(bytes.NewReader(data)).Run()

	if result.Class.Format != types.FormatInt16 || result.Class.Endian != types.LittleEndian {
		t.Fatalf("expected Int16/little, got %v", result.Class)
	}

	if result.Channels != 1 {
		t.Fatalf("expected 1 channel, got %d", result.Channels)
	}
}

func TestClassifyInt16BigEndianStereo(t *testing.T) {
	data := buildInt16Stereo(1000, 2000, sampleRate, true)

	result := classifier.New(bytes.NewReader(data)).Run()

	if result.Class.Format != types.FormatInt16 || result.Class.Endian != types.BigEndian {
		t.Fatalf("expected Int16/big, got %v", result.Class)
	}

	if result.Channels != 2 {
		t.Fatalf("expected 2 channels, got %d", result.Channels)
	}
}

func TestClassifyUint8MonoWithDCOffset(t *testing.T) {
	const n = sampleRate

	buf := make([]byte, n)

	for i := 0; i < n; i++ {
		v := 128 + int(20*math.Sin(2*math.Pi*300*float64(i)/sampleRate))
		buf[i] = byte(v)
	}

	result := classifier.New(bytes.NewReader(buf)).Run()

	if result.Class.Format != types.FormatUint8 {
		t.Fatalf("expected Uint8, got %v", result.Class)
	}

	if result.Channels != 1 {
		t.Fatalf("expected 1 channel, got %d", result.Channels)
	}
}

func TestClassifySkipsSilencePrefix(t *testing.T) {
	silence := make([]byte, 2048)
	music := buildInt16Stereo(440, 660, sampleRate, false)

	data := append(silence, music...) //nolint:gocritic

	result := classifier.New(bytes.NewReader(data)).Run()

	if result.Class.Format != types.FormatInt16 || result.Class.Endian != types.LittleEndian {
		t.Fatalf("expected Int16/little, got %v", result.Class)
	}

	if result.Channels != 2 {
		t.Fatalf("expected 2 channels, got %d", result.Channels)
	}
}

func TestClassifyShortFileDoesNotPanic(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5}

	result := classifier.New(bytes.NewReader(data)).Run()

	if result.Channels != 1 && result.Channels != 2 {
		t.Fatalf("expected a defined channel count, got %d", result.Channels)
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	data := buildInt16(1000, sampleRate, false)

	first := classifier.New(bytes.NewReader(data)).Run()
	second := classifier.New(bytes.NewReader(data)).Run()

	if first != second {
		t.Fatalf("expected deterministic results, got %v and %v", first, second)
	}
}

func TestCandidatesListIsTenEntries(t *testing.T) {
	if len(classifier.Candidates()) != 10 {
		t.Fatalf("expected 10 candidates, got %d", len(classifier.Candidates()))
	}
}
