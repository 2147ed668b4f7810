// Package classifier orchestrates the candidate sweep that infers a raw
// audio file's PCM sample format, byte order, and channel count from its
// spectral shape alone.
package classifier

import (
	"io"
	"math"

	"github.com/farcloser/rawsniff/internal/preprocess"
	"github.com/farcloser/rawsniff/internal/rawreader"
	"github.com/farcloser/rawsniff/internal/spectral"
	"github.com/farcloser/rawsniff/internal/types"
)

// Fixed constants, baked rather than configurable.
const (
	SigLen          = 1024              // S
	RawSigLen       = 8 * SigLen        // worst case, Float64
	PolyTaps        = 4                 // P
	FiltLen         = SigLen / PolyTaps // S/P
	NumIntegrations = 32                // I
	HeaderSkip      = 1024
	SearchGridSize  = 32
	MinL2Norm       = 1e-12
)

// candidates is the fixed sweep of ten (format, endianness) pairs. Int8
// appears in both endiannesses even though byte order is meaningless at
// width 1; this keeps the mono/stereo feature matrix uniform, matching
// the original's candidate list exactly (see DESIGN.md).
var candidates = []types.FormatClass{
	{Format: types.FormatInt8, Endian: types.LittleEndian},
	{Format: types.FormatInt16, Endian: types.LittleEndian},
	{Format: types.FormatUint8, Endian: types.LittleEndian},
	{Format: types.FormatFloat32, Endian: types.LittleEndian},
	{Format: types.FormatFloat64, Endian: types.LittleEndian},
	{Format: types.FormatInt8, Endian: types.BigEndian},
	{Format: types.FormatInt16, Endian: types.BigEndian},
	{Format: types.FormatUint8, Endian: types.BigEndian},
	{Format: types.FormatFloat32, Endian: types.BigEndian},
	{Format: types.FormatFloat64, Endian: types.BigEndian},
}

// Candidates returns a copy of the fixed candidate list the classifier
// sweeps over.
func Candidates() []types.FormatClass {
	return append([]types.FormatClass(nil), candidates...)
}

// probeFormat is the fixed candidate used to search for the start of
// non-silent signal: unsigned 8-bit, little-endian.
var probeFormat = types.FormatClass{Format: types.FormatUint8, Endian: types.LittleEndian}

// Classifier sweeps the candidate list over an opened source and derives
// a best-guess Result. All buffers are allocated once at construction and
// reused across every candidate pass.
type Classifier struct {
	reader *rawreader.Reader
	meter  *spectral.Meter
	owned  bool

	sigBuffer []float64
	auxBuffer []float64
	winBuffer []float64
	eqBuffer  []float64
	rawBuffer []byte

	signalStart int64

	pLo, pHiM, pHiS      []float64
	monoFeat, stereoFeat []float64
}

// New builds a Classifier reading from src. The caller retains ownership
// of src and must close it, if applicable.
func New(src io.ReadSeeker) *Classifier {
	c := newClassifier(rawreader.New(src))
	c.owned = false

	return c
}

// Open opens path and returns a Classifier owning the file handle; the
// caller must call Close when done. An unopenable file surfaces a fatal
// construction error.
func Open(path string) (*Classifier, error) {
	r, err := rawreader.Open(path)
	if err != nil {
		return nil, err
	}

	c := newClassifier(r)
	c.owned = true

	return c, nil
}

func newClassifier(r *rawreader.Reader) *Classifier {
	n := len(candidates)

	c := &Classifier{
		reader:     r,
		meter:      spectral.New(FiltLen),
		sigBuffer:  make([]float64, SigLen),
		auxBuffer:  make([]float64, SigLen),
		winBuffer:  make([]float64, SigLen),
		eqBuffer:   make([]float64, FiltLen),
		rawBuffer:  make([]byte, RawSigLen),
		pLo:        make([]float64, n),
		pHiM:       make([]float64, n),
		pHiS:       make([]float64, n),
		monoFeat:   make([]float64, n),
		stereoFeat: make([]float64, n),
	}

	preprocess.SincWindowInto(c.winBuffer)
	preprocess.EqualizerMaskInto(c.eqBuffer)
	c.meter.SetEqualizer(c.eqBuffer)

	return c
}

// Close releases the file handle if this Classifier owns one.
func (c *Classifier) Close() error {
	if !c.owned {
		return nil
	}

	return c.reader.Close()
}

// Run performs the full candidate sweep and returns the inferred Result.
// The result is always a valid (format, channels) pair: there is no
// "cannot classify" outcome.
func (c *Classifier) Run() types.Result {
	c.signalStart = c.findSignalStart()

	working := c.auxBuffer[:FiltLen]

	c.meter.EnableEqualizer()

	for i, class := range candidates {
		c.readSignal(class, 1)
		preprocess.FilterPolyphaseInto(c.sigBuffer, c.winBuffer, PolyTaps, working)
		preprocess.RemoveDCInto(working)
		preprocess.Normalize(working)

		c.pLo[i] = c.meter.CalcPower(working, 0.25, 0.5)
		c.pHiM[i] = c.meter.CalcPower(working, 0.45, 0.1)
		c.monoFeat[i] = c.pLo[i] / c.pHiM[i]
	}

	c.meter.DisableEqualizer()

	for i, class := range candidates {
		c.readSignal(class, 2)
		preprocess.FilterPolyphaseInto(c.sigBuffer, c.winBuffer, PolyTaps, working)
		preprocess.RemoveDCInto(working)
		preprocess.Normalize(working)

		c.pHiS[i] = c.meter.CalcPower(working, 0.40, 0.2)
		c.stereoFeat[i] = c.pLo[i] / c.pHiS[i]
	}

	midx := argmax(c.monoFeat)
	sidx := argmax(c.stereoFeat)

	// Ties favor stereo: the comparison below is strict.
	if c.monoFeat[midx] > c.stereoFeat[sidx] {
		return types.Result{Class: candidates[midx], Channels: 1}
	}

	return types.Result{Class: candidates[sidx], Channels: 2}
}

// readSignal resets to signalStart, then integrates up to NumIntegrations
// windows of class read at stride, summing them into sigBuffer. Between
// integrated windows it performs a short decoherence read to desynchronize
// subsequent windows from any periodic structure in the file.
func (c *Classifier) readSignal(class types.FormatClass, stride int) {
	_ = c.reader.Reset(c.signalStart)

	width := class.Format.Width()

	n := 0
	for {
		actual, _ := c.reader.Read(c.rawBuffer, SigLen, stride, class.Format, class.Endian)

		if n == 0 {
			got := preprocess.ConvertSamplesInto(c.rawBuffer[:actual*width], class.Format, c.sigBuffer)
			for i := got; i < SigLen; i++ {
				c.sigBuffer[i] = 0
			}
		} else if actual == SigLen {
			preprocess.ConvertSamplesInto(c.rawBuffer[:actual*width], class.Format, c.auxBuffer)
			preprocess.Add(c.sigBuffer, c.auxBuffer)

			// Decoherence read: a short throwaway read of n+1 samples.
			_, _ = c.reader.Read(c.rawBuffer, n+1, stride, class.Format, class.Endian)
		}

		n++
		if n >= NumIntegrations || actual != SigLen {
			break
		}
	}
}

// findSignalStart skips the fixed header and probes successive S-sample
// windows (as Uint8, little-endian) until one has an L2 norm over its
// first 64 samples exceeding MinL2Norm, advancing by SearchGridSize
// windows per unsuccessful attempt. If EOF is hit or the norm becomes NaN
// before a signal is found, the start offset stays at HeaderSkip.
func (c *Classifier) findSignalStart() int64 {
	_ = c.reader.Reset(0)
	_, _ = c.reader.Read(c.rawBuffer, HeaderSkip, 1, probeFormat.Format, probeFormat.Endian)

	for i := range c.rawBuffer {
		c.rawBuffer[i] = 0
	}

	actual, _ := c.reader.Read(c.rawBuffer, SigLen, 1, probeFormat.Format, probeFormat.Endian)

	got := preprocess.ConvertSamplesInto(c.rawBuffer[:actual], probeFormat.Format, c.sigBuffer)
	for i := got; i < SigLen; i++ {
		c.sigBuffer[i] = 0
	}

	attempts := 0

	for actual == SigLen {
		norm := preprocess.L2Norm(c.sigBuffer[:64])
		if math.IsNaN(norm) {
			break
		}

		if norm > MinL2Norm {
			return HeaderSkip + int64(attempts)*int64(SearchGridSize)*int64(SigLen)
		}

		for n := 0; n < SearchGridSize; n++ {
			actual, _ = c.reader.Read(c.rawBuffer, SigLen, 1, probeFormat.Format, probeFormat.Endian)
		}

		if actual == SigLen {
			preprocess.ConvertSamplesInto(c.rawBuffer[:actual], probeFormat.Format, c.sigBuffer)
			attempts++
		}
	}

	return HeaderSkip
}

// argmax returns the index of the largest value in v, skipping NaN and
// infinite entries so a degenerate candidate (zero-power bands from a
// zero-norm normalization skip, giving 0/0 or x/0 ratios) is excluded
// rather than winning by a comparison quirk. Returns 0 if every entry is
// skipped.
func argmax(v []float64) int {
	best := -1

	for i, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			continue
		}

		if best == -1 || x > v[best] {
			best = i
		}
	}

	if best == -1 {
		return 0
	}

	return best
}
