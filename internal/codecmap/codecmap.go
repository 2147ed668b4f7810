// Package codecmap maps a classified SampleFormat onto the bit depth a
// downstream go-audio-based decoder would configure. This mapping is
// peripheral to classification itself: spec.md keeps it out of the core,
// since it is just a fixed lookup table with no bearing on the argmax.
package codecmap

import "github.com/farcloser/rawsniff/internal/types"

var bitDepths = map[types.SampleFormat]int{
	types.FormatInt8:    8,
	types.FormatUint8:   8,
	types.FormatInt16:   16,
	types.FormatUint16:  16,
	types.FormatInt32:   32,
	types.FormatUint32:  32,
	types.FormatFloat32: 32,
	types.FormatFloat64: 64,
}

// BitDepth returns the bit width a downstream raw-PCM decoder would use
// for the given sample format, or ok=false if unmapped.
func BitDepth(f types.SampleFormat) (depth int, ok bool) {
	depth, ok = bitDepths[f]

	return depth, ok
}
