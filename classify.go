// Package rawsniff infers the PCM sample format, byte order, and channel
// count of a headerless raw audio file from its spectral shape alone: a
// correctly decoded window looks low-pass, a mis-decoded one looks like
// white noise.
package rawsniff

import (
	"errors"
	"io"

	"github.com/go-audio/audio"

	"github.com/farcloser/rawsniff/internal/classifier"
	"github.com/farcloser/rawsniff/internal/codecmap"
	"github.com/farcloser/rawsniff/internal/types"
)

// Re-exported data model. Callers of this package never need to import
// the internal/types package directly.
type (
	SampleFormat = types.SampleFormat
	Endianness   = types.Endianness
	FormatClass  = types.FormatClass
	Result       = types.Result
)

const (
	Int8    = types.FormatInt8
	Uint8   = types.FormatUint8
	Int16   = types.FormatInt16
	Uint16  = types.FormatUint16
	Int32   = types.FormatInt32
	Uint32  = types.FormatUint32
	Float32 = types.FormatFloat32
	Float64 = types.FormatFloat64
)

const (
	LittleEndian = types.LittleEndian
	BigEndian    = types.BigEndian
)

// Classify opens path and infers its PCM sample format, byte order, and
// channel count. An unopenable file surfaces a fatal construction error;
// every other condition recovers locally, so the returned Result is
// always a valid (format, channels) pair.
func Classify(path string) (Result, error) {
	c, err := classifier.Open(path)
	if err != nil {
		return Result{}, err
	}
	defer c.Close()

	return c.Run(), nil
}

// ClassifyReader runs classification over an already-open random-access
// source. The caller retains ownership of src and must close it, if
// applicable.
func ClassifyReader(src io.ReadSeeker) Result {
	return classifier.New(src).Run()
}

// Descriptor is the go-audio format descriptor a downstream decoder would
// use to read a classified stream: channel count and sample rate, plus
// the bit depth to configure. audio.Format has no signedness or
// endianness concept; consult Result directly for those.
type Descriptor struct {
	Format   audio.Format
	BitDepth int
}

// ErrUnmappedFormat is returned by CodecFormat when the classified sample
// format has no go-audio bit-depth equivalent. Unreachable for any Result
// returned by Classify or ClassifyReader, since every candidate in the
// fixed sweep is mapped.
var ErrUnmappedFormat = errors.New("rawsniff: no codec mapping for this sample format")

// CodecFormat maps a classification Result onto the go-audio format
// descriptor a downstream decoder would configure. This mapping is
// peripheral: it has no bearing on classification itself.
func CodecFormat(sampleRate int, result Result) (Descriptor, error) {
	depth, ok := codecmap.BitDepth(result.Class.Format)
	if !ok {
		return Descriptor{}, ErrUnmappedFormat
	}

	return Descriptor{
		Format: audio.Format{
			NumChannels: result.Channels,
			SampleRate:  sampleRate,
		},
		BitDepth: depth,
	}, nil
}
