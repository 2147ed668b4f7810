// Package types holds the data model shared across rawsniff's components:
// the sample-format/endianness tagged variants, their pairing into a
// candidate FormatClass, and the classification Result.
package types

import "encoding/binary"

// SampleFormat is a tagged variant over the PCM sample encodings RawReader
// and the preprocessing pipeline can widen to float64.
type SampleFormat int

const (
	FormatInt8 SampleFormat = iota
	FormatUint8
	FormatInt16
	FormatUint16
	FormatInt32
	FormatUint32
	FormatFloat32
	FormatFloat64
)

// Width returns the sample's byte width.
func (f SampleFormat) Width() int {
	switch f {
	case FormatInt8, FormatUint8:
		return 1
	case FormatInt16, FormatUint16:
		return 2
	case FormatInt32, FormatUint32, FormatFloat32:
		return 4
	case FormatFloat64:
		return 8
	default:
		return 0
	}
}

func (f SampleFormat) String() string {
	switch f {
	case FormatInt8:
		return "int8"
	case FormatUint8:
		return "uint8"
	case FormatInt16:
		return "int16"
	case FormatUint16:
		return "uint16"
	case FormatInt32:
		return "int32"
	case FormatUint32:
		return "uint32"
	case FormatFloat32:
		return "float32"
	case FormatFloat64:
		return "float64"
	default:
		return "unknown"
	}
}

// Endianness is a tagged variant over byte order.
type Endianness int

const (
	LittleEndian Endianness = iota
	BigEndian
)

func (e Endianness) String() string {
	if e == BigEndian {
		return "big-endian"
	}

	return "little-endian"
}

var hostEndian = detectHostEndianness()

// HostEndianness returns the byte order of the machine this process is
// running on, determined once at startup.
func HostEndianness() Endianness {
	return hostEndian
}

func detectHostEndianness() Endianness {
	probe := []byte{1, 0}
	if binary.NativeEndian.Uint16(probe) == 1 {
		return LittleEndian
	}

	return BigEndian
}

// FormatClass is a (SampleFormat, Endianness) pair: one classification
// candidate.
type FormatClass struct {
	Format SampleFormat
	Endian Endianness
}

func (c FormatClass) String() string {
	return c.Format.String() + " " + c.Endian.String()
}

// Result is the classifier's output: the winning FormatClass and the
// inferred channel count, always 1 or 2.
type Result struct {
	Class    FormatClass
	Channels int
}
