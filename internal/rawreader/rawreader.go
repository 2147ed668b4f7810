// Package rawreader provides random-access, strided, byte-order-aware
// reading of fixed-width samples over a headerless file.
package rawreader

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/farcloser/primordium/fault"

	"github.com/farcloser/rawsniff/internal/types"
)

// ErrUnsupportedWidth is returned when a byte-swap is requested on a
// sample width greater than 8 bytes.
var ErrUnsupportedWidth = errors.New("rawreader: byte width exceeds 8")

// Reader is a random-access byte source over a candidate file, exposing
// strided, format-aware sample reads with on-the-fly byte swapping.
type Reader struct {
	src io.ReadSeeker
}

// New wraps an existing random-access source. The caller retains ownership
// and is responsible for closing it, if applicable.
func New(src io.ReadSeeker) *Reader {
	return &Reader{src: src}
}

// Open opens path for reading and returns a Reader owning the file handle.
// The caller must call Close when done.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path) //nolint:gosec // path is caller-supplied by design
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %w", fault.ErrReadFailure, path, err)
	}

	return &Reader{src: f}, nil
}

// Close releases the underlying file handle, if the Reader owns one.
func (r *Reader) Close() error {
	if closer, ok := r.src.(io.Closer); ok {
		return closer.Close()
	}

	return nil
}

// Reset seeks to an absolute byte offset from the start of the source.
func (r *Reader) Reset(offset int64) error {
	_, err := r.src.Seek(offset, io.SeekStart)
	if err != nil {
		return fmt.Errorf("rawreader: seek: %w", err)
	}

	return nil
}

// Read reads up to count samples of format starting at the current
// position, striding over (stride-1) extra samples between each one when
// stride > 1, and byte-swaps the destination in place if endian differs
// from the host's. dst must be at least count*format.Width() bytes.
//
// The return is the count of samples actually read. Short reads at EOF are
// not an error: the partial count is returned with a nil error. The only
// error this returns is ErrUnsupportedWidth, unreachable for any
// SampleFormat defined in this module (max width 8).
func (r *Reader) Read(dst []byte, count, stride int, format types.SampleFormat, endian types.Endianness) (int, error) {
	width := format.Width()
	if width > 8 {
		return 0, fmt.Errorf("rawreader: %w: %d", ErrUnsupportedWidth, width)
	}

	var actual int

	if stride > 1 {
		for n := 0; n < count; n++ {
			got, _ := io.ReadFull(r.src, dst[n*width:(n+1)*width])
			if got < width {
				break
			}

			actual++

			if _, err := r.src.Seek(int64(stride-1)*int64(width), io.SeekCurrent); err != nil {
				break
			}
		}
	} else {
		got, _ := io.ReadFull(r.src, dst[:count*width])
		actual = got / width
	}

	if actual > 0 && endian != types.HostEndianness() {
		// Width-only error already rejected above; SwapBytes cannot fail here.
		_ = SwapBytes(dst[:actual*width], width)
	}

	return actual, nil
}

// SwapBytes reverses byte order within each width-byte group of buf,
// in place. Width 1 is a no-op. Widths greater than 8 are rejected.
func SwapBytes(buf []byte, width int) error {
	if width > 8 {
		return fmt.Errorf("rawreader: %w: %d", ErrUnsupportedWidth, width)
	}

	if width <= 1 {
		return nil
	}

	for i := 0; i+width <= len(buf); i += width {
		for lo, hi := i, i+width-1; lo < hi; lo, hi = lo+1, hi-1 {
			buf[lo], buf[hi] = buf[hi], buf[lo]
		}
	}

	return nil
}
