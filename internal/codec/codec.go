// Package codec wraps each benchmarked image library behind one interface.
package codec

import (
	"errors"
	"image"

	"github.com/AnyUserName/imgbench/internal/pixbuf"
)

var (
	ErrUnknown     = errors.New("codec: unknown codec")
	ErrUnavailable = errors.New("codec: not available in this build")
)

// Options carries encoder settings shared by every codec. Codecs ignore the
// fields that do not apply to them.
type Options struct {
	Quality int // 1-100, lossy codecs only
}

// DefaultQuality is used when Options.Quality is out of range.
const DefaultQuality = 100

func (o Options) quality() int {
	if o.Quality <= 0 || o.Quality > 100 {
		return DefaultQuality
	}
	return o.Quality
}

// Codec encodes a pixel buffer with one library.
type Codec interface {
	// Name is the key used on the command line and in reports ("jpeg", "qoi").
	Name() string

	// Label prefixes the console result lines ("test_jpeg").
	Label() string

	// Extension returns the artifact file extension without dot.
	Extension() string

	// Available returns false when the codec was compiled out (no cgo).
	Available() bool

	Lossless() bool

	Encode(src *pixbuf.Buffer, opts Options) ([]byte, error)
}

// Decoder is implemented by codecs whose output is decoded back.
type Decoder interface {
	Decode(data []byte) (image.Image, error)
}

// decodeTolerant is implemented by codecs whose decode failures are reported
// but do not stop a run.
type decodeTolerant interface {
	TolerateDecodeErrors() bool
}

// AsDecoder returns c as a Decoder when it decodes.
func AsDecoder(c Codec) (Decoder, bool) {
	d, ok := c.(Decoder)
	return d, ok
}

// TolerateDecodeErrors reports whether a decode failure of c is non-fatal.
func TolerateDecodeErrors(c Codec) bool {
	t, ok := c.(decodeTolerant)
	return ok && t.TolerateDecodeErrors()
}

// Library names the implementation behind c, or "" when it does not say.
func Library(c Codec) string {
	if l, ok := c.(interface{ Library() string }); ok {
		return l.Library()
	}
	return ""
}
