package codec

import (
	"bytes"
	"image/jpeg"

	"github.com/AnyUserName/imgbench/internal/pixbuf"
)

// JPEGGoCodec encodes with Go's standard library, as a pure-Go baseline for
// the libjpeg binding.
type JPEGGoCodec struct{}

func (c *JPEGGoCodec) Name() string      { return "jpeg-go" }
func (c *JPEGGoCodec) Label() string     { return "test_jpeg_go" }
func (c *JPEGGoCodec) Extension() string { return "jpg" }
func (c *JPEGGoCodec) Available() bool   { return true }
func (c *JPEGGoCodec) Lossless() bool    { return false }
func (c *JPEGGoCodec) Library() string   { return "image/jpeg" }

func (c *JPEGGoCodec) Encode(src *pixbuf.Buffer, opts Options) ([]byte, error) {
	return encodeStdJPEG(src, opts.quality())
}

func encodeStdJPEG(src *pixbuf.Buffer, quality int) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(src.Width * src.Height / 2)

	if err := jpeg.Encode(&buf, src.Opaque(), &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
