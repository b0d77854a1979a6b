package codec

import (
	"bytes"
	"image"
	"image/png"

	"github.com/AnyUserName/imgbench/internal/pixbuf"
)

// PNGCodec encodes lossless PNG with Go's standard library. It keeps the
// straight alpha of the source, so translucent pixels round-trip.
type PNGCodec struct{}

func (c *PNGCodec) Name() string      { return "png" }
func (c *PNGCodec) Label() string     { return "test_png" }
func (c *PNGCodec) Extension() string { return "png" }
func (c *PNGCodec) Available() bool   { return true }
func (c *PNGCodec) Lossless() bool    { return true }
func (c *PNGCodec) Library() string   { return "image/png" }

func (c *PNGCodec) Encode(src *pixbuf.Buffer, _ Options) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(512 * 1024) // pre-alloc 512KB

	enc := &png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, src.NRGBA()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *PNGCodec) Decode(data []byte) (image.Image, error) {
	return png.Decode(bytes.NewReader(data))
}
