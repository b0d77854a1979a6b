package codec

import (
	"bytes"
	"image"

	"github.com/xfmoulet/qoi"

	"github.com/AnyUserName/imgbench/internal/pixbuf"
)

// QOICodec runs the reference Go port of QOI. It reads dimensions from the
// image bounds instead of a descriptor.
type QOICodec struct{}

func (c *QOICodec) Name() string      { return "qoi" }
func (c *QOICodec) Label() string     { return "test_qoi" }
func (c *QOICodec) Extension() string { return "qoi" }
func (c *QOICodec) Available() bool   { return true }
func (c *QOICodec) Lossless() bool    { return true }
func (c *QOICodec) Library() string   { return "github.com/xfmoulet/qoi" }

// TolerateDecodeErrors marks decode failures of this codec as non-fatal.
func (c *QOICodec) TolerateDecodeErrors() bool { return true }

func (c *QOICodec) Encode(src *pixbuf.Buffer, _ Options) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(src.Width * src.Height)
	if err := qoi.Encode(&buf, src.NRGBA()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *QOICodec) Decode(data []byte) (image.Image, error) {
	return qoi.Decode(bytes.NewReader(data))
}
