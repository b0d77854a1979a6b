package codec

import (
	"image"

	"github.com/AnyUserName/imgbench/internal/pixbuf"
)

// WebPCodec encodes lossless WebP through libwebp. It is unavailable in
// no_cgo builds.
type WebPCodec struct{}

func (c *WebPCodec) Name() string      { return "webp" }
func (c *WebPCodec) Label() string     { return "test_webp" }
func (c *WebPCodec) Extension() string { return "webp" }
func (c *WebPCodec) Available() bool   { return webpAvailable }
func (c *WebPCodec) Lossless() bool    { return true }
func (c *WebPCodec) Library() string   { return "github.com/chai2010/webp" }

func (c *WebPCodec) Encode(src *pixbuf.Buffer, _ Options) ([]byte, error) {
	return encodeWebP(src)
}

func (c *WebPCodec) Decode(data []byte) (image.Image, error) {
	return decodeWebP(data)
}
