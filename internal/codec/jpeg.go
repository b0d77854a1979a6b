package codec

import "github.com/AnyUserName/imgbench/internal/pixbuf"

// JPEGCodec encodes through the native libjpeg binding. Builds tagged
// no_cgo fall back to image/jpeg under the same key.
type JPEGCodec struct{}

func (c *JPEGCodec) Name() string      { return "jpeg" }
func (c *JPEGCodec) Label() string     { return "test_jpeg" }
func (c *JPEGCodec) Extension() string { return "jpg" }
func (c *JPEGCodec) Available() bool   { return true }
func (c *JPEGCodec) Lossless() bool    { return false }
func (c *JPEGCodec) Library() string   { return jpegLibrary }

// Encode uses 4:2:0 chroma subsampling, the default of both backends. The
// source alpha channel is dropped.
func (c *JPEGCodec) Encode(src *pixbuf.Buffer, opts Options) ([]byte, error) {
	return encodeNativeJPEG(src, opts.quality())
}
