package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/AnyUserName/imgbench/internal/pixbuf"
	"github.com/AnyUserName/imgbench/internal/rapidqoi"
)

// zstdHeaderSize prefixes the frame with big-endian width and height.
const zstdHeaderSize = 8

var ErrCorrupt = errors.New("codec: corrupt stream")

// ZstdCodec compresses the raw BGRA rows with zstd, as a general purpose
// lossless baseline.
type ZstdCodec struct {
	once sync.Once
	enc  *zstd.Encoder
	dec  *zstd.Decoder
	err  error
}

func (c *ZstdCodec) Name() string      { return "zstd" }
func (c *ZstdCodec) Label() string     { return "test_zstd" }
func (c *ZstdCodec) Extension() string { return "bgra.zst" }
func (c *ZstdCodec) Available() bool   { return true }
func (c *ZstdCodec) Lossless() bool    { return true }
func (c *ZstdCodec) Library() string   { return "github.com/klauspost/compress/zstd" }

func (c *ZstdCodec) init() error {
	c.once.Do(func() {
		c.enc, c.err = zstd.NewWriter(nil,
			zstd.WithEncoderLevel(zstd.SpeedDefault),
			zstd.WithEncoderConcurrency(1))
		if c.err != nil {
			return
		}
		c.dec, c.err = zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	})
	return c.err
}

func (c *ZstdCodec) Encode(src *pixbuf.Buffer, _ Options) ([]byte, error) {
	if err := c.init(); err != nil {
		return nil, fmt.Errorf("zstd: %w", err)
	}
	pix := src.Tight()
	dst := make([]byte, zstdHeaderSize, zstdHeaderSize+len(pix)/2)
	binary.BigEndian.PutUint32(dst[0:4], uint32(src.Width))
	binary.BigEndian.PutUint32(dst[4:8], uint32(src.Height))
	return c.enc.EncodeAll(pix, dst), nil
}

// validDims bounds a decoded width/height prefix by pixel count, so thin
// frames of any width pass while the product stays allocatable.
func validDims(w, h int) bool {
	return w > 0 && h > 0 && w <= rapidqoi.MaxPixels && h <= rapidqoi.MaxPixels &&
		w*h <= rapidqoi.MaxPixels
}

// Decode returns a *pixbuf.Buffer holding the restored BGRA rows.
func (c *ZstdCodec) Decode(data []byte) (image.Image, error) {
	if err := c.init(); err != nil {
		return nil, fmt.Errorf("zstd: %w", err)
	}
	if len(data) < zstdHeaderSize {
		return nil, fmt.Errorf("zstd: %w: %d bytes", ErrCorrupt, len(data))
	}
	w := int(binary.BigEndian.Uint32(data[0:4]))
	h := int(binary.BigEndian.Uint32(data[4:8]))
	if !validDims(w, h) {
		return nil, fmt.Errorf("zstd: %w: %dx%d", ErrCorrupt, w, h)
	}

	pix, err := c.dec.DecodeAll(data[zstdHeaderSize:], make([]byte, 0, w*h*pixbuf.BytesPerPixel))
	if err != nil {
		return nil, fmt.Errorf("zstd: %w", err)
	}
	if len(pix) != w*h*pixbuf.BytesPerPixel {
		return nil, fmt.Errorf("zstd: %w: %d bytes for %dx%d", ErrCorrupt, len(pix), w, h)
	}
	return pixbuf.FromBGRA(pix, w, h)
}
