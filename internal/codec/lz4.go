package codec

import (
	"encoding/binary"
	"fmt"
	"image"
	"sync"

	"github.com/pierrec/lz4/v4"

	"github.com/AnyUserName/imgbench/internal/pixbuf"
)

// lz4HeaderSize prefixes the block with big-endian width and height.
const lz4HeaderSize = 8

// compressors reuses LZ4 hash tables across calls. A Compressor is not safe
// for concurrent use.
var compressors = sync.Pool{New: func() any { return new(lz4.Compressor) }}

// CompressLZ4 compresses data into a single LZ4 block. The block carries no
// length, so callers keep len(data) to decompress it.
func CompressLZ4(data []byte) ([]byte, error) {
	return appendLZ4(nil, data)
}

func appendLZ4(dst, data []byte) ([]byte, error) {
	c := compressors.Get().(*lz4.Compressor)
	defer compressors.Put(c)

	start := len(dst)
	out := append(dst, make([]byte, lz4.CompressBlockBound(len(data)))...)
	n, err := c.CompressBlock(data, out[start:])
	if err != nil {
		return nil, fmt.Errorf("lz4: %w", err)
	}
	return out[:start+n], nil
}

// LZ4Codec compresses the raw BGRA rows into one LZ4 block. It trades
// ratio for speed against zstd.
type LZ4Codec struct{}

func (c *LZ4Codec) Name() string      { return "lz4" }
func (c *LZ4Codec) Label() string     { return "test_lz4" }
func (c *LZ4Codec) Extension() string { return "bgra.lz4" }
func (c *LZ4Codec) Available() bool   { return true }
func (c *LZ4Codec) Lossless() bool    { return true }
func (c *LZ4Codec) Library() string   { return "github.com/pierrec/lz4/v4" }

func (c *LZ4Codec) Encode(src *pixbuf.Buffer, _ Options) ([]byte, error) {
	dst := make([]byte, lz4HeaderSize)
	binary.BigEndian.PutUint32(dst[0:4], uint32(src.Width))
	binary.BigEndian.PutUint32(dst[4:8], uint32(src.Height))
	return appendLZ4(dst, src.Tight())
}

// Decode returns a *pixbuf.Buffer holding the restored BGRA rows.
func (c *LZ4Codec) Decode(data []byte) (image.Image, error) {
	if len(data) < lz4HeaderSize {
		return nil, fmt.Errorf("lz4: %w: %d bytes", ErrCorrupt, len(data))
	}
	w := int(binary.BigEndian.Uint32(data[0:4]))
	h := int(binary.BigEndian.Uint32(data[4:8]))
	if !validDims(w, h) {
		return nil, fmt.Errorf("lz4: %w: %dx%d", ErrCorrupt, w, h)
	}

	pix := make([]byte, w*h*pixbuf.BytesPerPixel)
	n, err := lz4.UncompressBlock(data[lz4HeaderSize:], pix)
	if err != nil {
		return nil, fmt.Errorf("lz4: %w: %v", ErrCorrupt, err)
	}
	if n != len(pix) {
		return nil, fmt.Errorf("lz4: %w: %d bytes for %dx%d", ErrCorrupt, n, w, h)
	}
	return pixbuf.FromBGRA(pix, w, h)
}
