// Package hasher names benchmark artifacts and fingerprints pixel data with
// xxHash64.
package hasher

import (
	"encoding/binary"
	"encoding/hex"
	"image"
	"io"

	"github.com/cespare/xxhash/v2"
	"github.com/disintegration/imaging"

	"github.com/AnyUserName/imgbench/internal/pixbuf"
)

// ContentHash computes the xxHash64 of data and returns a hex string
// truncated to hexLen characters (all 16 when hexLen is 0).
func ContentHash(data []byte, hexLen int) string {
	return truncate(xxhash.Sum64(data), hexLen)
}

// ContentHashReader computes the same hash as ContentHash, streaming.
func ContentHashReader(r io.Reader, hexLen int) (string, error) {
	h := xxhash.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return truncate(h.Sum64(), hexLen), nil
}

// PixelChecksum hashes the non-premultiplied RGBA pixels of img row by row,
// so two images with equal pixels hash equal whatever their concrete type,
// stride or channel order.
func PixelChecksum(img image.Image) string {
	var nrgba *image.NRGBA
	switch v := img.(type) {
	case *pixbuf.Buffer:
		nrgba = v.NRGBA()
	case *image.NRGBA:
		nrgba = v
	default:
		nrgba = imaging.Clone(img)
	}

	h := xxhash.New()
	b := nrgba.Bounds()
	rowLen := b.Dx() * 4
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := nrgba.PixOffset(b.Min.X, y)
		_, _ = h.Write(nrgba.Pix[off : off+rowLen])
	}
	var dims [8]byte
	binary.BigEndian.PutUint32(dims[0:4], uint32(b.Dx()))
	binary.BigEndian.PutUint32(dims[4:8], uint32(b.Dy()))
	_, _ = h.Write(dims[:])
	return truncate(h.Sum64(), 0)
}

func truncate(sum uint64, hexLen int) string {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], sum)
	full := hex.EncodeToString(b[:])
	if hexLen > 0 && hexLen < len(full) {
		return full[:hexLen]
	}
	return full
}
