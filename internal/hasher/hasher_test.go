package hasher

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnyUserName/imgbench/internal/pixbuf"
)

func TestContentHash(t *testing.T) {
	data := []byte("imgbench")
	full := ContentHash(data, 0)
	assert.Len(t, full, 16)
	assert.Equal(t, full[:8], ContentHash(data, 8))
	assert.Equal(t, full, ContentHash(data, 64))

	streamed, err := ContentHashReader(bytes.NewReader(data), 0)
	require.NoError(t, err)
	assert.Equal(t, full, streamed)
}

func TestPixelChecksumIgnoresRepresentation(t *testing.T) {
	buf, err := pixbuf.New([]byte{
		1, 2, 3, 255, 4, 5, 6, 128,
		7, 8, 9, 0, 10, 11, 12, 255,
	}, 2, 2, 0)
	require.NoError(t, err)

	nrgba := buf.NRGBA()

	// Same pixels behind a padded stride.
	padded := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	sub := padded.SubImage(image.Rect(0, 0, 2, 2)).(*image.NRGBA)
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			sub.SetNRGBA(x, y, buf.NRGBAAt(x, y))
		}
	}

	want := PixelChecksum(buf)
	assert.Equal(t, want, PixelChecksum(nrgba))
	assert.Equal(t, want, PixelChecksum(sub))

	other := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	copy(other.Pix, nrgba.Pix)
	other.SetNRGBA(1, 1, color.NRGBA{R: 1})
	assert.NotEqual(t, want, PixelChecksum(other))
}

func TestPixelChecksumDimensions(t *testing.T) {
	a := image.NewNRGBA(image.Rect(0, 0, 4, 1))
	b := image.NewNRGBA(image.Rect(0, 0, 1, 4))
	assert.NotEqual(t, PixelChecksum(a), PixelChecksum(b))
}
