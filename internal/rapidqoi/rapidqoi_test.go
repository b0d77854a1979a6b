package rapidqoi

import (
	"bytes"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xfmoulet/qoi"
)

// makePixels fills a w*h buffer with a pattern that exercises every opcode:
// flat runs, small deltas, luma deltas and repeats. With translucent set,
// every 17th column also changes alpha.
func makePixels(w, h, channels int, translucent bool) []byte {
	pix := make([]byte, w*h*channels)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			off := (y*w + x) * channels
			switch {
			case y%4 == 0:
				// flat row → QOI_OP_RUN
				pix[off], pix[off+1], pix[off+2] = 10, 20, 30
			case y%4 == 1:
				// slow gradient → QOI_OP_DIFF / QOI_OP_LUMA
				pix[off], pix[off+1], pix[off+2] = uint8(x), uint8(x*2), uint8(x*3)
			case y%4 == 2:
				// noisy → QOI_OP_RGB
				pix[off], pix[off+1], pix[off+2] = uint8(x*251), uint8(y*179+x), uint8((x+y)*113)
			default:
				// alternating two colours → QOI_OP_INDEX
				if x%2 == 0 {
					pix[off], pix[off+1], pix[off+2] = 200, 0, 0
				} else {
					pix[off], pix[off+1], pix[off+2] = 0, 0, 200
				}
			}
			if channels == 4 {
				pix[off+3] = 255
				if translucent && x%17 == 0 {
					pix[off+3] = uint8(x)
				}
			}
		}
	}
	return pix
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		w, h   int
		colors Colors
	}{
		{"srgb-lin-a", 97, 33, SRGBLinA},
		{"rgba-linear", 64, 64, RGBA},
		{"srgb", 50, 21, SRGB},
		{"rgb-linear", 1, 1, RGB},
		{"single-row", 300, 1, SRGBLinA},
		{"long-run", 1000, 3, SRGBLinA},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc := Desc{Width: uint32(tt.w), Height: uint32(tt.h), Colors: tt.colors}
			pix := makePixels(tt.w, tt.h, tt.colors.Channels(), true)

			encoded, err := desc.Encode(pix)
			require.NoError(t, err)
			assert.LessOrEqual(t, len(encoded), desc.MaxEncodedSize())

			got, decoded, err := Decode(encoded)
			require.NoError(t, err)
			assert.Equal(t, desc, got)
			require.Len(t, decoded, len(pix))
			assert.True(t, bytes.Equal(pix, decoded), "decoded pixels differ from the source")
		})
	}
}

func TestEncodeAllZero(t *testing.T) {
	desc := Desc{Width: 1920, Height: 1080, Colors: SRGBLinA}
	pix := make([]byte, desc.RawSize())

	encoded, err := desc.Encode(pix)
	require.NoError(t, err)

	// Transparent black hashes to slot 0, which starts out zeroed, so the
	// stream is a single QOI_OP_INDEX followed by runs.
	runs := (desc.Pixels() - 1 + maxRun - 1) / maxRun
	assert.Equal(t, headerSize+1+runs+len(endMarker), len(encoded))

	_, decoded, err := Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, pix, decoded)
}

func TestHeader(t *testing.T) {
	desc := Desc{Width: 400, Height: 300, Colors: SRGBLinA}
	encoded, err := desc.Encode(make([]byte, desc.RawSize()))
	require.NoError(t, err)

	assert.Equal(t, []byte("qoif"), encoded[:4])
	assert.Equal(t, []byte{0, 0, 1, 144}, encoded[4:8])
	assert.Equal(t, []byte{0, 0, 1, 44}, encoded[8:12])
	assert.Equal(t, byte(4), encoded[12])
	assert.Equal(t, byte(0), encoded[13])
	assert.Equal(t, endMarker[:], encoded[len(encoded)-8:])

	got, err := DecodeHeader(encoded)
	require.NoError(t, err)
	assert.Equal(t, desc, got)
}

func TestEncodeErrors(t *testing.T) {
	_, err := Desc{Width: 2, Height: 2, Colors: SRGBLinA}.Encode(make([]byte, 15))
	assert.ErrorIs(t, err, ErrPixelCount)

	_, err = Desc{Width: 0, Height: 2, Colors: SRGBLinA}.Encode(nil)
	assert.ErrorIs(t, err, ErrBadHeader)

	_, err = Desc{Width: 2, Height: 2, Colors: Colors(9)}.Encode(make([]byte, 16))
	assert.ErrorIs(t, err, ErrBadHeader)
}

func TestDecodeErrors(t *testing.T) {
	desc := Desc{Width: 16, Height: 16, Colors: SRGBLinA}
	valid, err := desc.Encode(makePixels(16, 16, 4, true))
	require.NoError(t, err)

	badMagic := append([]byte("qoix"), valid[4:]...)
	badChannels := append([]byte(nil), valid...)
	badChannels[12] = 5

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, ErrTruncated},
		{"short header", valid[:10], ErrTruncated},
		{"bad magic", badMagic, ErrBadMagic},
		{"bad channels", badChannels, ErrBadHeader},
		{"header only", valid[:headerSize], ErrTruncated},
		{"cut body", valid[:len(valid)/2], ErrTruncated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Decode(tt.data)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDecodeInto(t *testing.T) {
	desc := Desc{Width: 8, Height: 8, Colors: SRGB}
	pix := makePixels(8, 8, 3, false)
	encoded, err := desc.Encode(pix)
	require.NoError(t, err)

	dst := make([]byte, len(pix))
	got, err := DecodeInto(encoded, dst)
	require.NoError(t, err)
	assert.Equal(t, desc, got)
	assert.Equal(t, pix, dst)

	_, err = DecodeInto(encoded, make([]byte, 3))
	assert.ErrorIs(t, err, ErrPixelCount)
}

// The reference Go port and this package must agree byte for byte. The
// reference encoder reads colours through RGBA(), which premultiplies, so
// the comparison sticks to opaque pixels.
func TestCompatibleWithReference(t *testing.T) {
	const w, h = 61, 29
	pix := makePixels(w, h, 4, false)
	img := &image.NRGBA{Pix: pix, Stride: w * 4, Rect: image.Rect(0, 0, w, h)}

	var ref bytes.Buffer
	require.NoError(t, qoi.Encode(&ref, img))

	ours, err := Desc{Width: w, Height: h, Colors: SRGBLinA}.Encode(pix)
	require.NoError(t, err)
	assert.Equal(t, ref.Bytes(), ours)

	_, decoded, err := Decode(ref.Bytes())
	require.NoError(t, err)
	assert.Equal(t, pix, decoded)

	back, err := qoi.Decode(bytes.NewReader(ours))
	require.NoError(t, err)
	nrgba, ok := back.(*image.NRGBA)
	require.True(t, ok)
	assert.Equal(t, pix, nrgba.Pix)
}

func TestColors(t *testing.T) {
	assert.Equal(t, 3, SRGB.Channels())
	assert.Equal(t, 4, SRGBLinA.Channels())
	assert.Equal(t, 3, RGB.Channels())
	assert.Equal(t, 4, RGBA.Channels())
	assert.Equal(t, "srgb-lin-a", SRGBLinA.String())
}
