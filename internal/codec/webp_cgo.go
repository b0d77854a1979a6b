//go:build !no_cgo

package codec

import (
	"bytes"
	"image"

	"github.com/chai2010/webp"

	"github.com/AnyUserName/imgbench/internal/pixbuf"
)

const webpAvailable = true

// encodeWebP hands libwebp the straight (non-premultiplied) NRGBA bytes.
// They are wrapped as *image.RGBA only so the binding passes them through
// unconverted; libwebp itself expects straight alpha. Exact keeps the
// colour of fully transparent pixels.
func encodeWebP(src *pixbuf.Buffer) ([]byte, error) {
	nrgba := src.NRGBA()
	straight := &image.RGBA{Pix: nrgba.Pix, Stride: nrgba.Stride, Rect: nrgba.Rect}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, straight, &webp.Options{Lossless: true, Exact: true}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeWebP returns the libwebp output as *image.NRGBA, which is what the
// bytes are.
func decodeWebP(data []byte) (image.Image, error) {
	m, err := webp.DecodeRGBA(data)
	if err != nil {
		return nil, err
	}
	return &image.NRGBA{Pix: m.Pix, Stride: m.Stride, Rect: m.Rect}, nil
}
