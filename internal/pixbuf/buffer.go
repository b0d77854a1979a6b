// Package pixbuf holds the raw pixel buffer every benchmark reads from.
//
// A Buffer is BGRA, 4 bytes per pixel, and is never written to after it is
// created. It satisfies image.Image so any encoder can read it directly, and
// it caches the NRGBA and opaque RGBA views that Go encoders prefer so the
// channel swizzle happens once, outside of any timed section.
package pixbuf

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"sync"
)

// BytesPerPixel is fixed: blue, green, red, alpha.
const BytesPerPixel = 4

var (
	ErrBadDimensions = errors.New("pixbuf: invalid dimensions")
	ErrShortBuffer   = errors.New("pixbuf: buffer shorter than width*height")
)

// Buffer is an immutable BGRA pixel buffer.
type Buffer struct {
	Pix    []byte
	Width  int
	Height int
	Stride int // bytes per row, >= Width*BytesPerPixel

	nrgbaOnce  sync.Once
	nrgba      *image.NRGBA
	opaqueOnce sync.Once
	opaque     *image.RGBA
}

// MinLen is the smallest byte length that holds a width x height image with
// the given stride. The last row does not need trailing padding.
func MinLen(width, height, stride int) int {
	if width <= 0 || height <= 0 {
		return 0
	}
	return stride*(height-1) + width*BytesPerPixel
}

// New wraps pix without copying. A zero stride means tightly packed rows.
func New(pix []byte, width, height, stride int) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrBadDimensions, width, height)
	}
	if stride == 0 {
		stride = width * BytesPerPixel
	}
	if stride < width*BytesPerPixel {
		return nil, fmt.Errorf("%w: stride %d < %d", ErrBadDimensions, stride, width*BytesPerPixel)
	}
	if need := MinLen(width, height, stride); len(pix) < need {
		return nil, fmt.Errorf("%w: have %d bytes, need %d", ErrShortBuffer, len(pix), need)
	}
	if full := stride * height; len(pix) > full {
		pix = pix[:full]
	}
	return &Buffer{Pix: pix, Width: width, Height: height, Stride: stride}, nil
}

// Len returns the number of bytes held by the buffer.
func (b *Buffer) Len() int { return len(b.Pix) }

// Packed reports whether rows follow each other without padding.
func (b *Buffer) Packed() bool { return b.Stride == b.Width*BytesPerPixel }

// Row returns the pixel bytes of row y, without padding.
func (b *Buffer) Row(y int) []byte {
	off := y * b.Stride
	return b.Pix[off : off+b.Width*BytesPerPixel]
}

// Tight returns the pixels with padding removed. It returns Pix itself when
// the buffer is already packed.
func (b *Buffer) Tight() []byte {
	if b.Packed() {
		return b.Pix[:b.Width*b.Height*BytesPerPixel]
	}
	out := make([]byte, 0, b.Width*b.Height*BytesPerPixel)
	for y := 0; y < b.Height; y++ {
		out = append(out, b.Row(y)...)
	}
	return out
}

func (b *Buffer) ColorModel() color.Model { return color.NRGBAModel }

func (b *Buffer) Bounds() image.Rectangle { return image.Rect(0, 0, b.Width, b.Height) }

func (b *Buffer) At(x, y int) color.Color {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return color.NRGBA{}
	}
	return b.NRGBAAt(x, y)
}

// NRGBAAt returns the pixel at (x, y) in RGBA channel order.
func (b *Buffer) NRGBAAt(x, y int) color.NRGBA {
	i := y*b.Stride + x*BytesPerPixel
	p := b.Pix[i : i+4 : i+4]
	return color.NRGBA{R: p[2], G: p[1], B: p[0], A: p[3]}
}

// NRGBA returns the buffer converted to non-premultiplied RGBA with tight
// rows. The conversion runs once; the result must not be modified.
func (b *Buffer) NRGBA() *image.NRGBA {
	b.nrgbaOnce.Do(func() {
		img := image.NewNRGBA(b.Bounds())
		for y := 0; y < b.Height; y++ {
			swizzle(img.Pix[y*img.Stride:], b.Row(y), false)
		}
		b.nrgba = img
	})
	return b.nrgba
}

// Opaque returns the buffer as RGBA with alpha forced to 255, the input the
// JPEG encoders take. The conversion runs once; the result must not be
// modified.
func (b *Buffer) Opaque() *image.RGBA {
	b.opaqueOnce.Do(func() {
		img := image.NewRGBA(b.Bounds())
		for y := 0; y < b.Height; y++ {
			swizzle(img.Pix[y*img.Stride:], b.Row(y), true)
		}
		b.opaque = img
	})
	return b.opaque
}

// Prepare builds every cached view up front.
func (b *Buffer) Prepare() {
	b.NRGBA()
	b.Opaque()
}

// swizzle converts one row between BGRA and RGBA; the operation is its own
// inverse.
func swizzle(dst, src []byte, opaque bool) {
	for i := 0; i+3 < len(src); i += 4 {
		dst[i+0] = src[i+2]
		dst[i+1] = src[i+1]
		dst[i+2] = src[i+0]
		if opaque {
			dst[i+3] = 0xff
		} else {
			dst[i+3] = src[i+3]
		}
	}
}

// FromImage copies any image into a new packed BGRA buffer.
func FromImage(img image.Image) *Buffer {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	buf := &Buffer{
		Pix:    make([]byte, w*h*BytesPerPixel),
		Width:  w,
		Height: h,
		Stride: w * BytesPerPixel,
	}

	if src, ok := img.(*image.NRGBA); ok {
		for y := 0; y < h; y++ {
			off := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			swizzle(buf.Pix[y*buf.Stride:], src.Pix[off:off+w*4], false)
		}
		return buf
	}

	for y := 0; y < h; y++ {
		row := buf.Pix[y*buf.Stride:]
		for x := 0; x < w; x++ {
			c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			i := x * BytesPerPixel
			row[i+0], row[i+1], row[i+2], row[i+3] = c.B, c.G, c.R, c.A
		}
	}
	return buf
}

// FromBGRA packs decoded BGRA bytes of a known size into a Buffer.
func FromBGRA(pix []byte, width, height int) (*Buffer, error) {
	if len(pix) > width*height*BytesPerPixel {
		return nil, fmt.Errorf("%w: %d bytes for %dx%d", ErrBadDimensions, len(pix), width, height)
	}
	return New(pix, width, height, 0)
}
