// Package rapidqoi implements the QOI ("Quite OK Image") format directly on
// flat pixel slices. Callers describe the buffer with a Desc instead of
// handing over an image.Image, so encoding never goes through At() or a
// colour model conversion.
//
// It is a Go stand-in for the rapid_qoi codec: same descriptor-driven API,
// same byte stream as the reference encoder.
package rapidqoi

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	opIndex byte = 0b00_000000
	opDiff  byte = 0b01_000000
	opLuma  byte = 0b10_000000
	opRun   byte = 0b11_000000
	opRGB   byte = 0b1111_1110
	opRGBA  byte = 0b1111_1111

	mask2 byte = 0b11_000000
)

const (
	magic      = "qoif"
	headerSize = 4 + 4 + 4 + 1 + 1
	maxRun     = 62
	indexSize  = 64

	// MaxPixels bounds width*height for both encode and decode.
	MaxPixels = 400_000_000
)

var endMarker = [8]byte{0, 0, 0, 0, 0, 0, 0, 1}

var (
	ErrBadMagic   = errors.New("rapidqoi: invalid magic")
	ErrBadHeader  = errors.New("rapidqoi: invalid header")
	ErrTruncated  = errors.New("rapidqoi: truncated data")
	ErrPixelCount = errors.New("rapidqoi: pixel buffer does not match descriptor")
)

// Colors selects the channel count and the colourspace byte of the header.
type Colors uint8

const (
	// SRGB is 3 channel sRGB.
	SRGB Colors = iota
	// SRGBLinA is 4 channel sRGB with linear alpha.
	SRGBLinA
	// RGB is 3 channel, all channels linear.
	RGB
	// RGBA is 4 channel, all channels linear.
	RGBA
)

// Channels returns the number of bytes per pixel for c.
func (c Colors) Channels() int {
	switch c {
	case SRGB, RGB:
		return 3
	default:
		return 4
	}
}

func (c Colors) colorspace() byte {
	if c == RGB || c == RGBA {
		return 1
	}
	return 0
}

func (c Colors) String() string {
	switch c {
	case SRGB:
		return "srgb"
	case SRGBLinA:
		return "srgb-lin-a"
	case RGB:
		return "rgb"
	case RGBA:
		return "rgba"
	}
	return fmt.Sprintf("colors(%d)", uint8(c))
}

func colorsFromHeader(channels, colorspace byte) (Colors, bool) {
	switch {
	case channels == 3 && colorspace == 0:
		return SRGB, true
	case channels == 4 && colorspace == 0:
		return SRGBLinA, true
	case channels == 3 && colorspace == 1:
		return RGB, true
	case channels == 4 && colorspace == 1:
		return RGBA, true
	}
	return 0, false
}

// Desc describes an image: its dimensions and pixel layout.
type Desc struct {
	Width  uint32
	Height uint32
	Colors Colors
}

// Pixels returns Width*Height.
func (d Desc) Pixels() int {
	return int(d.Width) * int(d.Height)
}

// RawSize returns the byte length of an unencoded buffer described by d.
func (d Desc) RawSize() int {
	return d.Pixels() * d.Colors.Channels()
}

// MaxEncodedSize is the worst case output length for d: every pixel stored
// as a full QOI_OP_RGB(A) chunk.
func (d Desc) MaxEncodedSize() int {
	return d.Pixels()*(d.Colors.Channels()+1) + headerSize + len(endMarker)
}

func (d Desc) validate() error {
	if d.Width == 0 || d.Height == 0 || d.Pixels() > MaxPixels {
		return fmt.Errorf("%w: %dx%d", ErrBadHeader, d.Width, d.Height)
	}
	if d.Colors > RGBA {
		return fmt.Errorf("%w: %s", ErrBadHeader, d.Colors)
	}
	return nil
}

func (d Desc) appendHeader(dst []byte) []byte {
	dst = append(dst, magic...)
	dst = binary.BigEndian.AppendUint32(dst, d.Width)
	dst = binary.BigEndian.AppendUint32(dst, d.Height)
	return append(dst, byte(d.Colors.Channels()), d.Colors.colorspace())
}

// DecodeHeader parses the 14 byte header at the start of data.
func DecodeHeader(data []byte) (Desc, error) {
	if len(data) < headerSize {
		return Desc{}, ErrTruncated
	}
	if string(data[:4]) != magic {
		return Desc{}, ErrBadMagic
	}
	colors, ok := colorsFromHeader(data[12], data[13])
	if !ok {
		return Desc{}, fmt.Errorf("%w: channels=%d colorspace=%d", ErrBadHeader, data[12], data[13])
	}
	d := Desc{
		Width:  binary.BigEndian.Uint32(data[4:]),
		Height: binary.BigEndian.Uint32(data[8:]),
		Colors: colors,
	}
	return d, d.validate()
}

type pixel [4]byte

func (p pixel) hash() byte {
	return byte((int(p[0])*3 + int(p[1])*5 + int(p[2])*7 + int(p[3])*11) % indexSize)
}
