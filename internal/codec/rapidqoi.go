package codec

import (
	"fmt"
	"image"

	"github.com/AnyUserName/imgbench/internal/pixbuf"
	"github.com/AnyUserName/imgbench/internal/rapidqoi"
)

// RapidQOICodec runs the in-tree descriptor based QOI codec.
type RapidQOICodec struct{}

func (c *RapidQOICodec) Name() string      { return "rapid-qoi" }
func (c *RapidQOICodec) Label() string     { return "test_rapid_qoi" }
func (c *RapidQOICodec) Extension() string { return "qoi" }
func (c *RapidQOICodec) Available() bool   { return true }
func (c *RapidQOICodec) Lossless() bool    { return true }
func (c *RapidQOICodec) Library() string   { return "internal/rapidqoi" }

func (c *RapidQOICodec) Encode(src *pixbuf.Buffer, _ Options) ([]byte, error) {
	desc := rapidqoi.Desc{
		Width:  uint32(src.Width),
		Height: uint32(src.Height),
		Colors: rapidqoi.SRGBLinA,
	}
	return desc.Encode(src.NRGBA().Pix)
}

func (c *RapidQOICodec) Decode(data []byte) (image.Image, error) {
	desc, pix, err := rapidqoi.Decode(data)
	if err != nil {
		return nil, err
	}
	w, h := int(desc.Width), int(desc.Height)
	switch desc.Colors.Channels() {
	case 4:
		return &image.NRGBA{Pix: pix, Stride: w * 4, Rect: image.Rect(0, 0, w, h)}, nil
	case 3:
		img := image.NewNRGBA(image.Rect(0, 0, w, h))
		for i, j := 0, 0; i+2 < len(pix); i, j = i+3, j+4 {
			img.Pix[j+0] = pix[i+0]
			img.Pix[j+1] = pix[i+1]
			img.Pix[j+2] = pix[i+2]
			img.Pix[j+3] = 0xff
		}
		return img, nil
	default:
		return nil, fmt.Errorf("rapid-qoi: unsupported colors %s", desc.Colors)
	}
}
