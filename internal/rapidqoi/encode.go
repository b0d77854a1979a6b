package rapidqoi

import "fmt"

// Encode compresses pix, laid out as d describes, into a newly allocated
// QOI stream.
func (d Desc) Encode(pix []byte) ([]byte, error) {
	out := make([]byte, 0, d.MaxEncodedSize())
	return d.AppendEncode(out, pix)
}

// AppendEncode appends the QOI stream for pix to dst.
func (d Desc) AppendEncode(dst, pix []byte) ([]byte, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}
	if len(pix) != d.RawSize() {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrPixelCount, len(pix), d.RawSize())
	}

	dst = d.appendHeader(dst)

	channels := d.Colors.Channels()
	last := len(pix) - channels

	var index [indexSize]pixel
	prev := pixel{0, 0, 0, 255}
	px := prev
	run := 0

	for off := 0; off <= last; off += channels {
		px[0], px[1], px[2] = pix[off], pix[off+1], pix[off+2]
		if channels == 4 {
			px[3] = pix[off+3]
		}

		if px == prev {
			run++
			if run == maxRun || off == last {
				dst = append(dst, opRun|byte(run-1))
				run = 0
			}
			continue
		}

		if run > 0 {
			dst = append(dst, opRun|byte(run-1))
			run = 0
		}

		h := px.hash()
		switch {
		case index[h] == px:
			dst = append(dst, opIndex|h)
		case px[3] != prev[3]:
			index[h] = px
			dst = append(dst, opRGBA, px[0], px[1], px[2], px[3])
		default:
			index[h] = px
			dst = appendColorDiff(dst, px, prev)
		}
		prev = px
	}

	return append(dst, endMarker[:]...), nil
}

// appendColorDiff emits the smallest of DIFF, LUMA or RGB for px relative to
// prev. Both pixels share the same alpha.
func appendColorDiff(dst []byte, px, prev pixel) []byte {
	vr := int8(px[0] - prev[0])
	vg := int8(px[1] - prev[1])
	vb := int8(px[2] - prev[2])
	vgr := vr - vg
	vgb := vb - vg

	switch {
	case vr > -3 && vr < 2 && vg > -3 && vg < 2 && vb > -3 && vb < 2:
		return append(dst, opDiff|byte(vr+2)<<4|byte(vg+2)<<2|byte(vb+2))
	case vgr > -9 && vgr < 8 && vg > -33 && vg < 32 && vgb > -9 && vgb < 8:
		return append(dst, opLuma|byte(vg+32), byte(vgr+8)<<4|byte(vgb+8))
	default:
		return append(dst, opRGB, px[0], px[1], px[2])
	}
}
