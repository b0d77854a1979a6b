package rapidqoi

// Decode parses a complete QOI stream and returns its descriptor together
// with a newly allocated pixel buffer in the stream's channel layout.
func Decode(data []byte) (Desc, []byte, error) {
	d, err := DecodeHeader(data)
	if err != nil {
		return Desc{}, nil, err
	}
	pix := make([]byte, d.RawSize())
	if err := decodeBody(d, data[headerSize:], pix); err != nil {
		return Desc{}, nil, err
	}
	return d, pix, nil
}

// DecodeInto decodes data into pix, which must be exactly RawSize() bytes
// for the stream's descriptor.
func DecodeInto(data, pix []byte) (Desc, error) {
	d, err := DecodeHeader(data)
	if err != nil {
		return Desc{}, err
	}
	if len(pix) != d.RawSize() {
		return Desc{}, ErrPixelCount
	}
	return d, decodeBody(d, data[headerSize:], pix)
}

func decodeBody(d Desc, body, pix []byte) error {
	// The end marker is not part of the chunk stream, but streams that
	// omit it are still accepted as long as every pixel is covered.
	end := len(body)
	if end >= len(endMarker) && [8]byte(body[end-len(endMarker):]) == endMarker {
		end -= len(endMarker)
	}

	channels := d.Colors.Channels()
	var index [indexSize]pixel
	px := pixel{0, 0, 0, 255}
	run := 0
	p := 0

	for off := 0; off < len(pix); off += channels {
		switch {
		case run > 0:
			run--
		case p >= end:
			return ErrTruncated
		default:
			b1 := body[p]
			p++
			switch {
			case b1 == opRGB:
				if p+3 > end {
					return ErrTruncated
				}
				px[0], px[1], px[2] = body[p], body[p+1], body[p+2]
				p += 3
			case b1 == opRGBA:
				if p+4 > end {
					return ErrTruncated
				}
				px = pixel{body[p], body[p+1], body[p+2], body[p+3]}
				p += 4
			case b1&mask2 == opIndex:
				px = index[b1]
			case b1&mask2 == opDiff:
				px[0] += (b1>>4)&0x03 - 2
				px[1] += (b1>>2)&0x03 - 2
				px[2] += b1&0x03 - 2
			case b1&mask2 == opLuma:
				if p >= end {
					return ErrTruncated
				}
				b2 := body[p]
				p++
				vg := b1&0x3f - 32
				px[0] += vg - 8 + (b2>>4)&0x0f
				px[1] += vg
				px[2] += vg - 8 + b2&0x0f
			default:
				run = int(b1 & 0x3f)
			}
			index[px.hash()] = px
		}

		copy(pix[off:off+channels], px[:channels])
	}
	return nil
}
