//go:build !no_cgo

package codec

import (
	"bytes"

	libjpeg "github.com/pixiv/go-libjpeg/jpeg"

	"github.com/AnyUserName/imgbench/internal/pixbuf"
)

const jpegLibrary = "github.com/pixiv/go-libjpeg"

func encodeNativeJPEG(src *pixbuf.Buffer, quality int) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(src.Width * src.Height / 2)

	opts := &libjpeg.EncoderOptions{Quality: quality, DCTMethod: libjpeg.DCTISlow}
	if err := libjpeg.Encode(&buf, src.Opaque(), opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
