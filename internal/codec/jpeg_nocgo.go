//go:build no_cgo

package codec

import "github.com/AnyUserName/imgbench/internal/pixbuf"

const jpegLibrary = "image/jpeg (no_cgo)"

func encodeNativeJPEG(src *pixbuf.Buffer, quality int) ([]byte, error) {
	return encodeStdJPEG(src, quality)
}
