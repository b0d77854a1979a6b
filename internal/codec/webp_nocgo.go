//go:build no_cgo

package codec

import (
	"image"

	"github.com/AnyUserName/imgbench/internal/pixbuf"
)

const webpAvailable = false

func encodeWebP(*pixbuf.Buffer) ([]byte, error) { return nil, ErrUnavailable }

func decodeWebP([]byte) (image.Image, error) { return nil, ErrUnavailable }
