package pixbuf

import (
	"fmt"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// rawExtensions lists file extensions read as headerless BGRA dumps.
var rawExtensions = map[string]bool{
	".bgra": true,
	".rgb":  true,
	".raw":  true,
	".bin":  true,
}

// IsRaw reports whether path is treated as a headerless BGRA dump.
func IsRaw(path string) bool {
	return rawExtensions[strings.ToLower(filepath.Ext(path))]
}

// Load reads a headerless BGRA file. The whole file is read in one call and
// the handle is released before Load returns.
func Load(path string, width, height, stride int) (*Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	buf, err := New(data, width, height, stride)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return buf, nil
}

// Open loads path either as a raw BGRA dump (see IsRaw) or as an encoded
// image, in which case width, height and stride are taken from the file.
func Open(path string, width, height, stride int) (*Buffer, error) {
	if IsRaw(path) {
		return Load(path, width, height, stride)
	}
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode input %s: %w", path, err)
	}
	return FromImage(img), nil
}
