package cmd

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"

	"github.com/AnyUserName/imgbench/internal/config"
	"github.com/AnyUserName/imgbench/internal/pixbuf"
)

// patterns fill a tightly packed BGRA buffer.
var patterns = map[string]func(pix []byte, w, h int, rng *rand.Rand){
	"gradient": fillGradient,
	"zero":     func([]byte, int, int, *rand.Rand) {},
	"noise":    fillNoise,
	"bars":     fillBars,
}

func newGenCmd() *cobra.Command {
	var (
		pattern string
		width   int
		height  int
		seed    int64
	)
	c := &cobra.Command{
		Use:   "gen <output>",
		Short: "Write a synthetic input frame",
		Long: `Writes a synthetic frame for benchmarking. Outputs with a raw extension
(.bgra, .rgb, .raw, .bin) are written as headerless BGRA; anything else is
encoded by extension (png, jpg, bmp, tiff, gif).

Patterns: gradient, zero, noise, bars.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGen(args[0], pattern, width, height, seed)
		},
	}
	c.Flags().StringVar(&pattern, "pattern", "gradient", "pixel pattern")
	c.Flags().IntVarP(&width, "width", "W", config.DefaultWidth, "width in pixels")
	c.Flags().IntVarP(&height, "height", "H", config.DefaultHeight, "height in pixels")
	c.Flags().Int64Var(&seed, "seed", 1, "seed for the noise pattern")
	return c
}

func runGen(path, pattern string, width, height int, seed int64) error {
	fill, ok := patterns[pattern]
	if !ok {
		return fmt.Errorf("unknown pattern %q (gradient, zero, noise, bars)", pattern)
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid dimensions %dx%d", width, height)
	}

	pix := make([]byte, width*height*pixbuf.BytesPerPixel)
	fill(pix, width, height, rand.New(rand.NewSource(seed)))
	buf, err := pixbuf.New(pix, width, height, 0)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	if pixbuf.IsRaw(path) {
		if err := os.WriteFile(path, buf.Pix, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	} else if err := imaging.Save(buf.NRGBA(), path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}

	logVerbose("wrote %s %dx%d frame to %s", pattern, width, height, path)
	return nil
}

func fillGradient(pix []byte, w, h int, _ *rand.Rand) {
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := (y*w + x) * pixbuf.BytesPerPixel
			pix[i+0] = 128
			pix[i+1] = uint8(y * 255 / h)
			pix[i+2] = uint8(x * 255 / w)
			pix[i+3] = 255
		}
	}
}

func fillNoise(pix []byte, _, _ int, rng *rand.Rand) {
	rng.Read(pix)
}

// fillBars draws eight vertical colour bars over a fading alpha ramp.
func fillBars(pix []byte, w, h int, _ *rand.Rand) {
	bars := [8][3]uint8{
		{255, 255, 255}, {0, 255, 255}, {255, 255, 0}, {0, 255, 0},
		{255, 0, 255}, {0, 0, 255}, {255, 0, 0}, {0, 0, 0},
	}
	for y := 0; y < h; y++ {
		alpha := uint8(255 - y*128/h)
		for x := 0; x < w; x++ {
			c := bars[x*len(bars)/w]
			i := (y*w + x) * pixbuf.BytesPerPixel
			pix[i+0] = c[0]
			pix[i+1] = c[1]
			pix[i+2] = c[2]
			pix[i+3] = alpha
		}
	}
}
