package bench

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"runtime"

	"github.com/disintegration/imaging"

	"github.com/AnyUserName/imgbench/internal/codec"
	"github.com/AnyUserName/imgbench/internal/hasher"
	"github.com/AnyUserName/imgbench/internal/pixbuf"
	"github.com/AnyUserName/imgbench/internal/report"
	"github.com/AnyUserName/imgbench/internal/stopwatch"
)

// measure handles a single codec: warmup, timed encode, timed decode,
// verification and artifacts.
func (r *Runner) measure(c codec.Codec, src *pixbuf.Buffer, checksum string) (report.Result, error) {
	res := report.Result{
		Codec:     c.Name(),
		Label:     c.Label(),
		Lossless:  c.Lossless(),
		RoundTrip: report.RoundTripSkipped,
	}
	opts := r.cfg.Options

	for i := 0; i < r.cfg.Warmup; i++ {
		if _, err := c.Encode(src, opts); err != nil {
			return res, fmt.Errorf("%s: warmup encode: %w", c.Name(), err)
		}
	}

	// Encode.
	var (
		enc    stopwatch.Series
		data   []byte
		before runtime.MemStats
		after  runtime.MemStats
	)
	runtime.ReadMemStats(&before)
	for i := 0; i < r.cfg.Iterations; i++ {
		err := enc.Measure(func() error {
			var err error
			data, err = c.Encode(src, opts)
			return err
		})
		if err != nil {
			return res, fmt.Errorf("%s: encode: %w", c.Name(), err)
		}
	}
	runtime.ReadMemStats(&after)

	res.Encode = timing(&enc)
	res.EncodedSize = len(data)
	res.Ratio = float64(len(data)) / float64(src.Width*src.Height*pixbuf.BytesPerPixel)
	res.AllocBytes = (after.TotalAlloc - before.TotalAlloc) / uint64(r.cfg.Iterations)
	res.Hash = hasher.ContentHash(data, 16)

	fmt.Fprintf(r.cfg.Out, "%s encode time: %d, size: %d\n",
		c.Label(), stopwatch.Millis(enc.Mean()), len(data))

	if r.cfg.PostLZ4 {
		post, err := r.postLZ4(data, src)
		if err != nil {
			return res, fmt.Errorf("%s: %w", c.Name(), err)
		}
		res.LZ4 = post
		fmt.Fprintf(r.cfg.Out, "%s lz4 time: %d, size: %d\n",
			c.Label(), stopwatch.Millis(post.Time.Mean), post.Size)
	}

	if r.cfg.OutDir != "" {
		path, err := r.writeArtifact(c, src, res.Hash, data)
		if err != nil {
			return res, err
		}
		res.Path = path
	}

	dec, ok := codec.AsDecoder(c)
	if !ok {
		return res, nil
	}

	// Decode.
	var (
		decSeries stopwatch.Series
		img       image.Image
		decErr    error
	)
	for i := 0; i < r.cfg.Iterations && decErr == nil; i++ {
		decErr = decSeries.Measure(func() error {
			var err error
			img, err = dec.Decode(data)
			return err
		})
	}
	t := timing(&decSeries)
	res.Decode = &t

	if decErr != nil {
		res.DecodeError = decErr.Error()
		if r.cfg.StrictDecode || !codec.TolerateDecodeErrors(c) {
			return res, fmt.Errorf("%s: decode: %w", c.Name(), decErr)
		}
		r.warnf("%s decode failed: %v", c.Name(), decErr)
	}

	fmt.Fprintf(r.cfg.Out, "%s decode time: %d\n", c.Label(), stopwatch.Millis(t.Mean))

	if decErr != nil {
		return res, nil
	}

	if r.cfg.Verify && c.Lossless() && checksum != "" {
		if hasher.PixelChecksum(img) == checksum {
			res.RoundTrip = report.RoundTripMatch
		} else {
			res.RoundTrip = report.RoundTripMismatch
			r.warnf("%s round trip does not reproduce the source pixels", c.Name())
		}
	}

	if r.cfg.SaveDecoded && r.cfg.OutDir != "" {
		path := filepath.Join(r.cfg.OutDir, artifactName(c, src, res.Hash, "decoded.png"))
		if err := imaging.Save(img, path); err != nil {
			return res, fmt.Errorf("%s: save decoded: %w", c.Name(), err)
		}
		r.logf("%s decoded image saved to %s", c.Name(), path)
	}

	return res, nil
}

// postLZ4 times LZ4 block compression of an encoded output.
func (r *Runner) postLZ4(data []byte, src *pixbuf.Buffer) (*report.Post, error) {
	var (
		series stopwatch.Series
		out    []byte
	)
	for i := 0; i < r.cfg.Iterations; i++ {
		err := series.Measure(func() error {
			var err error
			out, err = codec.CompressLZ4(data)
			return err
		})
		if err != nil {
			return nil, err
		}
	}
	return &report.Post{
		Size:  len(out),
		Ratio: float64(len(out)) / float64(src.Width*src.Height*pixbuf.BytesPerPixel),
		Time:  timing(&series),
	}, nil
}

func (r *Runner) writeArtifact(c codec.Codec, src *pixbuf.Buffer, hash string, data []byte) (string, error) {
	name := artifactName(c, src, hash, c.Extension())
	if err := os.WriteFile(filepath.Join(r.cfg.OutDir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	r.logf("%s output written to %s", c.Name(), name)
	return name, nil
}

// artifactName builds codec.w.h.hash.ext.
func artifactName(c codec.Codec, src *pixbuf.Buffer, hash, ext string) string {
	return fmt.Sprintf("%s.%d.%d.%s.%s", c.Name(), src.Width, src.Height, hash[:8], ext)
}

func timing(s *stopwatch.Series) report.Timing {
	return report.Timing{
		Iterations: s.Len(),
		Min:        s.Min(),
		Max:        s.Max(),
		Mean:       s.Mean(),
	}
}
