// Package bench runs codecs over one pixel buffer and prints their timings.
//
// Everything runs on the calling goroutine, one codec after the other. Only
// the encode and decode calls themselves are timed; conversions of the
// source buffer happen once, before the first codec starts.
package bench

import (
	"fmt"
	"io"
	"os"

	"github.com/AnyUserName/imgbench/internal/codec"
	"github.com/AnyUserName/imgbench/internal/hasher"
	"github.com/AnyUserName/imgbench/internal/pixbuf"
	"github.com/AnyUserName/imgbench/internal/report"
)

// Config holds all parameters for a benchmark run.
type Config struct {
	Profile      string
	InputPath    string
	Codecs       []string // codec keys in run order
	Options      codec.Options
	Iterations   int  // timed rounds per operation, at least 1
	Warmup       int  // untimed encode rounds per codec
	StrictDecode bool // make every decode failure fatal
	Verify       bool // compare decoded pixels with the source
	PostLZ4      bool // LZ4-compress each encoded output and time it
	OutDir       string
	SaveDecoded  bool
	Verbose      bool

	Out io.Writer // result lines, os.Stdout when nil
	Log io.Writer // warnings and diagnostics, os.Stderr when nil
}

// Runner measures a fixed list of codecs.
type Runner struct {
	cfg    Config
	codecs []codec.Codec
}

// New resolves the configured codecs against registry. Unknown codec keys
// are an error; codecs compiled out of this build are skipped with a
// warning.
func New(cfg Config, registry *codec.Registry) (*Runner, error) {
	if cfg.Iterations <= 0 {
		cfg.Iterations = 1
	}
	if cfg.Warmup < 0 {
		cfg.Warmup = 0
	}
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	if cfg.Log == nil {
		cfg.Log = os.Stderr
	}

	r := &Runner{cfg: cfg}
	codecs, skipped, err := registry.Resolve(cfg.Codecs)
	if err != nil {
		return nil, err
	}
	for _, name := range skipped {
		r.warnf("codec %s is not available in this build, skipping", name)
	}
	if len(codecs) == 0 {
		return nil, fmt.Errorf("no available codecs among %v", cfg.Codecs)
	}
	r.codecs = codecs
	return r, nil
}

// Codecs returns the names of the codecs the runner measures, in order.
func (r *Runner) Codecs() []string {
	names := make([]string, len(r.codecs))
	for i, c := range r.codecs {
		names[i] = c.Name()
	}
	return names
}

// Run measures every codec on src and returns the collected report. An
// encode failure, or a decode failure the codec does not tolerate, stops
// the run and is returned.
func (r *Runner) Run(src *pixbuf.Buffer) (*report.Report, error) {
	src.Prepare()

	rep := report.New(r.cfg.Profile)
	rep.Iterations = r.cfg.Iterations
	rep.Warmup = r.cfg.Warmup
	rep.Input = report.InputInfo{
		Path:   r.cfg.InputPath,
		Width:  src.Width,
		Height: src.Height,
		Stride: src.Stride,
		Size:   int64(src.Len()),
	}

	var checksum string
	if r.cfg.Verify {
		checksum = hasher.PixelChecksum(src)
		rep.Input.Checksum = checksum
	}

	if r.cfg.OutDir != "" {
		if err := os.MkdirAll(r.cfg.OutDir, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}

	r.logf("measuring %d codecs on %dx%d, %d iterations, %d warmup",
		len(r.codecs), src.Width, src.Height, r.cfg.Iterations, r.cfg.Warmup)

	for _, c := range r.codecs {
		res, err := r.measure(c, src, checksum)
		if err != nil {
			return nil, err
		}
		rep.Add(res)
	}

	rep.ComputeStats()
	return rep, nil
}

func (r *Runner) logf(format string, args ...any) {
	if r.cfg.Verbose {
		fmt.Fprintf(r.cfg.Log, "[imgbench] "+format+"\n", args...)
	}
}

func (r *Runner) warnf(format string, args ...any) {
	fmt.Fprintf(r.cfg.Log, "[imgbench] warning: "+format+"\n", args...)
}
