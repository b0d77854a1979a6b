package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/imgbench/internal/bench"
	"github.com/AnyUserName/imgbench/internal/codec"
	"github.com/AnyUserName/imgbench/internal/config"
	"github.com/AnyUserName/imgbench/internal/pixbuf"
	"github.com/AnyUserName/imgbench/internal/profile"
	"github.com/AnyUserName/imgbench/internal/report"
)

// greeting closes every successful run.
const greeting = "Hello, world!"

type runFlags struct {
	input        string
	width        int
	height       int
	stride       int
	profile      string
	codecs       []string
	quality      int
	iterations   int
	warmup       int
	strictDecode bool
	verify       bool
	lz4          bool
	out          string
	saveDecoded  bool
	report       string
	config       string
}

func newRunCmd() *cobra.Command {
	f := &runFlags{}
	c := &cobra.Command{
		Use:   "run [input]",
		Short: "Benchmark the configured codecs on one raw frame",
		Long: `Loads the input buffer, then encodes it with every configured codec in
turn. Lossless codecs also decode their own output. Only the encode and
decode calls are timed.

Inputs with a .bgra, .rgb, .raw or .bin extension are read as headerless
BGRA of --width x --height; any other file is decoded as an image and
converted to BGRA.

Settings are taken from the built-in defaults, then the profile, then the
--config file, then explicit flags.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(cmd, f, args)
		},
	}

	fl := c.Flags()
	fl.StringVarP(&f.input, "input", "i", config.DefaultInput, "input file")
	fl.IntVarP(&f.width, "width", "W", config.DefaultWidth, "raw input width in pixels")
	fl.IntVarP(&f.height, "height", "H", config.DefaultHeight, "raw input height in pixels")
	fl.IntVar(&f.stride, "stride", 0, "raw input row stride in bytes (0 = width*4)")
	fl.StringVarP(&f.profile, "profile", "p", profile.DefaultName, "benchmark profile (default, lossless, all, soak)")
	fl.StringSliceVar(&f.codecs, "codecs", nil, "codecs to run (overrides profile)")
	fl.IntVarP(&f.quality, "quality", "q", 0, "lossy quality 1-100 (0 = profile default)")
	fl.IntVarP(&f.iterations, "iterations", "n", 0, "timed rounds per operation (0 = profile default)")
	fl.IntVar(&f.warmup, "warmup", 0, "untimed encode rounds per codec")
	fl.BoolVar(&f.strictDecode, "strict-decode", false, "abort on any decode failure")
	fl.BoolVar(&f.verify, "verify", true, "compare decoded pixels with the source")
	fl.BoolVar(&f.lz4, "lz4", false, "LZ4-compress every encoded output and report time and size")
	fl.StringVarP(&f.out, "out", "o", "", "write encoded outputs to this directory")
	fl.BoolVar(&f.saveDecoded, "save-decoded", false, "also write decoded images as PNG (needs --out)")
	fl.StringVar(&f.report, "report", "", "write a JSON report to this path")
	fl.StringVarP(&f.config, "config", "c", "", "YAML run configuration")
	return c
}

// resolve layers the config file and explicit flags over the profile.
func (f *runFlags) resolve(cmd *cobra.Command, args []string) (config.Run, error) {
	var file *config.File
	if f.config != "" {
		var err error
		if file, err = config.Load(f.config); err != nil {
			return config.Run{}, err
		}
	}

	fl := cmd.Flags()
	profileName := ""
	if fl.Changed("profile") {
		profileName = f.profile
	}
	r := config.Resolve(file, profileName)

	switch {
	case len(args) == 1 && fl.Changed("input") && args[0] != f.input:
		return r, fmt.Errorf("input given twice: %q and --input %q", args[0], f.input)
	case len(args) == 1:
		r.Input = args[0]
	case fl.Changed("input"):
		r.Input = f.input
	}
	if fl.Changed("width") {
		r.Width = f.width
	}
	if fl.Changed("height") {
		r.Height = f.height
	}
	if fl.Changed("stride") {
		r.Stride = f.stride
	}
	if fl.Changed("codecs") {
		r.Codecs = f.codecs
	}
	if fl.Changed("quality") && f.quality != 0 {
		r.Quality = f.quality
	}
	if fl.Changed("iterations") && f.iterations != 0 {
		r.Iterations = f.iterations
	}
	if fl.Changed("warmup") {
		r.Warmup = f.warmup
	}
	if fl.Changed("strict-decode") {
		r.StrictDecode = f.strictDecode
	}
	if fl.Changed("verify") {
		r.Verify = f.verify
	}
	if fl.Changed("lz4") {
		r.LZ4 = f.lz4
	}
	if fl.Changed("out") {
		r.OutDir = f.out
	}
	if fl.Changed("save-decoded") {
		r.SaveDecoded = f.saveDecoded
	}
	if fl.Changed("report") {
		r.ReportPath = f.report
	}
	return r, r.Validate()
}

func runBench(cmd *cobra.Command, f *runFlags, args []string) error {
	start := time.Now()

	r, err := f.resolve(cmd, args)
	if err != nil {
		return err
	}
	if !profile.Known(r.Profile) {
		logWarn("unknown profile %q, using the default codec set", r.Profile)
	}

	registry := codec.NewRegistry()
	logVerbose("%s", registry.String())

	codecs := profile.Profile{Codecs: r.Codecs}.ExpandCodecs(registry.Names())
	logVerbose("input:   %s", r.Input)
	logVerbose("profile: %s (codecs=%v, quality=%d, iterations=%d, warmup=%d)",
		r.Profile, codecs, r.Quality, r.Iterations, r.Warmup)

	runner, err := bench.New(bench.Config{
		Profile:      r.Profile,
		InputPath:    r.Input,
		Codecs:       codecs,
		Options:      codec.Options{Quality: r.Quality},
		Iterations:   r.Iterations,
		Warmup:       r.Warmup,
		StrictDecode: r.StrictDecode,
		Verify:       r.Verify,
		PostLZ4:      r.LZ4,
		OutDir:       r.OutDir,
		SaveDecoded:  r.SaveDecoded,
		Verbose:      verbose,
		Out:          cmd.OutOrStdout(),
		Log:          cmd.ErrOrStderr(),
	}, registry)
	if err != nil {
		return err
	}

	src, err := loadInput(r)
	if err != nil {
		return err
	}

	rep, err := runner.Run(src)
	if err != nil {
		return err
	}

	if r.ReportPath != "" {
		if dir := filepath.Dir(r.ReportPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create report dir: %w", err)
			}
		}
		if err := report.WriteJSON(rep, r.ReportPath); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		logVerbose("report:  %s", r.ReportPath)
	}

	logVerbose("done in %s", time.Since(start).Round(time.Millisecond))
	fmt.Fprintln(cmd.OutOrStdout(), greeting)
	return nil
}

func loadInput(r config.Run) (*pixbuf.Buffer, error) {
	if pixbuf.IsRaw(r.Input) {
		if info, err := os.Stat(r.Input); err == nil {
			stride := r.Stride
			if stride == 0 {
				stride = r.Width * pixbuf.BytesPerPixel
			}
			if want := int64(stride * r.Height); info.Size() != want {
				logVerbose("input holds %d bytes, %dx%d at stride %d expects %d",
					info.Size(), r.Width, r.Height, stride, want)
			}
		}
	}

	src, err := pixbuf.Open(r.Input, r.Width, r.Height, r.Stride)
	if err != nil {
		return nil, err
	}
	logVerbose("loaded:  %dx%d, stride %d, %s", src.Width, src.Height, src.Stride, formatBytes(int64(src.Len())))
	return src, nil
}
