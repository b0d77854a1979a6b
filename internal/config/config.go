// Package config resolves the settings of one benchmark run from built-in
// defaults, a named profile, an optional YAML file and command-line flags,
// in that order of precedence.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/AnyUserName/imgbench/internal/profile"
)

// Defaults for the raw input.
const (
	DefaultInput  = "1920.bgra"
	DefaultWidth  = 1920
	DefaultHeight = 1080
)

var ErrInvalid = errors.New("config: invalid")

// File is the YAML run configuration. Zero values and nil pointers leave the
// lower-precedence setting untouched.
type File struct {
	Input        string   `yaml:"input"`
	Width        int      `yaml:"width"`
	Height       int      `yaml:"height"`
	Stride       int      `yaml:"stride"`
	Profile      string   `yaml:"profile"`
	Codecs       []string `yaml:"codecs"`
	Quality      int      `yaml:"quality"`
	Iterations   int      `yaml:"iterations"`
	Warmup       *int     `yaml:"warmup"`
	StrictDecode *bool    `yaml:"strict_decode"`
	Verify       *bool    `yaml:"verify"`
	LZ4          *bool    `yaml:"lz4"`
	Out          string   `yaml:"out"`
	SaveDecoded  *bool    `yaml:"save_decoded"`
	Report       string   `yaml:"report"`
}

// Run holds the resolved settings.
type Run struct {
	Input        string
	Width        int
	Height       int
	Stride       int // 0 = Width*4
	Profile      string
	Codecs       []string
	Quality      int
	Iterations   int
	Warmup       int
	StrictDecode bool
	Verify       bool
	LZ4          bool // LZ4 post-compression of every output
	OutDir       string
	SaveDecoded  bool
	ReportPath   string
}

// Load reads a YAML run configuration. Unknown keys are rejected.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &f, nil
}

// Defaults returns the settings used when nothing else is given.
func Defaults() Run {
	return Run{
		Input:   DefaultInput,
		Width:   DefaultWidth,
		Height:  DefaultHeight,
		Profile: profile.DefaultName,
		Verify:  true,
	}
}

// Resolve layers the profile and f (which may be nil) over the defaults.
// A non-empty profileName wins over the profile named in f.
func Resolve(f *File, profileName string) Run {
	r := Defaults()
	name := profile.DefaultName
	if f != nil && f.Profile != "" {
		name = f.Profile
	}
	if profileName != "" {
		name = profileName
	}
	r.ApplyProfile(profile.Get(name))
	if f != nil {
		r.ApplyFile(f)
	}
	return r
}

// ApplyProfile copies the profile's codec and timing settings.
func (r *Run) ApplyProfile(p profile.Profile) {
	r.Profile = p.Name
	r.Codecs = append([]string(nil), p.Codecs...)
	r.Quality = p.Quality
	r.Iterations = p.Iterations
	r.Warmup = p.Warmup
}

// ApplyFile overrides every setting f sets.
func (r *Run) ApplyFile(f *File) {
	if f.Input != "" {
		r.Input = f.Input
	}
	if f.Width != 0 {
		r.Width = f.Width
	}
	if f.Height != 0 {
		r.Height = f.Height
	}
	if f.Stride != 0 {
		r.Stride = f.Stride
	}
	if len(f.Codecs) > 0 {
		r.Codecs = append([]string(nil), f.Codecs...)
	}
	if f.Quality != 0 {
		r.Quality = f.Quality
	}
	if f.Iterations != 0 {
		r.Iterations = f.Iterations
	}
	if f.Warmup != nil {
		r.Warmup = *f.Warmup
	}
	if f.StrictDecode != nil {
		r.StrictDecode = *f.StrictDecode
	}
	if f.Verify != nil {
		r.Verify = *f.Verify
	}
	if f.LZ4 != nil {
		r.LZ4 = *f.LZ4
	}
	if f.Out != "" {
		r.OutDir = f.Out
	}
	if f.SaveDecoded != nil {
		r.SaveDecoded = *f.SaveDecoded
	}
	if f.Report != "" {
		r.ReportPath = f.Report
	}
}

// Validate checks ranges. Input existence is checked when loading.
func (r Run) Validate() error {
	switch {
	case r.Input == "":
		return fmt.Errorf("%w: empty input path", ErrInvalid)
	case r.Width <= 0 || r.Height <= 0:
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalid, r.Width, r.Height)
	case r.Stride != 0 && r.Stride < r.Width*4:
		return fmt.Errorf("%w: stride %d < %d", ErrInvalid, r.Stride, r.Width*4)
	case r.Quality < 0 || r.Quality > 100:
		return fmt.Errorf("%w: quality %d not in 1-100", ErrInvalid, r.Quality)
	case r.Iterations < 1:
		return fmt.Errorf("%w: iterations %d < 1", ErrInvalid, r.Iterations)
	case r.Warmup < 0:
		return fmt.Errorf("%w: warmup %d < 0", ErrInvalid, r.Warmup)
	case len(r.Codecs) == 0:
		return fmt.Errorf("%w: no codecs", ErrInvalid)
	case r.SaveDecoded && r.OutDir == "":
		return fmt.Errorf("%w: save-decoded needs an output directory", ErrInvalid)
	}
	return nil
}
