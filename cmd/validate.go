package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/imgbench/internal/codec"
	"github.com/AnyUserName/imgbench/internal/hasher"
	"github.com/AnyUserName/imgbench/internal/report"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <report_path>",
		Short: "Validate a saved benchmark report and the outputs it references",
		Args:  cobra.ExactArgs(1),
		RunE:  runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	r, path, err := openReport(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	errs, warnings := validateReport(r, filepath.Dir(path))
	if len(warnings) > 0 {
		fmt.Fprintf(out, "  Warnings (%d):\n", len(warnings))
		for _, w := range warnings {
			fmt.Fprintf(out, "    ⚠ %s\n", w)
		}
	}
	if len(errs) == 0 {
		fmt.Fprintln(out, "  ✓ Report is valid")
		fmt.Fprintf(out, "  ✓ %d codecs, %d decode failures\n", r.Stats.Codecs, r.Stats.DecodeFailures)
		return nil
	}

	fmt.Fprintf(out, "  ✗ Report has %d error(s):\n", len(errs))
	for _, e := range errs {
		fmt.Fprintf(out, "    • %s\n", e)
	}
	return fmt.Errorf("validation failed with %d errors", len(errs))
}

// validateReport checks r for internal consistency. Artifact paths are
// resolved against baseDir, the report's directory. A round-trip mismatch
// of a codec that tolerates decode errors is only a warning.
func validateReport(r *report.Report, baseDir string) (errs, warnings []string) {
	registry := codec.NewRegistry()

	// Check version.
	if r.Version != report.SupportedVersion {
		errs = append(errs, fmt.Sprintf("unsupported report version: %d", r.Version))
	}

	if r.Input.Width <= 0 || r.Input.Height <= 0 {
		errs = append(errs, fmt.Sprintf("invalid input dimensions %dx%d", r.Input.Width, r.Input.Height))
	}
	if r.Iterations < 1 {
		errs = append(errs, fmt.Sprintf("invalid iterations %d", r.Iterations))
	}

	seen := map[string]bool{}
	for i, res := range r.Results {
		name := res.Codec
		if name == "" {
			name = fmt.Sprintf("result[%d]", i)
			errs = append(errs, fmt.Sprintf("%s: empty codec", name))
		}
		if seen[res.Codec] {
			errs = append(errs, fmt.Sprintf("%s: duplicate result", name))
		}
		seen[res.Codec] = true

		if res.Label == "" {
			errs = append(errs, fmt.Sprintf("%s: empty label", name))
		}
		if res.EncodedSize <= 0 {
			errs = append(errs, fmt.Sprintf("%s: invalid encoded size %d", name, res.EncodedSize))
		}
		errs = append(errs, validateTiming(name+" encode", res.Encode)...)
		if res.Decode != nil {
			errs = append(errs, validateTiming(name+" decode", *res.Decode)...)
		}

		switch res.RoundTrip {
		case report.RoundTripMatch, report.RoundTripSkipped:
		case report.RoundTripMismatch:
			msg := fmt.Sprintf("%s: round trip does not reproduce the source", name)
			if c := registry.Get(res.Codec); c != nil && codec.TolerateDecodeErrors(c) {
				warnings = append(warnings, msg)
			} else {
				errs = append(errs, msg)
			}
		default:
			errs = append(errs, fmt.Sprintf("%s: unknown round trip status %q", name, res.RoundTrip))
		}
		if res.RoundTrip == report.RoundTripMatch && !res.Lossless {
			errs = append(errs, fmt.Sprintf("%s: lossy codec reports an exact round trip", name))
		}

		if res.LZ4 != nil {
			if res.LZ4.Size <= 0 {
				errs = append(errs, fmt.Sprintf("%s: invalid lz4 size %d", name, res.LZ4.Size))
			}
			errs = append(errs, validateTiming(name+" lz4", res.LZ4.Time)...)
		}

		if res.Path == "" {
			continue
		}

		// Check the artifact on disk.
		fullPath := filepath.Join(baseDir, res.Path)
		f, err := os.Open(fullPath)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: file not found: %s", name, res.Path))
			continue
		}
		info, statErr := f.Stat()
		sum, hashErr := hasher.ContentHashReader(f, 16)
		f.Close()
		switch {
		case statErr != nil || hashErr != nil:
			errs = append(errs, fmt.Sprintf("%s: cannot read %s", name, res.Path))
		case info.Size() != int64(res.EncodedSize):
			errs = append(errs, fmt.Sprintf("%s: size mismatch: report=%d, disk=%d", name, res.EncodedSize, info.Size()))
		case res.Hash != "" && sum != res.Hash:
			errs = append(errs, fmt.Sprintf("%s: hash mismatch: report=%s, disk=%s", name, res.Hash, sum))
		}
	}

	// Verify stats consistency.
	recomputed := *r
	recomputed.Results = append([]report.Result(nil), r.Results...)
	recomputed.ComputeStats()
	if r.Stats != recomputed.Stats {
		errs = append(errs, fmt.Sprintf("stats mismatch: report=%+v, results=%+v", r.Stats, recomputed.Stats))
	}

	return errs, warnings
}

func validateTiming(what string, t report.Timing) []string {
	var errs []string
	if t.Iterations < 1 {
		errs = append(errs, fmt.Sprintf("%s: invalid iterations %d", what, t.Iterations))
	}
	if t.Min < 0 || t.Mean < 0 || t.Max < 0 {
		errs = append(errs, fmt.Sprintf("%s: negative timing", what))
	} else if t.Min > t.Mean || t.Mean > t.Max {
		errs = append(errs, fmt.Sprintf("%s: min %v, mean %v, max %v out of order", what, t.Min, t.Mean, t.Max))
	}
	return errs
}
