package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/imgbench/internal/report"
)

// defaultReportName is looked up when stats or validate get a directory.
const defaultReportName = "imgbench.report.json"

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <report_or_dir>",
		Short: "Display a saved benchmark report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, _, err := openReport(args[0])
			if err != nil {
				return err
			}
			printStats(cmd.OutOrStdout(), r)
			return nil
		},
	}
}

// openReport reads a report from a file, or from defaultReportName inside a
// directory. It also returns the resolved path.
func openReport(path string) (*report.Report, string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, "", fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		path = filepath.Join(path, defaultReportName)
	}
	r, err := report.ReadJSON(path)
	if err != nil {
		return nil, "", err
	}
	return r, path, nil
}

func printStats(w io.Writer, r *report.Report) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Report version:   %d\n", r.Version)
	fmt.Fprintf(w, "  Generated:        %s\n", r.GeneratedAt)
	fmt.Fprintf(w, "  Profile:          %s\n", r.Profile)
	fmt.Fprintf(w, "  Host:             %s/%s, %s, %d CPUs\n",
		r.Host.GOOS, r.Host.GOARCH, r.Host.GoVersion, r.Host.NumCPU)
	fmt.Fprintf(w, "  Input:            %s (%dx%d, stride %d, %s)\n",
		r.Input.Path, r.Input.Width, r.Input.Height, r.Input.Stride, formatBytes(r.Input.Size))
	fmt.Fprintf(w, "  Rounds:           %d timed, %d warmup\n", r.Iterations, r.Warmup)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  %-10s %10s %7s %10s %10s %10s  %s\n",
		"CODEC", "SIZE", "RATIO", "ENCODE", "DECODE", "ALLOC", "ROUND TRIP")
	for _, res := range r.Results {
		decode := "-"
		if res.Decode != nil {
			decode = formatDuration(res.Decode.Mean)
		}
		if res.DecodeError != "" {
			decode = "failed"
		}
		fmt.Fprintf(w, "  %-10s %10s %6.1f%% %10s %10s %10s  %s\n",
			res.Codec,
			formatBytes(int64(res.EncodedSize)),
			res.Ratio*100,
			formatDuration(res.Encode.Mean),
			decode,
			formatBytes(int64(res.AllocBytes)),
			res.RoundTrip,
		)
	}
	fmt.Fprintln(w)

	// LZ4 post-compression, when the run asked for it.
	first := true
	for _, res := range r.Results {
		if res.LZ4 == nil {
			continue
		}
		if first {
			fmt.Fprintf(w, "  %-10s %10s %7s %10s\n", "LZ4", "SIZE", "RATIO", "TIME")
			first = false
		}
		fmt.Fprintf(w, "  %-10s %10s %6.1f%% %10s\n",
			res.Codec,
			formatBytes(int64(res.LZ4.Size)),
			res.LZ4.Ratio*100,
			formatDuration(res.LZ4.Time.Mean),
		)
	}
	if !first {
		fmt.Fprintln(w)
	}

	s := r.Stats
	fmt.Fprintf(w, "  Codecs:           %d\n", s.Codecs)
	fmt.Fprintf(w, "  Total output:     %s\n", formatBytes(s.TotalOutputSize))
	if s.Smallest != "" {
		fmt.Fprintf(w, "  Smallest output:  %s\n", s.Smallest)
		fmt.Fprintf(w, "  Fastest encode:   %s\n", s.FastestEncode)
	}

	// Warnings.
	var warnings []string
	for _, res := range r.Results {
		if res.DecodeError != "" {
			warnings = append(warnings, fmt.Sprintf("%s decode failed: %s", res.Codec, res.DecodeError))
		}
		if res.RoundTrip == report.RoundTripMismatch {
			warnings = append(warnings, fmt.Sprintf("%s round trip does not match the source", res.Codec))
		}
	}
	if len(warnings) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  Warnings (%d):\n", len(warnings))
		for _, msg := range warnings {
			fmt.Fprintf(w, "    ⚠ %s\n", msg)
		}
	}
	fmt.Fprintln(w)
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return d.Round(time.Microsecond).String()
	}
	return d.Round(10 * time.Microsecond).String()
}
