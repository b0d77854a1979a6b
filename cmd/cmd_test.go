package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnyUserName/imgbench/internal/pixbuf"
	"github.com/AnyUserName/imgbench/internal/report"
)

// execute runs the CLI with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := newRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func genFrame(t *testing.T, pattern string, w, h int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), pattern+".bgra")
	require.NoError(t, runGen(path, pattern, w, h, 1))
	return path
}

func outputLines(stdout string) []string {
	return strings.Split(strings.TrimSpace(stdout), "\n")
}

func TestRunDefaultProfile(t *testing.T) {
	input := genFrame(t, "gradient", 64, 36)
	reportPath := filepath.Join(t.TempDir(), "reports", defaultReportName)

	stdout, _, err := execute(t, "run", input, "-W", "64", "-H", "36", "--report", reportPath)
	require.NoError(t, err)

	lines := outputLines(stdout)
	require.Len(t, lines, 6, stdout)
	assert.True(t, strings.HasPrefix(lines[0], "test_jpeg encode time: "))
	assert.True(t, strings.HasPrefix(lines[1], "test_rapid_qoi encode time: "))
	assert.True(t, strings.HasPrefix(lines[2], "test_rapid_qoi decode time: "))
	assert.True(t, strings.HasPrefix(lines[3], "test_qoi encode time: "))
	assert.True(t, strings.HasPrefix(lines[4], "test_qoi decode time: "))
	assert.Equal(t, "Hello, world!", lines[5])

	rep, err := report.ReadJSON(reportPath)
	require.NoError(t, err)
	assert.Equal(t, "default", rep.Profile)
	assert.Equal(t, 64, rep.Input.Width)
	assert.Len(t, rep.Results, 3)

	stdout, _, err = execute(t, "stats", filepath.Dir(reportPath))
	require.NoError(t, err)
	assert.Contains(t, stdout, "rapid-qoi")
	assert.Contains(t, stdout, "Profile:          default")

	stdout, _, err = execute(t, "validate", reportPath)
	require.NoError(t, err, stdout)
	assert.Contains(t, stdout, "Report is valid")
}

func TestRunDefaultInputInWorkingDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, runGen(filepath.Join(dir, "1920.bgra"), "zero", 1920, 1080, 1))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer func() { _ = os.Chdir(wd) }()

	stdout, _, err := execute(t, "run")
	require.NoError(t, err)
	lines := outputLines(stdout)
	require.Len(t, lines, 6, stdout)
	assert.Equal(t, "Hello, world!", lines[5])
}

func TestRunMissingInput(t *testing.T) {
	stdout, _, err := execute(t, "run", filepath.Join(t.TempDir(), "missing.bgra"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Empty(t, stdout, "no benchmark line before the load error")
}

func TestRunShortInput(t *testing.T) {
	input := genFrame(t, "zero", 10, 10)
	stdout, _, err := execute(t, "run", input, "-W", "20", "-H", "20")
	assert.ErrorIs(t, err, pixbuf.ErrShortBuffer)
	assert.Empty(t, stdout)
}

func TestRunUnknownCodec(t *testing.T) {
	input := genFrame(t, "zero", 8, 8)
	_, _, err := execute(t, "run", input, "-W", "8", "-H", "8", "--codecs", "rapid-qoi,avif")
	assert.ErrorContains(t, err, "unknown codec")
}

func TestRunInputTwice(t *testing.T) {
	_, _, err := execute(t, "run", "a.bgra", "--input", "b.bgra")
	assert.ErrorContains(t, err, "input given twice")
}

func TestRunConfigFile(t *testing.T) {
	input := genFrame(t, "bars", 32, 16)
	cfgPath := filepath.Join(t.TempDir(), "imgbench.yaml")
	cfg := "input: " + input + "\nwidth: 32\nheight: 16\ncodecs: [rapid-qoi, zstd]\niterations: 2\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	stdout, _, err := execute(t, "run", "-c", cfgPath)
	require.NoError(t, err)
	lines := outputLines(stdout)
	require.Len(t, lines, 5, stdout)
	assert.True(t, strings.HasPrefix(lines[0], "test_rapid_qoi encode time: "))
	assert.True(t, strings.HasPrefix(lines[2], "test_zstd encode time: "))

	// Flags win over the file.
	stdout, _, err = execute(t, "run", "-c", cfgPath, "--codecs", "qoi")
	require.NoError(t, err)
	assert.Len(t, outputLines(stdout), 3)
}

func TestRunArtifactsAndValidate(t *testing.T) {
	input := genFrame(t, "noise", 24, 24)
	outDir := filepath.Join(t.TempDir(), "out")
	reportPath := filepath.Join(outDir, defaultReportName)

	_, _, err := execute(t, "run", input, "-W", "24", "-H", "24",
		"--codecs", "rapid-qoi,zstd,jpeg-go", "--out", outDir, "--save-decoded",
		"--report", reportPath, "-n", "2", "--warmup", "1", "-v")
	require.NoError(t, err)

	rep, err := report.ReadJSON(reportPath)
	require.NoError(t, err)
	require.Len(t, rep.Results, 3)
	for _, res := range rep.Results {
		assert.FileExists(t, filepath.Join(outDir, res.Path))
		assert.Equal(t, 2, res.Encode.Iterations)
	}

	_, _, err = execute(t, "validate", outDir)
	require.NoError(t, err)

	// Tamper with one artifact.
	require.NoError(t, os.WriteFile(filepath.Join(outDir, rep.Results[0].Path), []byte("x"), 0o644))
	stdout, _, err := execute(t, "validate", reportPath)
	require.Error(t, err)
	assert.Contains(t, stdout, "size mismatch")
}

func TestRunPostLZ4(t *testing.T) {
	input := genFrame(t, "bars", 32, 16)
	reportPath := filepath.Join(t.TempDir(), defaultReportName)

	stdout, _, err := execute(t, "run", input, "-W", "32", "-H", "16",
		"--codecs", "png,lz4", "--lz4", "--report", reportPath)
	require.NoError(t, err)
	lines := outputLines(stdout)
	require.Len(t, lines, 7, stdout)
	assert.True(t, strings.HasPrefix(lines[1], "test_png lz4 time: "))
	assert.True(t, strings.HasPrefix(lines[3], "test_lz4 encode time: "))
	assert.True(t, strings.HasPrefix(lines[4], "test_lz4 lz4 time: "))

	rep, err := report.ReadJSON(reportPath)
	require.NoError(t, err)
	for _, res := range rep.Results {
		require.NotNil(t, res.LZ4, res.Codec)
		assert.Equal(t, report.RoundTripMatch, res.RoundTrip, res.Codec)
	}

	stdout, _, err = execute(t, "stats", reportPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "LZ4")

	_, _, err = execute(t, "validate", reportPath)
	require.NoError(t, err)
}

func TestRunVerboseLogsToStderr(t *testing.T) {
	input := genFrame(t, "zero", 8, 8)
	stdout, stderr, err := execute(t, "run", input, "-W", "8", "-H", "8", "--codecs", "rapid-qoi", "-v")
	require.NoError(t, err)
	assert.Contains(t, stderr, "[imgbench] codecs: ")
	assert.NotContains(t, stdout, "[imgbench]")
}

func TestRunUnknownProfileWarns(t *testing.T) {
	input := genFrame(t, "zero", 8, 8)
	stdout, stderr, err := execute(t, "run", input, "-W", "8", "-H", "8", "-p", "nightly")
	require.NoError(t, err)
	assert.Contains(t, stderr, `unknown profile "nightly"`)
	assert.Len(t, outputLines(stdout), 6)
}

func TestGenPatterns(t *testing.T) {
	dir := t.TempDir()
	for name := range patterns {
		path := filepath.Join(dir, name+".bgra")
		_, _, err := execute(t, "gen", path, "--pattern", name, "-W", "20", "-H", "10")
		require.NoError(t, err, name)
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, int64(20*10*4), info.Size(), name)
	}

	png := filepath.Join(dir, "bars.png")
	_, _, err := execute(t, "gen", png, "--pattern", "bars", "-W", "16", "-H", "8")
	require.NoError(t, err)
	buf, err := pixbuf.Open(png, 0, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 16, buf.Width)
	assert.Equal(t, 8, buf.Height)

	_, _, err = execute(t, "gen", filepath.Join(dir, "x.bgra"), "--pattern", "plaid")
	assert.ErrorContains(t, err, "unknown pattern")
}

func TestCodecsCommand(t *testing.T) {
	stdout, _, err := execute(t, "codecs")
	require.NoError(t, err)
	for _, name := range []string{"jpeg", "jpeg-go", "rapid-qoi", "qoi", "png", "zstd", "lz4", "webp"} {
		assert.Contains(t, stdout, name)
	}
	assert.Contains(t, stdout, "github.com/xfmoulet/qoi")
	assert.Contains(t, stdout, "soak")
}

func TestValidateReportErrors(t *testing.T) {
	r := report.New("default")
	r.Input.Width, r.Input.Height = 4, 4
	r.Iterations = 1
	r.Add(report.Result{
		Codec: "rapid-qoi", Label: "test_rapid_qoi", Lossless: true, EncodedSize: 10,
		Encode:    report.Timing{Iterations: 1, Min: 5, Mean: 3, Max: 9},
		RoundTrip: report.RoundTripMismatch,
	})
	r.Add(report.Result{
		Codec: "jpeg", Label: "", EncodedSize: 0,
		Encode:    report.Timing{Iterations: 1},
		RoundTrip: report.RoundTripMatch,
		Path:      "missing.jpg",
		LZ4:       &report.Post{Time: report.Timing{Iterations: 1}},
	})
	r.ComputeStats()
	r.Stats.Codecs = 7

	errList, warnings := validateReport(r, t.TempDir())
	errs := strings.Join(errList, "\n")
	assert.Contains(t, errs, "rapid-qoi encode: min")
	assert.Contains(t, errs, "rapid-qoi: round trip does not reproduce the source")
	assert.Contains(t, errs, "jpeg: empty label")
	assert.Contains(t, errs, "jpeg: invalid encoded size 0")
	assert.Contains(t, errs, "jpeg: lossy codec reports an exact round trip")
	assert.Contains(t, errs, "jpeg: invalid lz4 size 0")
	assert.Contains(t, errs, "jpeg: file not found")
	assert.Contains(t, errs, "stats mismatch")
	assert.Empty(t, warnings)
}

func TestValidateToleratedMismatchWarns(t *testing.T) {
	r := report.New("default")
	r.Input.Width, r.Input.Height = 4, 4
	r.Iterations = 1
	r.Add(report.Result{
		Codec: "qoi", Label: "test_qoi", Lossless: true, EncodedSize: 10,
		Encode:    report.Timing{Iterations: 1, Min: 1, Mean: 2, Max: 3},
		RoundTrip: report.RoundTripMismatch,
	})
	r.ComputeStats()

	errs, warnings := validateReport(r, t.TempDir())
	assert.Empty(t, errs)
	assert.Equal(t, []string{"qoi: round trip does not reproduce the source"}, warnings)

	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, report.WriteJSON(r, path))
	stdout, _, err := execute(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "⚠ qoi: round trip does not reproduce the source")
	assert.Contains(t, stdout, "Report is valid")
}
