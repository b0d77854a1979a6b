package report

import "time"

// Report is the top-level output of an imgbench run.
type Report struct {
	Version     int       `json:"version"`
	GeneratedAt string    `json:"generated_at"`
	Profile     string    `json:"profile"`
	Input       InputInfo `json:"input"`
	Host        HostInfo  `json:"host"`
	Iterations  int       `json:"iterations"`
	Warmup      int       `json:"warmup"`
	Results     []Result  `json:"results"`
	Stats       Stats     `json:"stats"`
}

// InputInfo describes the benchmarked pixel buffer.
type InputInfo struct {
	Path     string `json:"path"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Stride   int    `json:"stride"`
	Size     int64  `json:"size"`     // bytes held by the buffer
	Checksum string `json:"checksum"` // xxhash64 of the NRGBA pixels
}

// HostInfo captures where the numbers were taken.
type HostInfo struct {
	GOOS      string `json:"goos"`
	GOARCH    string `json:"goarch"`
	GoVersion string `json:"go_version"`
	NumCPU    int    `json:"num_cpu"`
}

// RoundTrip is the outcome of comparing decoded pixels with the source.
type RoundTrip string

const (
	RoundTripMatch    RoundTrip = "match"
	RoundTripMismatch RoundTrip = "mismatch"
	RoundTripSkipped  RoundTrip = "skipped"
)

// Result is one codec's measurements.
type Result struct {
	Codec       string    `json:"codec"`
	Label       string    `json:"label"`
	Lossless    bool      `json:"lossless"`
	EncodedSize int       `json:"encoded_size"`
	Ratio       float64   `json:"ratio"` // encoded / raw
	Encode      Timing    `json:"encode"`
	Decode      *Timing   `json:"decode,omitempty"`
	DecodeError string    `json:"decode_error,omitempty"`
	RoundTrip   RoundTrip `json:"round_trip"`
	AllocBytes  uint64    `json:"alloc_bytes"` // per encode
	Hash        string    `json:"hash"`        // first 16 hex chars of xxhash64
	Path        string    `json:"path,omitempty"`
	LZ4         *Post     `json:"lz4,omitempty"`
}

// Post describes a second compression pass over a codec's output.
type Post struct {
	Size  int     `json:"size"`
	Ratio float64 `json:"ratio"` // compressed / raw source
	Time  Timing  `json:"time"`
}

// Timing summarises repeated runs of one operation. Durations marshal as
// nanoseconds.
type Timing struct {
	Iterations int           `json:"iterations"`
	Min        time.Duration `json:"min_ns"`
	Max        time.Duration `json:"max_ns"`
	Mean       time.Duration `json:"mean_ns"`
}

// Stats aggregates run metrics.
type Stats struct {
	Codecs          int    `json:"codecs"`
	DecodeFailures  int    `json:"decode_failures"`
	Mismatches      int    `json:"mismatches"`
	TotalOutputSize int64  `json:"total_output_size"`
	Smallest        string `json:"smallest,omitempty"`
	FastestEncode   string `json:"fastest_encode,omitempty"`
}

// SupportedVersion is the current schema version.
const SupportedVersion = 1
