package report

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"time"
)

// New creates an empty report for the named profile on this host.
func New(profileName string) *Report {
	return &Report{
		Version:     SupportedVersion,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Profile:     profileName,
		Host: HostInfo{
			GOOS:      runtime.GOOS,
			GOARCH:    runtime.GOARCH,
			GoVersion: runtime.Version(),
			NumCPU:    runtime.NumCPU(),
		},
		Results: []Result{},
	}
}

// Add appends a result.
func (r *Report) Add(res Result) {
	r.Results = append(r.Results, res)
}

// ComputeStats recalculates aggregate statistics from results.
func (r *Report) ComputeStats() {
	var s Stats
	s.Codecs = len(r.Results)
	var smallest, fastest *Result
	for i := range r.Results {
		res := &r.Results[i]
		s.TotalOutputSize += int64(res.EncodedSize)
		if res.DecodeError != "" {
			s.DecodeFailures++
		}
		if res.RoundTrip == RoundTripMismatch {
			s.Mismatches++
		}
		if smallest == nil || res.EncodedSize < smallest.EncodedSize {
			smallest = res
		}
		if fastest == nil || res.Encode.Mean < fastest.Encode.Mean {
			fastest = res
		}
	}
	if smallest != nil {
		s.Smallest = smallest.Codec
		s.FastestEncode = fastest.Codec
	}
	r.Stats = s
}

// WriteJSON serializes the report to a JSON file with stable ordering.
func WriteJSON(r *Report, path string) error {
	r.ComputeStats()

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

// ReadJSON loads a report written by WriteJSON. Unknown fields are ignored.
func ReadJSON(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse report: %w", err)
	}
	return &r, nil
}
