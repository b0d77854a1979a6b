// Package stopwatch measures single operations with one clock read before
// and one after, and aggregates repeated measurements.
package stopwatch

import "time"

// Time runs fn and returns how long it took. The duration is taken from the
// monotonic clock and is never negative.
func Time(fn func() error) (time.Duration, error) {
	start := time.Now()
	err := fn()
	return time.Since(start), err
}

// Millis truncates d to whole milliseconds.
func Millis(d time.Duration) int64 {
	return d.Milliseconds()
}

// Series collects the durations of repeated runs of one operation.
type Series struct {
	samples []time.Duration
	total   time.Duration
}

// Add records one sample. Negative samples are clamped to zero.
func (s *Series) Add(d time.Duration) {
	if d < 0 {
		d = 0
	}
	s.samples = append(s.samples, d)
	s.total += d
}

// Measure times fn and records the sample, even when fn fails.
func (s *Series) Measure(fn func() error) error {
	d, err := Time(fn)
	s.Add(d)
	return err
}

// Len returns the number of samples.
func (s *Series) Len() int { return len(s.samples) }

// Total returns the sum of all samples.
func (s *Series) Total() time.Duration { return s.total }

// Mean returns the average sample, or zero for an empty series.
func (s *Series) Mean() time.Duration {
	if len(s.samples) == 0 {
		return 0
	}
	return s.total / time.Duration(len(s.samples))
}

// Min returns the smallest sample, or zero for an empty series.
func (s *Series) Min() time.Duration {
	if len(s.samples) == 0 {
		return 0
	}
	m := s.samples[0]
	for _, d := range s.samples[1:] {
		if d < m {
			m = d
		}
	}
	return m
}

// Max returns the largest sample, or zero for an empty series.
func (s *Series) Max() time.Duration {
	var m time.Duration
	for _, d := range s.samples {
		if d > m {
			m = d
		}
	}
	return m
}
