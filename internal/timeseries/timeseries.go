package timeseries

import (
	"fmt"
	"math"
)

// Series is an immutable, uniformly sampled sequence of distance readings
// in millimeters. The sampling period Ts is in seconds; sample k was taken
// at time k*Ts. Construct with New, which copies and validates the input.
type Series struct {
	samples []float64
	ts      float64
}

// New builds a Series from raw samples and a sampling period.
// The input slice is copied, so the caller may reuse it afterwards.
func New(samples []float64, ts float64) (*Series, error) {
	if len(samples) < 2 {
		return nil, fmt.Errorf("timeseries: need at least 2 samples, got %d", len(samples))
	}
	if ts <= 0 || math.IsInf(ts, 0) || math.IsNaN(ts) {
		return nil, fmt.Errorf("timeseries: sampling period must be a positive finite number, got %v", ts)
	}
	for i, v := range samples {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("timeseries: sample %d is not finite (%v)", i, v)
		}
	}
	cp := make([]float64, len(samples))
	copy(cp, samples)
	return &Series{samples: cp, ts: ts}, nil
}

// Len returns the number of samples N.
func (s *Series) Len() int { return len(s.samples) }

// Ts returns the sampling period in seconds.
func (s *Series) Ts() float64 { return s.ts }

// SampleRate returns 1/Ts in Hz.
func (s *Series) SampleRate() float64 { return 1 / s.ts }

// Duration returns the recording length N*Ts in seconds.
func (s *Series) Duration() float64 { return float64(len(s.samples)) * s.ts }

// At returns sample k.
func (s *Series) At(k int) float64 { return s.samples[k] }

// Samples returns the backing sample slice. Callers must treat it as
// read-only; mutating it breaks the immutability every consumer relies on.
func (s *Series) Samples() []float64 { return s.samples }

// Mean returns the arithmetic mean of the samples.
func (s *Series) Mean() float64 {
	var sum float64
	for _, v := range s.samples {
		sum += v
	}
	return sum / float64(len(s.samples))
}
