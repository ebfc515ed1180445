package timeseries

import (
	"math"
	"testing"
)

func TestNew_CopiesInput(t *testing.T) {
	in := []float64{1, 2, 3, 4}
	s, err := New(in, 0.02)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	in[0] = 99
	if s.At(0) != 1 {
		t.Error("series must not alias the caller's slice")
	}
}

func TestNew_Validation(t *testing.T) {
	cases := []struct {
		name    string
		samples []float64
		ts      float64
	}{
		{"too short", []float64{1}, 0.02},
		{"zero ts", []float64{1, 2}, 0},
		{"negative ts", []float64{1, 2}, -0.5},
		{"nan ts", []float64{1, 2}, math.NaN()},
		{"nan sample", []float64{1, math.NaN()}, 0.02},
		{"inf sample", []float64{1, math.Inf(1)}, 0.02},
	}
	for _, tc := range cases {
		if _, err := New(tc.samples, tc.ts); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

func TestAccessors(t *testing.T) {
	s, err := New([]float64{2, 4, 6, 8}, 0.25)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if s.Len() != 4 {
		t.Errorf("Len: got %d, want 4", s.Len())
	}
	if s.Ts() != 0.25 {
		t.Errorf("Ts: got %g, want 0.25", s.Ts())
	}
	if s.SampleRate() != 4 {
		t.Errorf("SampleRate: got %g, want 4", s.SampleRate())
	}
	if s.Duration() != 1 {
		t.Errorf("Duration: got %g, want 1", s.Duration())
	}
	if s.Mean() != 5 {
		t.Errorf("Mean: got %g, want 5", s.Mean())
	}
}
