package allan

import (
	"math"
	"reflect"
	"testing"
)

func TestSimulate_DeterministicPerSeed(t *testing.T) {
	a, err := Simulate(1200, 4.0, 0.1, 0.02, 1000, 42)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	b, err := Simulate(1200, 4.0, 0.1, 0.02, 1000, 42)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if !reflect.DeepEqual(a.Samples(), b.Samples()) {
		t.Error("same seed must reproduce the same series")
	}

	c, err := Simulate(1200, 4.0, 0.1, 0.02, 1000, 43)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if reflect.DeepEqual(a.Samples(), c.Samples()) {
		t.Error("different seeds produced identical series")
	}
}

func TestSimulate_PureWhiteNoiseMoments(t *testing.T) {
	const (
		p = 1200.0
		r = 4.0
		n = 50000
	)
	s, err := Simulate(p, r, 0, 0.02, n, 42)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}

	mean := s.Mean()
	if math.Abs(mean-p) > 0.05 {
		t.Errorf("mean: got %g, want %g +- 0.05", mean, p)
	}

	var ss float64
	for _, v := range s.Samples() {
		d := v - mean
		ss += d * d
	}
	variance := ss / float64(n-1)
	if math.Abs(variance-r)/r > 0.05 {
		t.Errorf("variance: got %g, want within 5%% of %g", variance, r)
	}
}

func TestSimulate_PureRandomWalkStartsAtTruth(t *testing.T) {
	const p = 800.0
	s, err := Simulate(p, 0, 2.0, 0.02, 1000, 9)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	// b_0 = 0 and there is no white noise, so the first sample is exact.
	if s.At(0) != p {
		t.Errorf("first sample: got %g, want %g", s.At(0), p)
	}
	// The walk must actually move.
	moved := false
	for _, v := range s.Samples() {
		if v != p {
			moved = true
			break
		}
	}
	if !moved {
		t.Error("random walk never moved")
	}
}

func TestSimulate_NoiselessSeriesIsConstant(t *testing.T) {
	s, err := Simulate(500, 0, 0, 0.02, 100, 1)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	for i, v := range s.Samples() {
		if v != 500 {
			t.Fatalf("sample %d: got %g, want 500", i, v)
		}
	}
}

func TestSimulate_RejectsBadInputs(t *testing.T) {
	cases := []struct {
		name    string
		r, q    float64
		ts      float64
		n       int
	}{
		{"short", 1, 0, 0.02, 1},
		{"zero ts", 1, 0, 0, 100},
		{"negative R", -1, 0, 0.02, 100},
		{"negative q", 0, -1, 0.02, 100},
	}
	for _, tc := range cases {
		if _, err := Simulate(0, tc.r, tc.q, tc.ts, tc.n, 1); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}
