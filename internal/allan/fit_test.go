package allan

import (
	"math"
	"testing"
)

// powerLawCurve builds a noise-free curve sigma(tau) = a * tau^slope over
// dyadic tau values starting at ts.
func powerLawCurve(a, slope, ts float64, n int) *Curve {
	c := &Curve{Ts: ts}
	for i := 0; i < n; i++ {
		m := 1 << i
		tau := float64(m) * ts
		c.Points = append(c.Points, Point{
			Tau:    tau,
			Sigma:  a * math.Pow(tau, slope),
			M:      m,
			Blocks: 2,
		})
	}
	return c
}

func TestFitRegion_ExactWhiteNoiseSlope(t *testing.T) {
	a := 0.3
	c := powerLawCurve(a, -0.5, 0.02, 12)

	fit, ok := FitRegion(c, WhiteNoiseSlope, DefaultSlopeTolerance, DefaultMinWindow)
	if !ok {
		t.Fatal("expected a white-noise region on an exact -1/2 power law")
	}
	if !almostEqual(fit.Slope, -0.5, 1e-9) {
		t.Errorf("slope: got %g, want -0.5", fit.Slope)
	}
	if !almostEqual(fit.Intercept, math.Log10(a), 1e-9) {
		t.Errorf("intercept: got %g, want %g", fit.Intercept, math.Log10(a))
	}
	if fit.Points < DefaultMinWindow {
		t.Errorf("window width: got %d, want >= %d", fit.Points, DefaultMinWindow)
	}
	if fit.TauMin >= fit.TauMax {
		t.Errorf("tau range inverted: [%g, %g]", fit.TauMin, fit.TauMax)
	}
}

func TestFitRegion_ExactRandomWalkSlope(t *testing.T) {
	a := 0.05
	c := powerLawCurve(a, 0.5, 0.02, 12)

	fit, ok := FitRegion(c, RandomWalkSlope, DefaultSlopeTolerance, DefaultMinWindow)
	if !ok {
		t.Fatal("expected a random-walk region on an exact +1/2 power law")
	}
	if !almostEqual(fit.Slope, 0.5, 1e-9) {
		t.Errorf("slope: got %g, want 0.5", fit.Slope)
	}
	if !almostEqual(fit.Intercept, math.Log10(a), 1e-9) {
		t.Errorf("intercept: got %g, want %g", fit.Intercept, math.Log10(a))
	}
}

func TestFitRegion_RejectsOutOfToleranceSlope(t *testing.T) {
	// A flat curve has slope 0 everywhere; neither target matches.
	c := powerLawCurve(1.0, 0, 0.02, 12)

	if _, ok := FitRegion(c, WhiteNoiseSlope, DefaultSlopeTolerance, DefaultMinWindow); ok {
		t.Error("white-noise region found on a flat curve")
	}
	if _, ok := FitRegion(c, RandomWalkSlope, DefaultSlopeTolerance, DefaultMinWindow); ok {
		t.Error("random-walk region found on a flat curve")
	}
}

func TestFitRegion_ExcludesZeroSigmaPoints(t *testing.T) {
	// Only two usable points remain after dropping sigma = 0, below the
	// minimum window.
	c := &Curve{Ts: 0.02, Points: []Point{
		{Tau: 0.02, Sigma: 1.0, M: 1, Blocks: 100},
		{Tau: 0.04, Sigma: 0, M: 2, Blocks: 50},
		{Tau: 0.08, Sigma: 0.5, M: 4, Blocks: 25},
		{Tau: 0.16, Sigma: 0, M: 8, Blocks: 12},
	}}

	if _, ok := FitRegion(c, WhiteNoiseSlope, DefaultSlopeTolerance, DefaultMinWindow); ok {
		t.Error("region found with fewer than minWindow non-zero points")
	}
}

func TestFitRegion_AllZeroSigma(t *testing.T) {
	c := &Curve{Ts: 0.02, Points: []Point{
		{Tau: 0.02, Sigma: 0, M: 1, Blocks: 100},
		{Tau: 0.04, Sigma: 0, M: 2, Blocks: 50},
		{Tau: 0.08, Sigma: 0, M: 4, Blocks: 25},
	}}
	if _, ok := FitRegion(c, WhiteNoiseSlope, DefaultSlopeTolerance, DefaultMinWindow); ok {
		t.Error("region found on an all-zero curve")
	}
}

func TestFitRegion_TwoRegimeCurve(t *testing.T) {
	// Analytic mixed curve: sigma² = R*Ts/tau + q*tau/3. Small tau is white
	// dominated, large tau random-walk dominated.
	const (
		r  = 4.0
		q  = 0.01
		ts = 0.02
	)
	c := &Curve{Ts: ts}
	for i := 0; i <= 24; i++ {
		m := 1 << i
		tau := float64(m) * ts
		sigma := math.Sqrt(r*ts/tau + q*tau/3)
		c.Points = append(c.Points, Point{Tau: tau, Sigma: sigma, M: m, Blocks: 2})
	}

	white, ok := FitRegion(c, WhiteNoiseSlope, DefaultSlopeTolerance, DefaultMinWindow)
	if !ok {
		t.Fatal("white-noise region not found on mixed curve")
	}
	rw, ok := FitRegion(c, RandomWalkSlope, DefaultSlopeTolerance, DefaultMinWindow)
	if !ok {
		t.Fatal("random-walk region not found on mixed curve")
	}
	if white.TauMax >= rw.TauMin {
		t.Errorf("regimes overlap: white up to %g, random walk from %g", white.TauMax, rw.TauMin)
	}

	est := Estimate(white, true, rw, true, ts)
	if !est.RIdentified || !est.QIdentified {
		t.Fatalf("both parameters should be identified, got %+v", est)
	}
	if math.Abs(est.R-r)/r > 0.05 {
		t.Errorf("R: got %g, want within 5%% of %g", est.R, r)
	}
	if math.Abs(est.Q-q)/q > 0.05 {
		t.Errorf("q: got %g, want within 5%% of %g", est.Q, q)
	}
}
