package allan

import "github.com/relabs-tech/tof_characterizer/internal/timeseries"

// Options configures one characterization run. The zero value selects the
// defaults: DefaultClusterSizes spacing, tolerance 0.1, window 3, target
// slopes ∓0.5.
type Options struct {
	// ClusterSizes is the m sequence; nil selects DefaultClusterSizes(N).
	ClusterSizes   []int
	SlopeTolerance float64
	MinWindow      int
	// WhiteSlope and RandomWalkSlope override the ∓0.5 targets for
	// non-standard noise models. Zero means default.
	WhiteSlope      float64
	RandomWalkSlope float64
	// Workers bounds the per-m worker pool; <=0 selects GOMAXPROCS.
	Workers int
}

// Result bundles everything one pipeline run produced, so a report or plot
// can trace the estimate back to the exact curve and fits behind it.
type Result struct {
	Curve           *Curve
	WhiteFit        Fit
	WhiteFound      bool
	RandomWalkFit   Fit
	RandomWalkFound bool
	Estimate        NoiseEstimate
}

// Characterize runs the full pipeline: Allan curve, one region fit per
// regime, parameter back-transform. A missing region flows through as an
// unidentified parameter; only a series too short for the cluster sizes (or
// an invalid cluster sequence) is an error.
func Characterize(s *timeseries.Series, opts Options) (*Result, error) {
	mValues := opts.ClusterSizes
	if mValues == nil {
		mValues = DefaultClusterSizes(s.Len())
	}

	curve, err := ComputeWorkers(s, mValues, opts.Workers)
	if err != nil {
		return nil, err
	}

	whiteTarget := opts.WhiteSlope
	if whiteTarget == 0 {
		whiteTarget = WhiteNoiseSlope
	}
	rwTarget := opts.RandomWalkSlope
	if rwTarget == 0 {
		rwTarget = RandomWalkSlope
	}

	res := &Result{Curve: curve}
	res.WhiteFit, res.WhiteFound = FitRegion(curve, whiteTarget, opts.SlopeTolerance, opts.MinWindow)
	res.RandomWalkFit, res.RandomWalkFound = FitRegion(curve, rwTarget, opts.SlopeTolerance, opts.MinWindow)
	res.Estimate = Estimate(res.WhiteFit, res.WhiteFound, res.RandomWalkFit, res.RandomWalkFound, s.Ts())
	return res, nil
}
