package allan

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Target slopes of the two noise regimes in log10(sigma) vs log10(tau).
const (
	WhiteNoiseSlope = -0.5
	RandomWalkSlope = 0.5
)

// Defaults for the sliding-window region search.
const (
	DefaultSlopeTolerance = 0.1
	DefaultMinWindow      = 3
)

// Fit is an ordinary least-squares fit of log10(sigma) on log10(tau) over a
// contiguous run of curve points.
type Fit struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	// Residual is the sum of squared log10 residuals of the fit.
	Residual float64 `json:"residual"`
	TauMin   float64 `json:"tau_min"`
	TauMax   float64 `json:"tau_max"`
	// Start and End are inclusive indices into the curve the fit was made on.
	Start  int `json:"start"`
	End    int `json:"end"`
	Points int `json:"points"`
}

// FitRegion locates the contiguous curve region whose log-log slope best
// matches targetSlope. Every contiguous window of at least minWindow points
// is fitted by OLS; the window whose slope lands closest to the target wins,
// and is accepted only when |slope - target| <= slopeTol. Ties go to the
// lower residual, then to the wider window (more points, steadier fit).
//
// Points with sigma = 0 have no logarithm and are excluded up front; windows
// are contiguous in what remains. The second return is false when no window
// passes the tolerance; for a sensor with no detectable random-walk
// component that is the expected outcome, not a failure.
//
// Cost grows with the cube of the curve length, which is fine for the
// log-spaced curves this is meant for.
func FitRegion(c *Curve, targetSlope, slopeTol float64, minWindow int) (Fit, bool) {
	if slopeTol <= 0 {
		slopeTol = DefaultSlopeTolerance
	}
	if minWindow < 2 {
		minWindow = DefaultMinWindow
	}

	// Log-transform, dropping sigma = 0 points. idx maps back to the curve.
	n := len(c.Points)
	logTau := make([]float64, 0, n)
	logSig := make([]float64, 0, n)
	idx := make([]int, 0, n)
	for i, p := range c.Points {
		if p.Sigma <= 0 {
			continue
		}
		logTau = append(logTau, math.Log10(p.Tau))
		logSig = append(logSig, math.Log10(p.Sigma))
		idx = append(idx, i)
	}
	if len(idx) < minWindow {
		return Fit{}, false
	}

	var best Fit
	bestDist := math.Inf(1)
	found := false

	for start := 0; start+minWindow <= len(idx); start++ {
		for end := start + minWindow - 1; end < len(idx); end++ {
			xs := logTau[start : end+1]
			ys := logSig[start : end+1]

			alpha, beta := stat.LinearRegression(xs, ys, nil, false)
			dist := math.Abs(beta - targetSlope)
			if dist > slopeTol {
				continue
			}

			var resid float64
			for i, x := range xs {
				r := ys[i] - (alpha + beta*x)
				resid += r * r
			}

			cand := Fit{
				Slope:     beta,
				Intercept: alpha,
				Residual:  resid,
				TauMin:    c.Points[idx[start]].Tau,
				TauMax:    c.Points[idx[end]].Tau,
				Start:     idx[start],
				End:       idx[end],
				Points:    end - start + 1,
			}
			if !found || better(cand, dist, best, bestDist) {
				best = cand
				bestDist = dist
				found = true
			}
		}
	}

	return best, found
}

// better orders candidate windows: closest slope first, then lowest
// residual, then widest window.
func better(cand Fit, candDist float64, best Fit, bestDist float64) bool {
	if candDist != bestDist {
		return candDist < bestDist
	}
	if cand.Residual != best.Residual {
		return cand.Residual < best.Residual
	}
	return cand.Points > best.Points
}
