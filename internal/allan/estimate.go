package allan

import "math"

// NoiseEstimate is the terminal result of one characterization run.
// R is the white measurement-noise variance in mm², q the bias random-walk
// intensity in mm²/s. A parameter is only meaningful when its Identified
// flag is set; an unidentified parameter means the matching slope region was
// not found, which is a legitimate outcome, not an error. Identified values
// are always finite and non-negative; NaN never leaks out of here.
type NoiseEstimate struct {
	R           float64 `json:"r"`
	RIdentified bool    `json:"r_identified"`
	Q           float64 `json:"q"`
	QIdentified bool    `json:"q_identified"`
}

// Estimate back-transforms the two regression intercepts into noise
// parameters. On the white-noise asymptote sigma(tau) = sqrt(R*Ts)/sqrt(tau),
// so R = (10^intercept)²/Ts. On the random-walk asymptote
// sigma(tau) = sqrt(q/3)*sqrt(tau), so q = 3*(10^intercept)².
func Estimate(white Fit, whiteOK bool, rw Fit, rwOK bool, ts float64) NoiseEstimate {
	var est NoiseEstimate

	if whiteOK && ts > 0 {
		r := math.Pow(10, 2*white.Intercept) / ts
		if !math.IsNaN(r) && !math.IsInf(r, 0) {
			est.R = r
			est.RIdentified = true
		}
	}

	if rwOK {
		q := 3 * math.Pow(10, 2*rw.Intercept)
		if !math.IsNaN(q) && !math.IsInf(q, 0) {
			est.Q = q
			est.QIdentified = true
		}
	}

	return est
}
