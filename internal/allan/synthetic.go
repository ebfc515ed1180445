package allan

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/relabs-tech/tof_characterizer/internal/timeseries"
)

// Simulate produces a synthetic static-sensor recording following the
// one-state measurement model
//
//	b_0 = 0, b_{k+1} = b_k + w_k,  w_k ~ N(0, q*Ts)
//	d_k = p + b_k + v_k,           v_k ~ N(0, r)
//
// where p is the true distance. r = 0 turns the white noise off, q = 0 the
// random walk. The draw sequence is fixed by the seed, so the same inputs
// always yield the same series.
func Simulate(p, r, q, ts float64, n int, seed uint64) (*timeseries.Series, error) {
	if n < 2 {
		return nil, fmt.Errorf("allan: need at least 2 synthetic samples, got %d", n)
	}
	if ts <= 0 {
		return nil, fmt.Errorf("allan: sampling period must be positive, got %v", ts)
	}
	if r < 0 || q < 0 {
		return nil, fmt.Errorf("allan: noise parameters must be non-negative, got R=%v q=%v", r, q)
	}

	src := rand.NewSource(seed)
	white := distuv.Normal{Mu: 0, Sigma: math.Sqrt(r), Src: src}
	walk := distuv.Normal{Mu: 0, Sigma: math.Sqrt(q * ts), Src: src}

	samples := make([]float64, n)
	bias := 0.0
	for k := range samples {
		d := p + bias
		if r > 0 {
			d += white.Rand()
		}
		samples[k] = d
		if q > 0 {
			bias += walk.Rand()
		}
	}

	return timeseries.New(samples, ts)
}
