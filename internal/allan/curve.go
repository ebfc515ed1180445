package allan

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/floats"

	"github.com/relabs-tech/tof_characterizer/internal/timeseries"
)

var (
	// ErrInvalidClusterSequence reports an empty, non-increasing, duplicated
	// or non-positive cluster-size sequence.
	ErrInvalidClusterSequence = errors.New("allan: invalid cluster size sequence")

	// ErrInsufficientSamples reports that no requested cluster size yields
	// the two non-overlapping blocks needed for a single difference.
	ErrInsufficientSamples = errors.New("allan: series too short for requested cluster sizes")
)

// Point is one point of an Allan curve: the deviation sigma at averaging
// time tau = m*Ts, computed from `Blocks` non-overlapping block averages.
type Point struct {
	Tau    float64 `json:"tau"`
	Sigma  float64 `json:"sigma"`
	M      int     `json:"m"`
	Blocks int     `json:"blocks"`
}

// Curve is an Allan-deviation curve, strictly increasing in tau.
// It is immutable once computed; Ts records the sampling period of the
// series it was derived from.
type Curve struct {
	Ts     float64 `json:"ts"`
	Points []Point `json:"points"`
}

// Len returns the number of curve points.
func (c *Curve) Len() int { return len(c.Points) }

// Compute derives the Allan-deviation curve of s over the given cluster
// sizes using the standard non-overlapping estimator
//
//	sigma²(tau) = 1/(2(K-1)) * sum (a_i - a_{i-1})²
//
// where a_0..a_{K-1} are the K = floor(N/m) block averages of m consecutive
// samples (remainder samples discarded). Cluster sizes that yield fewer than
// two blocks are skipped; if all are skipped, ErrInsufficientSamples is
// returned. mValues must be strictly increasing and positive.
//
// Per-m computations are independent, so they run on a small worker pool;
// results land in slots indexed by m, making the output bit-identical to a
// sequential run regardless of worker count.
func Compute(s *timeseries.Series, mValues []int) (*Curve, error) {
	return ComputeWorkers(s, mValues, 0)
}

// ComputeWorkers is Compute with an explicit worker count (<=0 selects
// GOMAXPROCS).
func ComputeWorkers(s *timeseries.Series, mValues []int, workers int) (*Curve, error) {
	if err := validateClusterSequence(mValues); err != nil {
		return nil, err
	}

	admissible := AdmissibleClusterSizes(s, mValues)
	if len(admissible) == 0 {
		return nil, fmt.Errorf("%w: N=%d, smallest requested m=%d needs N >= %d",
			ErrInsufficientSamples, s.Len(), mValues[0], 2*mValues[0])
	}

	points := make([]Point, len(admissible))

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(admissible) {
		workers = len(admissible)
	}

	var wg sync.WaitGroup
	work := make(chan int)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range work {
				points[i] = deviationPoint(s.Samples(), admissible[i], s.Ts())
			}
		}()
	}
	for i := range admissible {
		work <- i
	}
	close(work)
	wg.Wait()

	return &Curve{Ts: s.Ts(), Points: points}, nil
}

// AdmissibleClusterSizes returns the subset of mValues that yields at least
// two non-overlapping blocks for s, i.e. the cluster sizes Compute will not
// skip. It does not validate the sequence ordering.
func AdmissibleClusterSizes(s *timeseries.Series, mValues []int) []int {
	var out []int
	for _, m := range mValues {
		if m >= 1 && s.Len()/m >= 2 {
			out = append(out, m)
		}
	}
	return out
}

func validateClusterSequence(mValues []int) error {
	if len(mValues) == 0 {
		return fmt.Errorf("%w: empty", ErrInvalidClusterSequence)
	}
	prev := 0
	for i, m := range mValues {
		if m < 1 {
			return fmt.Errorf("%w: m[%d]=%d is not positive", ErrInvalidClusterSequence, i, m)
		}
		if m <= prev {
			return fmt.Errorf("%w: m[%d]=%d does not increase past %d", ErrInvalidClusterSequence, i, m, prev)
		}
		prev = m
	}
	return nil
}

// deviationPoint computes one Allan-deviation point for cluster size m.
// Block averages are consumed as they are formed; only the previous one is
// retained, so memory stays O(1) per cluster size.
func deviationPoint(samples []float64, m int, ts float64) Point {
	k := len(samples) / m

	inv := 1 / float64(m)
	prev := floats.Sum(samples[:m]) * inv

	var sumSq float64
	for i := 1; i < k; i++ {
		cur := floats.Sum(samples[i*m:(i+1)*m]) * inv
		d := cur - prev
		sumSq += d * d
		prev = cur
	}

	avar := sumSq / (2 * float64(k-1))
	return Point{
		Tau:    float64(m) * ts,
		Sigma:  math.Sqrt(avar),
		M:      m,
		Blocks: k,
	}
}
