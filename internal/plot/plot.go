// Package plot renders an Allan-deviation chart: empirical points on
// log-log axes with the fitted white-noise and random-walk slope lines
// overlaid across their selected tau ranges.
package plot

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/relabs-tech/tof_characterizer/internal/allan"
)

// Save writes a PNG chart of the result to path. Points with sigma = 0
// cannot be shown on a log axis and are left out, matching how the fitter
// treats them.
func Save(path string, res *allan.Result) error {
	p := plot.New()
	p.Title.Text = "ToF distance sensor Allan deviation"
	p.X.Label.Text = "Averaging time τ [s]"
	p.Y.Label.Text = "Allan deviation [mm]"
	p.X.Scale = plot.LogScale{}
	p.Y.Scale = plot.LogScale{}
	p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Add(plotter.NewGrid())

	var pts plotter.XYs
	for _, pt := range res.Curve.Points {
		if pt.Sigma <= 0 {
			continue
		}
		pts = append(pts, plotter.XY{X: pt.Tau, Y: pt.Sigma})
	}
	if len(pts) == 0 {
		return fmt.Errorf("plot: no positive Allan-deviation points to draw")
	}

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("plot: scatter: %w", err)
	}
	p.Add(scatter)
	p.Legend.Add("measured", scatter)

	if res.WhiteFound {
		line, err := fitLine(res.WhiteFit, color.RGBA{R: 200, A: 255})
		if err != nil {
			return err
		}
		p.Add(line)
		p.Legend.Add("white noise (-1/2)", line)
	}
	if res.RandomWalkFound {
		line, err := fitLine(res.RandomWalkFit, color.RGBA{B: 200, A: 255})
		if err != nil {
			return err
		}
		p.Add(line)
		p.Legend.Add("random walk (+1/2)", line)
	}

	if err := p.Save(8*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("plot: save %s: %w", path, err)
	}
	return nil
}

// fitLine draws sigma(tau) = 10^intercept * tau^slope over the fitted range.
func fitLine(f allan.Fit, c color.Color) (*plotter.Line, error) {
	eval := func(tau float64) float64 {
		return math.Pow(10, f.Intercept) * math.Pow(tau, f.Slope)
	}
	pts := plotter.XYs{
		{X: f.TauMin, Y: eval(f.TauMin)},
		{X: f.TauMax, Y: eval(f.TauMax)},
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, fmt.Errorf("plot: fit line: %w", err)
	}
	line.Color = c
	line.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	return line, nil
}
