// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text


package app

import (
	"fmt"
	"log"

	"github.com/relabs-tech/tof_characterizer/internal/allan"
	"github.com/relabs-tech/tof_characterizer/internal/plot"
	"github.com/relabs-tech/tof_characterizer/internal/report"
	"github.com/relabs-tech/tof_characterizer/internal/timeseries"
	"github.com/relabs-tech/tof_characterizer/internal/toflog"
)

// CharacterizeOptions selects the input and tuning for one analysis run.
// Either InputPath points at a CSV log, or Synthetic is set and the series is
// simulated from the given parameters instead.
type CharacterizeOptions struct {
	InputPath string

	Synthetic bool
	TrueDist  float64 // mm
	TrueR     float64 // mm^2
	TrueQ     float64 // mm^2/s
	Ts        float64 // seconds
	Samples   int
	Seed      uint64

	SlopeTolerance float64
	MinWindow      int
	Spacing        string // "default", "dyadic" or "linear"
	Workers        int

	ReportPath string
	PlotPath   string
}

// RunCharacterize loads or simulates a distance series, runs the Allan
// analysis pipeline and writes the JSON report plus an optional chart.
func RunCharacterize(opts CharacterizeOptions) error {
	s, source, err := loadSeries(opts)
	if err != nil {
		return err
	}
	log.Printf("characterize: %d samples at Ts=%g s (%.1f s of data) from %s",
		s.Len(), s.Ts(), s.Duration(), source)

	sizes, err := clusterSizes(opts.Spacing, s.Len())
	if err != nil {
		return err
	}

	res, err := allan.Characterize(s, allan.Options{
		ClusterSizes:   sizes,
		SlopeTolerance: opts.SlopeTolerance,
		MinWindow:      opts.MinWindow,
		Workers:        opts.Workers,
	})
	if err != nil {
		return err
	}
	printSummary(res)

	if opts.ReportPath != "" {
		r := report.New(source, s, res)
		if err := report.Write(opts.ReportPath, r); err != nil {
			return err
		}
		log.Printf("characterize: wrote report to %s", opts.ReportPath)
	}
	if opts.PlotPath != "" {
		if err := plot.Save(opts.PlotPath, res); err != nil {
			return err
		}
		log.Printf("characterize: wrote chart to %s", opts.PlotPath)
	}
	return nil
}

func loadSeries(opts CharacterizeOptions) (*timeseries.Series, string, error) {
	if opts.Synthetic {
		s, err := allan.Simulate(opts.TrueDist, opts.TrueR, opts.TrueQ, opts.Ts, opts.Samples, opts.Seed)
		if err != nil {
			return nil, "", err
		}
		return s, "synthetic", nil
	}
	if opts.InputPath == "" {
		return nil, "", fmt.Errorf("characterize: no input: give a log file or synthetic parameters")
	}
	s, meta, err := toflog.Load(opts.InputPath)
	if err != nil {
		return nil, "", err
	}
	log.Printf("characterize: log header: Fs=%g Hz, logging time %g s", meta.SampleRate, meta.LogDuration)
	return s, opts.InputPath, nil
}

func clusterSizes(spacing string, n int) ([]int, error) {
	switch spacing {
	case "", "default":
		return nil, nil // Characterize picks DefaultClusterSizes
	case "dyadic":
		return allan.DyadicClusterSizes(n), nil
	case "linear":
		return allan.LinearClusterSizes(n), nil
	default:
		return nil, fmt.Errorf("characterize: unknown spacing %q", spacing)
	}
}

func printSummary(res *allan.Result) {
	fmt.Println("=== ToF distance sensor noise characterization ===")
	pts := res.Curve.Points
	fmt.Printf("Allan curve: %d points, tau %g..%g s\n",
		len(pts), pts[0].Tau, pts[len(pts)-1].Tau)

	if res.WhiteFound {
		f := res.WhiteFit
		fmt.Printf("White-noise region: slope=%.3f over tau %g..%g s (%d points)\n",
			f.Slope, f.TauMin, f.TauMax, f.Points)
	} else {
		fmt.Println("White-noise region: not found")
	}
	if res.RandomWalkFound {
		f := res.RandomWalkFit
		fmt.Printf("Random-walk region: slope=%.3f over tau %g..%g s (%d points)\n",
			f.Slope, f.TauMin, f.TauMax, f.Points)
	} else {
		fmt.Println("Random-walk region: not found")
	}

	if res.Estimate.RIdentified {
		fmt.Printf("R (white-noise variance): %.6g mm^2\n", res.Estimate.R)
	} else {
		fmt.Println("R (white-noise variance): unidentified")
	}
	if res.Estimate.QIdentified {
		fmt.Printf("q (random-walk intensity): %.6g mm^2/s\n", res.Estimate.Q)
	} else {
		fmt.Println("q (random-walk intensity): unidentified")
	}
}
