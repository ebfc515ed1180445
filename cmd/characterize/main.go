// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text


// ./cmd/characterize/main.go
//
// Offline Allan-deviation analysis of a logged ToF distance capture.
// Pipeline:
//  1. Load a CSV log written by cmd/logger (or simulate a series from known
//     noise parameters with -synthetic, to validate the analysis itself)
//  2. Compute the Allan deviation over a set of cluster sizes
//  3. Locate the white-noise (-1/2) and random-walk (+1/2) slope regions
//  4. Back out R (white-noise variance, mm^2) and q (random-walk intensity,
//     mm^2/s), write a JSON report and optionally a log-log chart
//
// Run:
//
//	go run ./cmd/characterize -in logs/tof_distance_data_07_03_2026_14_31_cal.csv
//	go run ./cmd/characterize -synthetic -r 4 -q 0.01 -n 20000 -ts 0.02
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/relabs-tech/tof_characterizer/internal/app"
)

func main() {
	var opts app.CharacterizeOptions

	flag.StringVar(&opts.InputPath, "in", "", "CSV log file to analyze")
	flag.StringVar(&opts.ReportPath, "out", "tof_characterization.json", "JSON report output path (empty to skip)")
	flag.StringVar(&opts.PlotPath, "plot", "", "PNG chart output path (empty to skip)")

	flag.Float64Var(&opts.SlopeTolerance, "tolerance", 0, "slope tolerance for region detection (0 = default 0.1)")
	flag.IntVar(&opts.MinWindow, "window", 0, "minimum points per fitted region (0 = default 3)")
	flag.StringVar(&opts.Spacing, "spacing", "default", "cluster size spacing: default, dyadic or linear")
	flag.IntVar(&opts.Workers, "workers", 0, "parallel workers for the Allan curve (0 = GOMAXPROCS)")

	flag.BoolVar(&opts.Synthetic, "synthetic", false, "simulate a series instead of loading a log")
	flag.Float64Var(&opts.TrueDist, "dist", 1200, "synthetic: true distance in mm")
	flag.Float64Var(&opts.TrueR, "r", 4, "synthetic: white-noise variance in mm^2")
	flag.Float64Var(&opts.TrueQ, "q", 0, "synthetic: random-walk intensity in mm^2/s")
	flag.Float64Var(&opts.Ts, "ts", 0.02, "synthetic: sampling period in seconds")
	flag.IntVar(&opts.Samples, "n", 20000, "synthetic: number of samples")
	flag.Uint64Var(&opts.Seed, "seed", 1, "synthetic: RNG seed")
	flag.Parse()

	if err := app.RunCharacterize(opts); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}
