// Package report serializes one characterization run into a versioned JSON
// document: the noise estimate, both regression fits (or null when a region
// was not found) and the full Allan curve, so the result stays traceable to
// the exact data behind it.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/relabs-tech/tof_characterizer/internal/allan"
	"github.com/relabs-tech/tof_characterizer/internal/timeseries"
)

const SchemaVersion = 1

// FitInfo mirrors one regression fit.
type FitInfo struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	Residual  float64 `json:"residual"`
	TauMin    float64 `json:"tau_min"`
	TauMax    float64 `json:"tau_max"`
	Points    int     `json:"points"`
}

// Report is the JSON document written after a characterization run.
// R and Q are null when unidentified; consumers branch on null, never on a
// float sentinel.
type Report struct {
	SchemaVersion int    `json:"schema_version"`
	CreatedAt     string `json:"created_at"` // RFC3339
	Source        string `json:"source"`     // log file path or "synthetic"

	Samples  int     `json:"samples"`
	Ts       float64 `json:"ts"`
	Duration float64 `json:"duration_sec"`

	R *float64 `json:"r_mm2"`
	Q *float64 `json:"q_mm2_per_s"`

	WhiteNoiseFit *FitInfo `json:"white_noise_fit"`
	RandomWalkFit *FitInfo `json:"random_walk_fit"`

	AllanCurve []allan.Point `json:"allan_curve"`
}

// New assembles a report from a pipeline result.
func New(source string, s *timeseries.Series, res *allan.Result) Report {
	r := Report{
		SchemaVersion: SchemaVersion,
		CreatedAt:     time.Now().Format(time.RFC3339),
		Source:        source,
		Samples:       s.Len(),
		Ts:            s.Ts(),
		Duration:      s.Duration(),
		AllanCurve:    res.Curve.Points,
	}
	if res.Estimate.RIdentified {
		v := res.Estimate.R
		r.R = &v
	}
	if res.Estimate.QIdentified {
		v := res.Estimate.Q
		r.Q = &v
	}
	if res.WhiteFound {
		r.WhiteNoiseFit = fitInfo(res.WhiteFit)
	}
	if res.RandomWalkFound {
		r.RandomWalkFit = fitInfo(res.RandomWalkFit)
	}
	return r
}

func fitInfo(f allan.Fit) *FitInfo {
	return &FitInfo{
		Slope:     f.Slope,
		Intercept: f.Intercept,
		Residual:  f.Residual,
		TauMin:    f.TauMin,
		TauMax:    f.TauMax,
		Points:    f.Points,
	}
}

// Write stores the report as indented JSON.
func Write(path string, r Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("report: marshal: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("report: write %s: %w", path, err)
	}
	return nil
}

// Load reads a report back, for serving over the web API.
func Load(path string) (Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Report{}, fmt.Errorf("report: read %s: %w", path, err)
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return Report{}, fmt.Errorf("report: parse %s: %w", path, err)
	}
	return r, nil
}
