// Package toflog reads and writes the CSV log format produced by the ToF
// distance logger: two metadata rows ("Fs" and "Logging time"), a "d" column
// header, then one distance sample in millimeters per row.
package toflog

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/relabs-tech/tof_characterizer/internal/timeseries"
)

// Meta is the log-file header: the sampling frequency reported by the
// firmware and the requested logging duration.
type Meta struct {
	SampleRate  float64 // Hz
	LogDuration float64 // seconds
}

// Write stores a capture in the log format. The samples slice may be empty;
// the header is written regardless so a partial capture is still loadable
// metadata-wise.
func Write(path string, meta Meta, samples []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("toflog: create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	records := [][]string{
		{"Fs", strconv.FormatFloat(meta.SampleRate, 'g', -1, 64)},
		{"Logging time", strconv.FormatFloat(meta.LogDuration, 'g', -1, 64)},
		{"d"},
	}
	for _, v := range samples {
		records = append(records, []string{strconv.FormatFloat(v, 'g', -1, 64)})
	}
	if err := w.WriteAll(records); err != nil {
		return fmt.Errorf("toflog: write %s: %w", path, err)
	}
	return nil
}

// Load reads a log file back into a validated series. The sampling period is
// derived from the Fs header row. Malformed headers or sample rows are
// rejected here so the analysis core only ever sees clean data.
func Load(path string) (*timeseries.Series, Meta, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Meta{}, fmt.Errorf("toflog: open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // header rows have two fields, sample rows one

	records, err := r.ReadAll()
	if err != nil {
		return nil, Meta{}, fmt.Errorf("toflog: read %s: %w", path, err)
	}
	if len(records) < 3 {
		return nil, Meta{}, fmt.Errorf("toflog: %s: missing header rows", path)
	}

	meta, err := parseHeader(records[:3])
	if err != nil {
		return nil, Meta{}, fmt.Errorf("toflog: %s: %w", path, err)
	}

	samples := make([]float64, 0, len(records)-3)
	for i, rec := range records[3:] {
		if len(rec) != 1 {
			return nil, Meta{}, fmt.Errorf("toflog: %s: row %d has %d fields, want 1", path, i+4, len(rec))
		}
		v, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			return nil, Meta{}, fmt.Errorf("toflog: %s: row %d: %w", path, i+4, err)
		}
		samples = append(samples, v)
	}

	s, err := timeseries.New(samples, 1/meta.SampleRate)
	if err != nil {
		return nil, Meta{}, fmt.Errorf("toflog: %s: %w", path, err)
	}
	return s, meta, nil
}

func parseHeader(rows [][]string) (Meta, error) {
	var meta Meta
	if len(rows[0]) != 2 || rows[0][0] != "Fs" {
		return Meta{}, fmt.Errorf("first row must be Fs,<hz>, got %v", rows[0])
	}
	fs, err := strconv.ParseFloat(rows[0][1], 64)
	if err != nil || fs <= 0 {
		return Meta{}, fmt.Errorf("invalid sampling frequency %q", rows[0][1])
	}
	meta.SampleRate = fs

	if len(rows[1]) != 2 || rows[1][0] != "Logging time" {
		return Meta{}, fmt.Errorf("second row must be Logging time,<sec>, got %v", rows[1])
	}
	dur, err := strconv.ParseFloat(rows[1][1], 64)
	if err != nil || dur < 0 {
		return Meta{}, fmt.Errorf("invalid logging time %q", rows[1][1])
	}
	meta.LogDuration = dur

	if len(rows[2]) != 1 || rows[2][0] != "d" {
		return Meta{}, fmt.Errorf("third row must be the d column header, got %v", rows[2])
	}
	return meta, nil
}
