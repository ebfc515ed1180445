package toflog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.csv")
	samples := []float64{1201.5, 1200, 1199.25, 1202}

	err := Write(path, Meta{SampleRate: 50, LogDuration: 120}, samples)
	require.NoError(t, err)

	s, meta, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 50.0, meta.SampleRate)
	assert.Equal(t, 120.0, meta.LogDuration)
	assert.Equal(t, len(samples), s.Len())
	assert.InDelta(t, 0.02, s.Ts(), 1e-12)
	assert.Equal(t, samples, s.Samples())
}

func TestLoad_RejectsMalformedFiles(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"empty", ""},
		{"missing header", "1200\n1201\n1199\n"},
		{"bad fs", "Fs,zero\nLogging time,10\nd\n1200\n1201\n"},
		{"negative fs", "Fs,-50\nLogging time,10\nd\n1200\n1201\n"},
		{"bad sample", "Fs,50\nLogging time,10\nd\n1200\noops\n"},
		{"too few samples", "Fs,50\nLogging time,10\nd\n1200\n"},
		{"wrong column header", "Fs,50\nLogging time,10\nh,temp\n1200\n1201\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.csv")
			require.NoError(t, os.WriteFile(path, []byte(tc.body), 0o644))
			_, _, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}
