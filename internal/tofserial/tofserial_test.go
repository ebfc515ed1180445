package tofserial

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePort scripts the firmware side of the conversation: reads come from
// the script, writes are captured for inspection.
type fakePort struct {
	io.Reader
	wrote bytes.Buffer
}

func (f *fakePort) Write(p []byte) (int, error) { return f.wrote.Write(p) }
func (f *fakePort) Close() error                { return nil }

func scripted(lines ...string) *fakePort {
	return &fakePort{Reader: strings.NewReader(strings.Join(lines, "\r\n") + "\r\n")}
}

func TestHandshakeAndStream(t *testing.T) {
	port := scripted(
		"boot noise",
		"VL53L0X connection succesful",
		"Selected sampling frequency:",
		"50",
		"Getting distance data in mm...",
		"1201",
		"Measurement timeout",
		"1199.5",
		"garbage;;",
		"1200",
	)
	c := New(port)

	require.NoError(t, c.Handshake())
	assert.Equal(t, 50.0, c.SampleRate())

	require.NoError(t, c.Start())
	assert.Equal(t, []byte{' '}, port.wrote.Bytes(), "start byte must be sent")

	var got []float64
	for i := 0; i < 3; i++ {
		v, err := c.ReadSample()
		require.NoError(t, err)
		got = append(got, v)
	}
	assert.Equal(t, []float64{1201, 1199.5, 1200}, got)
	assert.Equal(t, 1, c.Timeouts())
	assert.Equal(t, 1, c.Malformed())

	// Script exhausted: the transport error must surface.
	_, err := c.ReadSample()
	assert.Error(t, err)
}

func TestHandshake_SensorFailure(t *testing.T) {
	c := New(scripted("VL53L0X connection failed"))
	assert.Error(t, c.Handshake())
}

func TestHandshake_BadFrequency(t *testing.T) {
	c := New(scripted(
		"VL53L0X connection succesful",
		"Selected sampling frequency:",
		"not-a-number",
	))
	assert.Error(t, c.Handshake())
}

func TestHandshake_TruncatedStream(t *testing.T) {
	c := New(scripted("just noise"))
	assert.Error(t, c.Handshake())
}
