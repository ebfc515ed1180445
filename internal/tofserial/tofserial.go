// Package tofserial speaks the line protocol of the VL53L0X logging
// firmware: a connection banner, the selected sampling frequency, then one
// plain-text distance reading in millimeters per line once streaming has
// been started. Dropped readings arrive as "Measurement timeout" lines and
// are filtered out here, before anything reaches the analysis core.
package tofserial

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	serial "github.com/jacobsa/go-serial/serial"
)

// Firmware line markers. The banner misspelling is what the firmware
// actually sends; match it verbatim.
const (
	bannerOK       = "VL53L0X connection succesful"
	bannerFailed   = "VL53L0X connection failed"
	freqAnnounce   = "Selected sampling frequency:"
	streamingBegin = "Getting distance data in mm..."
	timeoutLine    = "Measurement timeout"
)

// Conn wraps a line-oriented connection to the logging firmware. Use Dial
// for a real serial port or New for any ReadWriteCloser (tests use an
// in-memory script).
type Conn struct {
	rw         io.ReadWriteCloser
	r          *bufio.Reader
	sampleRate float64
	timeouts   int
	malformed  int
}

// Dial opens the serial port and returns an un-handshaken connection.
func Dial(port string, baudRate uint) (*Conn, error) {
	opts := serial.OpenOptions{
		PortName:              port,
		BaudRate:              baudRate,
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: 0,
	}
	p, err := serial.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("tofserial: open %s: %w", port, err)
	}
	return New(p), nil
}

// New wraps an already open connection.
func New(rw io.ReadWriteCloser) *Conn {
	return &Conn{rw: rw, r: bufio.NewReader(rw)}
}

// Handshake waits for the firmware banner and reads the announced sampling
// frequency. The firmware must be freshly reset; it emits the banner once.
func (c *Conn) Handshake() error {
	for {
		line, err := c.readLine()
		if err != nil {
			return fmt.Errorf("tofserial: waiting for banner: %w", err)
		}
		switch line {
		case bannerOK:
		case bannerFailed:
			return fmt.Errorf("tofserial: sensor reported connection failure")
		default:
			continue
		}
		break
	}

	for {
		line, err := c.readLine()
		if err != nil {
			return fmt.Errorf("tofserial: waiting for sampling frequency: %w", err)
		}
		if line != freqAnnounce {
			continue
		}
		value, err := c.readLine()
		if err != nil {
			return fmt.Errorf("tofserial: reading sampling frequency: %w", err)
		}
		fs, err := strconv.ParseFloat(value, 64)
		if err != nil || fs <= 0 {
			return fmt.Errorf("tofserial: invalid sampling frequency %q", value)
		}
		c.sampleRate = fs
		return nil
	}
}

// SampleRate returns the frequency announced during Handshake, in Hz.
func (c *Conn) SampleRate() float64 { return c.sampleRate }

// Start sends the go-ahead byte and waits for the firmware to confirm it is
// streaming distance data.
func (c *Conn) Start() error {
	if _, err := c.rw.Write([]byte{' '}); err != nil {
		return fmt.Errorf("tofserial: sending start byte: %w", err)
	}
	for {
		line, err := c.readLine()
		if err != nil {
			return fmt.Errorf("tofserial: waiting for stream start: %w", err)
		}
		if line == streamingBegin {
			return nil
		}
	}
}

// ReadSample returns the next valid distance reading in millimeters.
// Timeout lines and corrupt lines are counted and skipped; only transport
// errors surface. Corrupt lines are logged once per hundred to keep a noisy
// link from flooding the output.
func (c *Conn) ReadSample() (float64, error) {
	for {
		line, err := c.readLine()
		if err != nil {
			return 0, fmt.Errorf("tofserial: read: %w", err)
		}
		if line == "" {
			continue
		}
		if line == timeoutLine {
			c.timeouts++
			continue
		}
		v, err := strconv.ParseFloat(line, 64)
		if err != nil {
			c.malformed++
			if c.malformed%100 == 0 {
				log.Printf("tofserial: corrupt line (total %d): %q", c.malformed, line)
			}
			continue
		}
		return v, nil
	}
}

// Timeouts returns the number of "Measurement timeout" lines seen so far.
func (c *Conn) Timeouts() int { return c.timeouts }

// Malformed returns the number of unparsable lines seen so far.
func (c *Conn) Malformed() int { return c.malformed }

// Close closes the underlying port.
func (c *Conn) Close() error { return c.rw.Close() }

func (c *Conn) readLine() (string, error) {
	line, err := c.r.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
