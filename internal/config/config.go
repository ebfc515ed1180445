package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Config holds all application configuration values.
type Config struct {
	// Serial link to the sensor firmware
	SerialPort string
	BaudRate   uint

	// MQTT
	MQTTBroker          string
	MQTTClientIDLogger  string
	MQTTClientIDConsole string
	MQTTClientIDWeb     string
	MQTTClientIDDisplay string

	// Topics
	TopicDistance string

	// Logging session
	LogDuration int // seconds of capture per session
	LogDir      string

	// Analysis defaults
	SlopeTolerance float64
	MinWindow      int
	ClusterSpacing string // "default", "dyadic" or "linear"
	Workers        int

	// Web Server
	WebServerPort int
	ReportPath    string // characterization report served by the web API

	// Display
	DisplayI2CAddr        uint16
	DisplayUpdateInterval int // milliseconds
}

// Package-level unexported variables for singleton pattern:
//   - globalConfig: unexported (lowercase) so other packages cannot access it directly.
//     This enforces encapsulation and prevents external code from modifying config without proper locking.
//   - configOnce: ensures InitGlobal() only runs once, even if called multiple times.
//   - configMu: RWMutex protects concurrent access. Write lock (Lock) for initialization,
//     read lock (RLock) for Get() allows multiple concurrent readers without blocking each other.
//
// External code must use InitGlobal() to set and Get() to read, ensuring thread safety.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Load reads the configuration file and returns a Config struct.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	cfg := &Config{}
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Validate required fields
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// Serial
	case "SERIAL_PORT":
		c.SerialPort = value
	case "BAUD_RATE":
		rate, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return fmt.Errorf("invalid BAUD_RATE %q: %w", value, err)
		}
		c.BaudRate = uint(rate)

	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_LOGGER":
		c.MQTTClientIDLogger = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value
	case "MQTT_CLIENT_ID_WEB":
		c.MQTTClientIDWeb = value
	case "MQTT_CLIENT_ID_DISPLAY":
		c.MQTTClientIDDisplay = value

	// Topics
	case "TOPIC_DISTANCE":
		c.TopicDistance = value

	// Logging session
	case "LOG_DURATION":
		dur, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid LOG_DURATION %q: %w", value, err)
		}
		if dur <= 0 {
			return fmt.Errorf("LOG_DURATION must be positive, got %d", dur)
		}
		c.LogDuration = dur
	case "LOG_DIR":
		c.LogDir = value

	// Analysis defaults
	case "SLOPE_TOLERANCE":
		tol, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid SLOPE_TOLERANCE %q: %w", value, err)
		}
		if tol <= 0 {
			return fmt.Errorf("SLOPE_TOLERANCE must be positive, got %g", tol)
		}
		c.SlopeTolerance = tol
	case "MIN_WINDOW":
		w, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid MIN_WINDOW %q: %w", value, err)
		}
		if w < 2 {
			return fmt.Errorf("MIN_WINDOW must be at least 2, got %d", w)
		}
		c.MinWindow = w
	case "CLUSTER_SPACING":
		switch value {
		case "default", "dyadic", "linear":
			c.ClusterSpacing = value
		default:
			return fmt.Errorf("CLUSTER_SPACING must be default, dyadic or linear, got %q", value)
		}
	case "WORKERS":
		w, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid WORKERS %q: %w", value, err)
		}
		if w < 0 {
			return fmt.Errorf("WORKERS must not be negative, got %d", w)
		}
		c.Workers = w

	// Web Server
	case "WEB_SERVER_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid WEB_SERVER_PORT %q: %w", value, err)
		}
		c.WebServerPort = port
	case "REPORT_PATH":
		c.ReportPath = value

	// Display
	case "DISPLAY_I2C_ADDR":
		addr, err := strconv.ParseUint(value, 0, 16)
		if err != nil {
			return fmt.Errorf("invalid DISPLAY_I2C_ADDR %q: %w", value, err)
		}
		c.DisplayI2CAddr = uint16(addr)
	case "DISPLAY_UPDATE_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid DISPLAY_UPDATE_INTERVAL %q: %w", value, err)
		}
		c.DisplayUpdateInterval = interval

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

// validate checks that all required fields are set.
func (c *Config) validate() error {
	if c.SerialPort == "" {
		return fmt.Errorf("SERIAL_PORT is required")
	}
	if c.BaudRate == 0 {
		return fmt.Errorf("BAUD_RATE is required")
	}
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is required")
	}
	if c.TopicDistance == "" {
		return fmt.Errorf("TOPIC_DISTANCE is required")
	}
	if c.LogDuration == 0 {
		return fmt.Errorf("LOG_DURATION is required")
	}
	return nil
}

// InitGlobal initializes the global configuration from file.
// Uses sync.Once to ensure this only runs once, even if called multiple times.
// Acquires write lock (configMu.Lock) during initialization to prevent concurrent access.
// This is the only function that can set globalConfig.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance.
// InitGlobal must be called first, or this will return nil.
// Uses read lock (configMu.RLock) to allow multiple concurrent readers without blocking.
// This is thread-safe and efficient for concurrent access across goroutines.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
