// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text


package app

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/tof_characterizer/internal/config"
	"github.com/relabs-tech/tof_characterizer/internal/distance"
	"github.com/relabs-tech/tof_characterizer/internal/toflog"
	"github.com/relabs-tech/tof_characterizer/internal/tofserial"
)

// RunLogger opens the sensor serial port, streams distance samples for the
// configured duration, publishes each sample as JSON to MQTT and writes the
// whole session to a timestamped CSV log.
func RunLogger() error {
	cfg := config.Get()

	// ---- 1) Connect to MQTT broker ----
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDLogger)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer client.Disconnect(250)
	log.Printf("logger: connected to MQTT broker at %s", cfg.MQTTBroker)

	// ---- 2) Open the sensor serial port ----
	conn, err := tofserial.Dial(cfg.SerialPort, cfg.BaudRate)
	if err != nil {
		return err
	}
	defer conn.Close()
	log.Printf("logger: serial port opened on %s at %d baud", cfg.SerialPort, cfg.BaudRate)

	if err := conn.Handshake(); err != nil {
		return err
	}
	fs := conn.SampleRate()
	log.Printf("logger: sensor ready, sampling at %g Hz", fs)

	if err := conn.Start(); err != nil {
		return err
	}

	// ---- 3) Stream samples for the configured duration ----
	total := int(fs * float64(cfg.LogDuration))
	if total < 2 {
		return fmt.Errorf("logger: session too short: %d samples at %g Hz over %d s",
			total, fs, cfg.LogDuration)
	}
	log.Printf("logger: capturing %d samples (%d s)", total, cfg.LogDuration)

	samples := make([]float64, 0, total)
	for len(samples) < total {
		d, err := conn.ReadSample()
		if err != nil {
			log.Printf("logger: read error after %d samples: %v", len(samples), err)
			return err
		}
		samples = append(samples, d)

		reading := distance.Reading{
			DistanceMM: d,
			Time:       time.Now().Format(time.RFC3339Nano),
			Index:      len(samples) - 1,
		}
		payload, err := json.Marshal(reading)
		if err != nil {
			log.Printf("logger: JSON marshal error: %v", err)
			continue
		}
		token := client.Publish(cfg.TopicDistance, 0, true, payload)
		token.Wait()
		if token.Error() != nil {
			log.Printf("logger: publish error: %v", token.Error())
		}

		if len(samples)%1000 == 0 {
			log.Printf("logger: %d/%d samples", len(samples), total)
		}
	}

	if n := conn.Timeouts(); n > 0 {
		log.Printf("logger: sensor reported %d measurement timeouts", n)
	}
	if n := conn.Malformed(); n > 0 {
		log.Printf("logger: skipped %d malformed lines", n)
	}

	// ---- 4) Write the session log ----
	if cfg.LogDir != "" {
		if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
			return fmt.Errorf("logger: create log dir: %w", err)
		}
	}
	name := fmt.Sprintf("tof_distance_data_%s_cal.csv", time.Now().Format("02_01_2006_15_04"))
	path := filepath.Join(cfg.LogDir, name)

	meta := toflog.Meta{SampleRate: fs, LogDuration: float64(cfg.LogDuration)}
	if err := toflog.Write(path, meta, samples); err != nil {
		return err
	}
	log.Printf("logger: wrote %d samples to %s", len(samples), path)
	return nil
}
