// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text


package app

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/tof_characterizer/internal/config"
	"github.com/relabs-tech/tof_characterizer/internal/distance"
)

func RunConsole() error {
	cfg := config.Get()

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDConsole)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("console: connected to MQTT broker at %s", cfg.MQTTBroker)

	// Subscribe to distance readings
	token := client.Subscribe(cfg.TopicDistance, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var r distance.Reading
		if err := json.Unmarshal(msg.Payload(), &r); err != nil {
			log.Printf("console: reading unmarshal error: %v", err)
			return
		}

		fmt.Printf(
			"[TOF ]  d=%8.1f mm  n=%6d  t=%s\n",
			r.DistanceMM, r.Index, r.Time,
		)
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicDistance)

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("console: shutting down")
	client.Disconnect(250)
	return nil
}
