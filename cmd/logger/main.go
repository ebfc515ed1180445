// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text


package main

import (
	"flag"
	"log"

	"github.com/relabs-tech/tof_characterizer/internal/app"
	"github.com/relabs-tech/tof_characterizer/internal/config"
)

func main() {
	configPath := flag.String("config", "./tof_config.txt", "path to configuration file")
	flag.Parse()

	log.Println("starting tof-characterizer distance logger (serial → CSV + MQTT)")

	// Load configuration
	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunLogger(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
