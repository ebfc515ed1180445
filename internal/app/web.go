// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text


package app

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gorilla/websocket"

	"github.com/relabs-tech/tof_characterizer/internal/config"
	"github.com/relabs-tech/tof_characterizer/internal/distance"
	"github.com/relabs-tech/tof_characterizer/internal/report"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// wsHub fans each distance reading out to every connected websocket client.
type wsHub struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]bool
}

func newWSHub() *wsHub {
	return &wsHub{conns: map[*websocket.Conn]bool{}}
}

func (h *wsHub) add(c *websocket.Conn) {
	h.mu.Lock()
	h.conns[c] = true
	h.mu.Unlock()
}

func (h *wsHub) remove(c *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, c)
	h.mu.Unlock()
	c.Close()
}

func (h *wsHub) broadcast(payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.conns {
		if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Printf("web: websocket write error: %v", err)
			delete(h.conns, c)
			c.Close()
		}
	}
}

func RunWeb() error {
	cfg := config.Get()

	var (
		mu          sync.RWMutex
		lastReading distance.Reading
		haveReading bool
	)
	hub := newWSHub()

	// 1) Connect to MQTT broker
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDWeb)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("web: connected to MQTT broker at %s", cfg.MQTTBroker)

	// 2) Subscribe to the distance topic: keep the latest reading and fan it
	//    out to websocket clients
	token := client.Subscribe(cfg.TopicDistance, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var r distance.Reading
		if err := json.Unmarshal(msg.Payload(), &r); err != nil {
			log.Printf("web: MQTT payload unmarshal error: %v", err)
			return
		}
		mu.Lock()
		lastReading = r
		haveReading = true
		mu.Unlock()

		hub.broadcast(msg.Payload())
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("web: subscribed to MQTT topic %s", cfg.TopicDistance)

	// 3) JSON API endpoint: latest distance reading
	http.HandleFunc("/api/reading", func(w http.ResponseWriter, r *http.Request) {
		mu.RLock()
		defer mu.RUnlock()

		if !haveReading {
			http.Error(w, "no data yet", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(lastReading); err != nil {
			log.Printf("web: json encode error: %v", err)
		}
	})

	// 4) JSON API endpoint: latest characterization report, re-read per
	//    request so a fresh analysis shows up without restarting the server
	http.HandleFunc("/api/characterization", func(w http.ResponseWriter, r *http.Request) {
		if cfg.ReportPath == "" {
			http.Error(w, "no report configured", http.StatusNotFound)
			return
		}
		rep, err := report.Load(cfg.ReportPath)
		if err != nil {
			log.Printf("web: report load error: %v", err)
			http.Error(w, "report not available", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(rep); err != nil {
			log.Printf("web: json encode error: %v", err)
		}
	})

	// 5) Websocket endpoint: live distance stream
	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("web: websocket upgrade error: %v", err)
			return
		}
		hub.add(conn)
		log.Printf("web: websocket client connected from %s", r.RemoteAddr)

		// Drain client messages so pings are handled; drop the client on
		// the first read error.
		go func() {
			defer hub.remove(conn)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
	})

	// 6) Static files from ./web as the root
	fs := http.FileServer(http.Dir("web"))
	http.Handle("/", fs)

	addr := fmt.Sprintf(":%d", cfg.WebServerPort)
	log.Printf("web server listening on %s", addr)
	return http.ListenAndServe(addr, nil)
}
