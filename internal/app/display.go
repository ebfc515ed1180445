package app

import (
	"encoding/json"
	"fmt"
	"image"
	"log"
	"math"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/tof_characterizer/internal/config"
	"github.com/relabs-tech/tof_characterizer/internal/distance"
)

// rollingWindow keeps the most recent distance readings for the on-screen
// mean and standard deviation.
const rollingWindow = 128

// DisplayData holds the latest data for display
type DisplayData struct {
	mu sync.RWMutex

	last        distance.Reading
	haveReading bool
	recent      []float64 // ring of the last rollingWindow distances
	next        int
	filled      bool
}

func (d *DisplayData) update(r distance.Reading) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.last = r
	d.haveReading = true
	if len(d.recent) < rollingWindow {
		d.recent = append(d.recent, r.DistanceMM)
		return
	}
	d.recent[d.next] = r.DistanceMM
	d.next = (d.next + 1) % rollingWindow
	d.filled = true
}

// snapshot returns the last reading plus mean and standard deviation over the
// rolling window.
func (d *DisplayData) snapshot() (r distance.Reading, mean, std float64, ok bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if !d.haveReading {
		return distance.Reading{}, 0, 0, false
	}
	n := float64(len(d.recent))
	var sum float64
	for _, v := range d.recent {
		sum += v
	}
	mean = sum / n
	var variance float64
	for _, v := range d.recent {
		diff := v - mean
		variance += diff * diff
	}
	std = math.Sqrt(variance / n)
	return d.last, mean, std, true
}

func RunDisplay() error {
	cfg := config.Get()

	// Initialize periph
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("failed to initialize periph: %w", err)
	}

	// Open I2C bus
	bus, err := i2creg.Open("")
	if err != nil {
		return fmt.Errorf("failed to open I2C bus: %w", err)
	}
	defer bus.Close()

	dev, err := ssd1306.NewI2C(bus, &ssd1306.DefaultOpts)
	if err != nil {
		return fmt.Errorf("failed to initialize display: %w", err)
	}
	log.Printf("display: initialized at 0x%02X", cfg.DisplayI2CAddr)

	if err := showSplash(dev); err != nil {
		log.Printf("display: error showing splash: %v", err)
	}

	// Data storage
	data := &DisplayData{}

	// Connect to MQTT
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDDisplay)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("display: connected to MQTT broker at %s", cfg.MQTTBroker)

	token := client.Subscribe(cfg.TopicDistance, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var r distance.Reading
		if err := json.Unmarshal(msg.Payload(), &r); err != nil {
			log.Printf("display: reading unmarshal error: %v", err)
			return
		}
		data.update(r)
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("display: subscribed to %s", cfg.TopicDistance)

	// Display update loop
	ticker := time.NewTicker(time.Duration(cfg.DisplayUpdateInterval) * time.Millisecond)
	defer ticker.Stop()

	log.Println("display: starting update loop")

	for range ticker.C {
		if err := updateDistanceDisplay(dev, data); err != nil {
			log.Printf("display: error updating display: %v", err)
		}
	}

	return nil
}

func updateDistanceDisplay(dev *ssd1306.Dev, data *DisplayData) error {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, 128, 64))

	// Blank image
	for i := 0; i < 1024; i++ {
		img.Pix[i] = 0
	}

	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
	}

	last, mean, std, ok := data.snapshot()
	if !ok {
		drawer.Dot = fixed.P(0, 26)
		drawer.DrawBytes([]byte("ToF distance"))
		drawer.Dot = fixed.P(0, 39)
		drawer.DrawBytes([]byte("Waiting..."))
	} else {
		drawer.Dot = fixed.P(0, 13)
		drawer.DrawBytes([]byte(fmt.Sprintf("d: %8.1f mm", last.DistanceMM)))

		drawer.Dot = fixed.P(0, 26)
		drawer.DrawBytes([]byte(fmt.Sprintf("avg: %6.1f mm", mean)))

		drawer.Dot = fixed.P(0, 39)
		drawer.DrawBytes([]byte(fmt.Sprintf("std: %6.2f mm", std)))

		drawer.Dot = fixed.P(0, 52)
		drawer.DrawBytes([]byte(fmt.Sprintf("n: %d", last.Index+1)))
	}

	return dev.Draw(dev.Bounds(), img, image.Point{})
}

func showSplash(dev *ssd1306.Dev) error {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, 128, 64))

	// Blank image
	for i := 0; i < 1024; i++ {
		img.Pix[i] = 0
	}

	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
	}

	drawer.Dot = fixed.P(10, 26)
	drawer.DrawBytes([]byte("ToF Ranger"))

	drawer.Dot = fixed.P(5, 43)
	drawer.DrawBytes([]byte("Waiting for"))

	drawer.Dot = fixed.P(25, 56)
	drawer.DrawBytes([]byte("samples"))

	return dev.Draw(dev.Bounds(), img, image.Point{})
}
