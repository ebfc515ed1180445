package distance

// Reading represents a single ToF distance sample suitable for JSON and MQTT.
type Reading struct {
	DistanceMM float64 `json:"distance_mm"`
	Time       string  `json:"time"` // RFC3339
	Index      int     `json:"index"`
}
