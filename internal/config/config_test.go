package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tof_config.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validConfig = `# serial
SERIAL_PORT = /dev/ttyUSB0
BAUD_RATE = 115200

MQTT_BROKER = tcp://localhost:1883
MQTT_CLIENT_ID_LOGGER = tof-logger
TOPIC_DISTANCE = tof/distance

LOG_DURATION = 600
LOG_DIR = logs

SLOPE_TOLERANCE = 0.1
MIN_WINDOW = 3
CLUSTER_SPACING = dyadic
WORKERS = 4

WEB_SERVER_PORT = 8080
REPORT_PATH = tof_characterization.json

DISPLAY_I2C_ADDR = 0x3C
DISPLAY_UPDATE_INTERVAL = 250
`

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	require.NoError(t, err)

	assert.Equal(t, "/dev/ttyUSB0", cfg.SerialPort)
	assert.Equal(t, uint(115200), cfg.BaudRate)
	assert.Equal(t, "tcp://localhost:1883", cfg.MQTTBroker)
	assert.Equal(t, "tof/distance", cfg.TopicDistance)
	assert.Equal(t, 600, cfg.LogDuration)
	assert.Equal(t, "logs", cfg.LogDir)
	assert.Equal(t, 0.1, cfg.SlopeTolerance)
	assert.Equal(t, 3, cfg.MinWindow)
	assert.Equal(t, "dyadic", cfg.ClusterSpacing)
	assert.Equal(t, 8080, cfg.WebServerPort)
	assert.Equal(t, uint16(0x3C), cfg.DisplayI2CAddr)
	assert.Equal(t, 250, cfg.DisplayUpdateInterval)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"unknown key":       validConfig + "NO_SUCH_KEY = 1\n",
		"missing separator": "SERIAL_PORT /dev/ttyUSB0\n",
		"bad baud rate":     "SERIAL_PORT = /dev/ttyUSB0\nBAUD_RATE = fast\n",
		"bad spacing":       validConfig + "CLUSTER_SPACING = cubic\n",
		"zero log duration": "SERIAL_PORT=a\nBAUD_RATE=9600\nMQTT_BROKER=b\nTOPIC_DISTANCE=c\nLOG_DURATION=0\n",
		"missing broker":    "SERIAL_PORT=a\nBAUD_RATE=9600\nTOPIC_DISTANCE=c\nLOG_DURATION=60\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, content))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.txt"))
	assert.Error(t, err)
}
