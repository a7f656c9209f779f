package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/var/www/api/led_control/", c.StatusDir)
	assert.Equal(t, 20*time.Millisecond, c.PollInterval)
	assert.Equal(t, DriverPWM, c.Driver)
	assert.Equal(t, []int{22, 27, 17}, []int{c.RedPin, c.GreenPin, c.BluePin})
	assert.Equal(t, AmbientFile, c.AmbientSource)
	assert.Empty(t, c.MQTTBroker)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DRIVER", "lifx")
	t.Setenv("POLL_INTERVAL", "1s")
	t.Setenv("AMBIENT_SOURCE", "screen")
	t.Setenv("MQTT_BROKER", "tcp://localhost:1883")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverLIFX, c.Driver)
	assert.Equal(t, time.Second, c.PollInterval)
	assert.Equal(t, AmbientScreen, c.AmbientSource)
	assert.Equal(t, "tcp://localhost:1883", c.MQTTBroker)
}

func TestLoadRejectsUnknownValues(t *testing.T) {
	t.Setenv("DRIVER", "dmx")
	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	c.AmbientSource = "MICROPHONE"
	assert.Error(t, c.Validate())

	c.AmbientSource = AmbientFile
	c.PollInterval = 0
	assert.Error(t, c.Validate())
}
