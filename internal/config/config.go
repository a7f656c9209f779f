// Package config reads the process configuration from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env"
)

const (
	DriverLog    = "LOG"
	DriverPWM    = "PWM"
	DriverWS281x = "WS281X"
	DriverLIFX   = "LIFX"

	AmbientFile   = "FILE"
	AmbientScreen = "SCREEN"
)

type Config struct {
	StatusDir    string        `env:"STATUS_DIR" envDefault:"/var/www/api/led_control/"`
	PollInterval time.Duration `env:"POLL_INTERVAL" envDefault:"20ms"`
	Driver       string        `env:"DRIVER" envDefault:"PWM"`

	RedPin   int `env:"RED_PIN" envDefault:"22"`
	GreenPin int `env:"GREEN_PIN" envDefault:"27"`
	BluePin  int `env:"BLUE_PIN" envDefault:"17"`

	StripPin        int `env:"STRIP_PIN" envDefault:"18"`
	StripLedCount   int `env:"STRIP_LED_COUNT" envDefault:"60"`
	StripBrightness int `env:"STRIP_BRIGHTNESS" envDefault:"255"`

	LightGroupName string        `env:"LIGHT_GROUP_NAME" envDefault:"AMBIENT"`
	LifxFade       time.Duration `env:"LIFX_FADE" envDefault:"50ms"`

	AmbientSource string `env:"AMBIENT_SOURCE" envDefault:"FILE"`
	ColorAlgo     string `env:"COLOR_ALGO" envDefault:"AVERAGE"`
	PixelGridSize int    `env:"PIXEL_GRID_SIZE" envDefault:"5"`
	ScreenNumber  int    `env:"SCREEN_NUMBER" envDefault:"0"`

	HistoryPath string `env:"HISTORY_PATH"`

	MQTTBroker   string `env:"MQTT_BROKER"`
	MQTTPrefix   string `env:"MQTT_PREFIX" envDefault:"ambient-lights"`
	MQTTClientID string `env:"MQTT_CLIENT_ID"`
	MQTTUser     string `env:"MQTT_USER"`
	MQTTPassword string `env:"MQTT_PASSWORD" json:"-"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

func Load() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, err
	}
	c.normalize()
	return c, c.Validate()
}

func (c *Config) normalize() {
	c.Driver = strings.ToUpper(c.Driver)
	c.AmbientSource = strings.ToUpper(c.AmbientSource)
}

func (c Config) Validate() error {
	switch c.Driver {
	case DriverLog, DriverPWM, DriverWS281x, DriverLIFX:
	default:
		return fmt.Errorf("unknown driver %q", c.Driver)
	}
	switch c.AmbientSource {
	case AmbientFile, AmbientScreen:
	default:
		return fmt.Errorf("unknown ambient source %q", c.AmbientSource)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", c.PollInterval)
	}
	return nil
}
