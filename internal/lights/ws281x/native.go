//go:build ws281x

package ws281x

import (
	"fmt"

	ws2811 "github.com/rpi-ws281x/rpi-ws281x-go"
	"go.uber.org/zap"
)

func New(config Config) (*Strip, error) {
	if config.LedCount <= 0 {
		return nil, fmt.Errorf("ws281x: led count must be positive, got %d", config.LedCount)
	}

	opt := ws2811.DefaultOptions
	opt.Channels[0].GpioPin = config.GpioPin
	opt.Channels[0].LedCount = config.LedCount
	opt.Channels[0].Brightness = config.Brightness

	dev, err := ws2811.MakeWS2811(&opt)
	if err != nil {
		return nil, fmt.Errorf("ws281x: %w", err)
	}
	if err := dev.Init(); err != nil {
		return nil, fmt.Errorf("ws281x init: %w", err)
	}

	logger.With(zap.Int("pin", config.GpioPin), zap.Int("leds", config.LedCount)).Info("WS281x strip ready")
	return &Strip{dev: dev}, nil
}
