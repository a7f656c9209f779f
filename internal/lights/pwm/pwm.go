// Package pwm drives a common RGB strip through three GPIO pins.
package pwm

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/scheerer/ambient-lights/internal/color"
	"github.com/scheerer/ambient-lights/internal/logging"
)

var logger = logging.New("pwm")

var ErrInvalidPins = errors.New("invalid pin configuration")

const (
	minPin = 1
	maxPin = 26
)

// Pin is the part of gpio.PinIO the driver uses.
type Pin interface {
	PWM(duty gpio.Duty, f physic.Frequency) error
	Halt() error
	Name() string
}

type Config struct {
	RedPin    int
	GreenPin  int
	BluePin   int
	Frequency physic.Frequency
}

func DefaultConfig() Config {
	return Config{
		RedPin:    22,
		GreenPin:  27,
		BluePin:   17,
		Frequency: 200 * physic.Hertz,
	}
}

// Validate checks that the three BCM pins are distinct and in range.
func (c Config) Validate() error {
	pins := []int{c.RedPin, c.GreenPin, c.BluePin}
	seen := make(map[int]bool, len(pins))
	for _, p := range pins {
		if p < minPin || p > maxPin {
			return fmt.Errorf("%w: pin %d outside %d..%d", ErrInvalidPins, p, minPin, maxPin)
		}
		if seen[p] {
			return fmt.Errorf("%w: pin %d used twice", ErrInvalidPins, p)
		}
		seen[p] = true
	}
	if c.Frequency <= 0 {
		return fmt.Errorf("%w: frequency must be positive", ErrInvalidPins)
	}
	return nil
}

type Strip struct {
	red, green, blue Pin
	frequency        physic.Frequency
}

func New(config Config) (*Strip, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init gpio host: %w", err)
	}

	var pins [3]Pin
	for i, n := range []int{config.RedPin, config.GreenPin, config.BluePin} {
		p := gpioreg.ByName(fmt.Sprintf("GPIO%d", n))
		if p == nil {
			return nil, fmt.Errorf("%w: GPIO%d not found", ErrInvalidPins, n)
		}
		pins[i] = p
	}

	logger.With(zap.Int("red", config.RedPin), zap.Int("green", config.GreenPin), zap.Int("blue", config.BluePin)).
		Info("PWM strip ready")
	return newStrip(pins, config.Frequency), nil
}

func newStrip(pins [3]Pin, frequency physic.Frequency) *Strip {
	return &Strip{red: pins[0], green: pins[1], blue: pins[2], frequency: frequency}
}

func (s *Strip) Name() string {
	return "pwm"
}

func (s *Strip) Write(_ context.Context, c color.Color) error {
	for _, ch := range []struct {
		pin   Pin
		value uint8
	}{{s.red, c.R}, {s.green, c.G}, {s.blue, c.B}} {
		if err := ch.pin.PWM(Duty(ch.value), s.frequency); err != nil {
			return fmt.Errorf("set %s: %w", ch.pin.Name(), err)
		}
	}
	return nil
}

// Close stops the PWM output on all three pins.
func (s *Strip) Close() error {
	return errors.Join(s.red.Halt(), s.green.Halt(), s.blue.Halt())
}

// Duty maps a 0..255 channel to a PWM duty cycle.
func Duty(v uint8) gpio.Duty {
	return gpio.Duty(int64(v) * int64(gpio.DutyMax) / 255)
}
