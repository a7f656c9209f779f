// Package ws281x drives an addressable WS281x strip showing one color.
//
// The native ws2811 binding is only compiled with the ws281x build tag;
// other builds get a New that reports ErrNotBuilt.
package ws281x

import (
	"context"
	"errors"

	"github.com/scheerer/ambient-lights/internal/color"
	"github.com/scheerer/ambient-lights/internal/logging"
)

var logger = logging.New("ws281x")

var ErrNotBuilt = errors.New("ws281x support not built in, rebuild with -tags ws281x")

type Config struct {
	GpioPin  int
	LedCount int
	// Brightness is the strip level (0..255) applied by the library.
	Brightness int
}

// device is the part of the native strip handle the driver uses.
type device interface {
	Leds(channel int) []uint32
	Render() error
	Fini()
}

type Strip struct {
	dev device
}

func (s *Strip) Name() string {
	return "ws281x"
}

func (s *Strip) Write(_ context.Context, c color.Color) error {
	fill(s.dev.Leds(0), c)
	return s.dev.Render()
}

func (s *Strip) Close() error {
	fill(s.dev.Leds(0), color.Black)
	err := s.dev.Render()
	s.dev.Fini()
	return err
}

func fill(leds []uint32, c color.Color) {
	v := Pack(c)
	for i := range leds {
		leds[i] = v
	}
}

// Pack encodes a color in the 0x00RRGGBB layout the strip buffer uses.
func Pack(c color.Color) uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}
