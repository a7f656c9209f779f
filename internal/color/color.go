// Package color holds the RGB color value used throughout the controller,
// its "r g b" wire format, HSV conversions and the named color table.
package color

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

var (
	ErrFormat           = errors.New("malformed color string")
	ErrUnknownColorName = errors.New("unknown color name")
)

// Color is an 8-bit RGB triple.
type Color struct {
	R uint8
	G uint8
	B uint8
}

var (
	Red     = Color{R: 255}
	Green   = Color{G: 255}
	Blue    = Color{B: 255}
	Yellow  = Color{R: 255, G: 255}
	Cyan    = Color{G: 255, B: 255}
	Magenta = Color{R: 255, B: 255}
	White   = Color{R: 255, G: 255, B: 255}
	Black   = Color{}
	Orange  = Color{R: 255, G: 10}
	Pink    = Color{R: 255, B: 10}
)

var names = map[string]Color{
	"red":        Red,
	"green":      Green,
	"blue":       Blue,
	"yellow":     Yellow,
	"cyan":       Cyan,
	"light blue": Cyan,
	"magenta":    Magenta,
	"purple":     Magenta,
	"white":      White,
	"black":      Black,
	"off":        Black,
	"orange":     Orange,
	"pink":       Pink,
}

// Parse reads the "r g b" format: exactly three base-10 integers in 0..255
// separated by single spaces.
func Parse(s string) (Color, error) {
	parts := strings.Split(s, " ")
	if len(parts) != 3 {
		return Color{}, fmt.Errorf("%w: %q has %d components", ErrFormat, s, len(parts))
	}

	var rgb [3]uint8
	for i, p := range parts {
		v, err := strconv.ParseUint(p, 10, 8)
		if err != nil {
			return Color{}, fmt.Errorf("%w: %q: %v", ErrFormat, s, err)
		}
		rgb[i] = uint8(v)
	}

	return Color{R: rgb[0], G: rgb[1], B: rgb[2]}, nil
}

// Named looks up a color by its lowercase name.
func Named(name string) (Color, error) {
	c, ok := names[name]
	if !ok {
		return Color{}, fmt.Errorf("%w: %q", ErrUnknownColorName, name)
	}
	return c, nil
}

// Resolve accepts either a color name or an "r g b" string.
func Resolve(s string) (Color, error) {
	if c, err := Named(s); err == nil {
		return c, nil
	}
	c, err := Parse(s)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q is neither a known name nor an rgb string", ErrUnknownColorName, s)
	}
	return c, nil
}

func (c Color) String() string {
	return fmt.Sprintf("%d %d %d", c.R, c.G, c.B)
}

// HSV is a color in hue/saturation/value form. All three fields are
// normalized to [0,1]; V is NOT on the 0..255 scale.
type HSV struct {
	H float64
	S float64
	V float64
}

// HSV converts c to hue/saturation/value with V in [0,1].
func (c Color) HSV() HSV {
	cf := colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
	h, s, v := cf.Hsv()
	return HSV{H: wrapHue(h / 360.0), S: s, V: v}
}

// Hue returns the hue of c in [0,1).
func (c Color) Hue() float64 {
	return c.HSV().H
}

// Brightness returns the HSV value of c in [0,1].
func (c Color) Brightness() float64 {
	return c.HSV().V
}

// Value255 returns the HSV value of c on the 0..255 scale.
func (c Color) Value255() float64 {
	return c.HSV().V * 255.0
}

// WithBrightness keeps the hue and saturation of c and replaces its value.
// v is on the [0,1] scale.
func (c Color) WithBrightness(v float64) Color {
	hsv := c.HSV()
	hsv.V = v
	return FromHSV(hsv)
}

// FromHSV converts back to RGB. Channels are clamped to 0..255 and fractional
// parts are truncated.
func FromHSV(hsv HSV) Color {
	cf := colorful.Hsv(wrapHue(hsv.H)*360.0, hsv.S, hsv.V)
	return Color{
		R: channel(cf.R),
		G: channel(cf.G),
		B: channel(cf.B),
	}
}

// channel truncates a [0,1] component to 0..255. The epsilon keeps values
// like 254.99999999 that come out of the float math at 255.
func channel(f float64) uint8 {
	v := math.Floor(f*255.0 + 1e-9)
	return uint8(Clamp(v, 0, 255))
}

func wrapHue(h float64) float64 {
	h = math.Mod(h, 1.0)
	if h < 0 {
		h += 1.0
	}
	return h
}
