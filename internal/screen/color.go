package screen

import (
	"fmt"
	"image"
	"math"
	"slices"
	"strings"

	"github.com/scheerer/ambient-lights/internal/color"
)

// Algorithm reduces an image to one color, sampling every grid-th pixel in both directions.
type Algorithm func(img image.Image, grid int) color.Color

var algorithms = map[string]Algorithm{
	"AVERAGE":         AverageColor,
	"SQUARED_AVERAGE": SquaredAverageColor,
	"MEDIAN":          MedianColor,
	"MODE":            ModeColor,
}

func ParseAlgorithm(name string) (Algorithm, error) {
	algo, ok := algorithms[strings.ToUpper(name)]
	if !ok {
		return nil, fmt.Errorf("unknown color algorithm %q", name)
	}
	return algo, nil
}

func sample(img image.Image, grid int, fn func(r, g, b uint8)) {
	if grid < 1 {
		grid = 1
	}
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y += grid {
		for x := bounds.Min.X; x < bounds.Max.X; x += grid {
			r, g, b, _ := img.At(x, y).RGBA()
			fn(uint8(r>>8), uint8(g>>8), uint8(b>>8))
		}
	}
}

func AverageColor(img image.Image, grid int) color.Color {
	var sumR, sumG, sumB, n uint64
	sample(img, grid, func(r, g, b uint8) {
		sumR += uint64(r)
		sumG += uint64(g)
		sumB += uint64(b)
		n++
	})
	if n == 0 {
		return color.Black
	}
	return color.Color{R: uint8(sumR / n), G: uint8(sumG / n), B: uint8(sumB / n)}
}

// SquaredAverageColor is the root mean square per channel, which weights bright pixels more.
func SquaredAverageColor(img image.Image, grid int) color.Color {
	var sumR, sumG, sumB, n uint64
	sample(img, grid, func(r, g, b uint8) {
		sumR += uint64(r) * uint64(r)
		sumG += uint64(g) * uint64(g)
		sumB += uint64(b) * uint64(b)
		n++
	})
	if n == 0 {
		return color.Black
	}
	rms := func(sum uint64) uint8 {
		return uint8(math.Sqrt(float64(sum) / float64(n)))
	}
	return color.Color{R: rms(sumR), G: rms(sumG), B: rms(sumB)}
}

// MedianColor takes the median of each channel independently.
func MedianColor(img image.Image, grid int) color.Color {
	var reds, greens, blues []uint8
	sample(img, grid, func(r, g, b uint8) {
		reds = append(reds, r)
		greens = append(greens, g)
		blues = append(blues, b)
	})
	if len(reds) == 0 {
		return color.Black
	}

	median := func(values []uint8) uint8 {
		slices.Sort(values)
		n := len(values)
		if n%2 == 0 {
			return uint8((int(values[n/2-1]) + int(values[n/2])) / 2)
		}
		return values[n/2]
	}
	return color.Color{R: median(reds), G: median(greens), B: median(blues)}
}

// ModeColor returns the most frequent sampled color; ties go to the one seen first.
func ModeColor(img image.Image, grid int) color.Color {
	counts := make(map[color.Color]int)
	var mode color.Color
	best := 0
	sample(img, grid, func(r, g, b uint8) {
		c := color.Color{R: r, G: g, B: b}
		counts[c]++
		if counts[c] > best {
			best = counts[c]
			mode = c
		}
	})
	return mode
}
