// Package screen samples a display and reports its dominant color as the ambient color.
package screen

import (
	"fmt"
	"image"
	"time"

	"github.com/kbinani/screenshot"
	"go.uber.org/zap"

	"github.com/scheerer/ambient-lights/internal/logging"
	"github.com/scheerer/ambient-lights/internal/status"
)

var logger = logging.New("screen")

type Config struct {
	Display       int
	PixelGridSize int
	Algorithm     string
}

type Source struct {
	display int
	grid    int
	algo    Algorithm
	capture func(display int) (*image.RGBA, error)
	now     func() time.Time
}

var _ status.AmbientSource = (*Source)(nil)

func NewSource(config Config) (*Source, error) {
	algo, err := ParseAlgorithm(config.Algorithm)
	if err != nil {
		return nil, err
	}
	if n := screenshot.NumActiveDisplays(); config.Display < 0 || config.Display >= n {
		return nil, fmt.Errorf("display %d not available, %d active", config.Display, n)
	}
	return &Source{
		display: config.Display,
		grid:    config.PixelGridSize,
		algo:    algo,
		capture: screenshot.CaptureDisplay,
		now:     time.Now,
	}, nil
}

// ReadAmbient captures the display. The color is always fresh, so it carries the capture time.
func (s *Source) ReadAmbient() (status.Ambient, error) {
	start := s.now()
	img, err := s.capture(s.display)
	if err != nil {
		return status.Ambient{}, fmt.Errorf("%w: capture display %d: %w", status.ErrExternalRead, s.display, err)
	}

	c := s.algo(img, s.grid)
	logger.With(zap.Stringer("color", c), zap.Duration("took", s.now().Sub(start))).Debug("Screen sampled")
	return status.Ambient{Color: c, UpdatedAt: start}, nil
}
