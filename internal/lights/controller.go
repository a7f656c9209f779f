// Package lights turns target colors into hardware writes: it smooths color
// changes, applies the brightness limits and suppresses repeated writes.
package lights

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/scheerer/ambient-lights/internal/color"
	"github.com/scheerer/ambient-lights/internal/prefs"
)

// Controller is not safe for concurrent use; the tick loop owns it.
type Controller struct {
	driver Driver
	prefs  prefs.Preferences
	now    func() time.Time

	// last target, ignoring interpolation
	oldColor color.Color
	// last color actually written; nothing is assumed about the
	// hardware until the first write succeeds
	previousColor color.Color
	written       bool
	changeStart   time.Time
}

type Option func(*Controller)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

func NewController(driver Driver, p prefs.Preferences, opts ...Option) *Controller {
	c := &Controller{
		driver: driver,
		prefs:  p,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) SetPreferences(p prefs.Preferences) {
	c.prefs = p
}

// Previous returns the last color written to the driver.
func (c *Controller) Previous() color.Color {
	return c.previousColor
}

// SetColor moves the lights towards target. Identical consecutive outputs
// are written once; repeated writes make some strips flicker.
func (c *Controller) SetColor(ctx context.Context, target color.Color) error {
	out := target
	if c.prefs.Interpolate {
		out = c.morphTo(target)
	} else {
		c.oldColor = target
		c.changeStart = time.Time{}
	}

	out = c.restrict(out)
	if c.written && out == c.previousColor {
		return nil
	}

	if err := c.driver.Write(ctx, out); err != nil {
		return fmt.Errorf("%s driver: %w", c.driver.Name(), err)
	}
	logger.With(zap.Stringer("target", target), zap.Stringer("color", out)).Debug("Color written")

	c.previousColor = out
	c.written = true
	return nil
}

func (c *Controller) morphTo(target color.Color) color.Color {
	if target == c.oldColor {
		return target
	}

	now := c.now()
	if c.changeStart.IsZero() {
		c.changeStart = now
	}

	duration := c.prefs.ChangeDuration
	if duration < prefs.MinChangeDuration {
		duration = prefs.MinChangeDuration
	}

	progress := now.Sub(c.changeStart).Seconds() / duration.Seconds()
	out := target
	if progress < 1 {
		out = color.Morph(c.oldColor, target, progress)
	}
	// a blend can land on the target early, which ends the transition too
	if out == target {
		c.oldColor = target
		c.changeStart = time.Time{}
	}
	return out
}

// restrict clamps the HSV value into the configured brightness range.
func (c *Controller) restrict(in color.Color) color.Color {
	hsv := in.HSV()
	hsv.V = min(c.prefs.MaxBrightness/100.0, max(hsv.V, c.prefs.MinBrightness/100.0))
	return color.FromHSV(hsv)
}
