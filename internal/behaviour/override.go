package behaviour

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/scheerer/ambient-lights/internal/color"
	"github.com/scheerer/ambient-lights/internal/status"
)

// aiBehaviour shows the color written by the external predictor. The last
// good color is cached so a failed read does not flicker the lights.
type aiBehaviour struct {
	reader status.Reader

	cached   color.Color
	hasCache bool
}

func newAI(reader status.Reader) *aiBehaviour {
	return &aiBehaviour{reader: reader}
}

func (b *aiBehaviour) Update(fallback color.Color, _ time.Time) (color.Color, bool) {
	if !b.hasCache {
		b.cached = fallback
		b.hasCache = true
	}

	line, err := status.FirstLine(b.reader)
	if err != nil {
		logger.With(zap.Error(err)).Debug("Failed to read AI color, keeping last color")
		return b.cached, true
	}
	if line == "" {
		return b.cached, true
	}

	c, err := color.Parse(line)
	if err != nil {
		logger.With(zap.Error(err)).Warn("Ignoring malformed AI color")
		return b.cached, true
	}
	b.cached = c

	return b.cached, true
}

func (b *aiBehaviour) Reset() {
	b.hasCache = false
	b.cached = color.Color{}
}

func (b *aiBehaviour) SetPreferences(Options) error {
	return nil
}

func (b *aiBehaviour) Describe() string {
	return "ai"
}

func (b *aiBehaviour) ID() ID {
	return AI
}

// mechBehaviour shows an override color pushed by another device for a few
// seconds after it was written, optionally only while the room is dark.
type mechBehaviour struct {
	reader status.Reader
	opts   MechOptions
}

func newMech(reader status.Reader) *mechBehaviour {
	opts, _ := ParseMechOptions(nil)
	return &mechBehaviour{reader: reader, opts: opts}
}

func (b *mechBehaviour) Update(fallback color.Color, now time.Time) (color.Color, bool) {
	c, err := b.override(fallback, now)
	if errors.Is(err, color.ErrFormat) {
		logger.With(zap.Error(err)).Warn("Ignoring malformed mech color")
		return fallback, false
	}
	if err != nil {
		logger.With(zap.Error(err)).Debug("Not using mech color")
		return fallback, false
	}
	return c, false
}

func (b *mechBehaviour) override(fallback color.Color, now time.Time) (color.Color, error) {
	if b.reader == nil {
		return color.Color{}, fmt.Errorf("%w: no mech source configured", status.ErrExternalRead)
	}
	lines, err := b.reader.ReadLines()
	if err != nil {
		return color.Color{}, err
	}
	if len(lines) < 2 {
		return color.Color{}, fmt.Errorf("%w: mech source needs a color and a timestamp", status.ErrExternalRead)
	}

	c, err := color.Parse(strings.TrimSpace(lines[0]))
	if err != nil {
		return color.Color{}, err
	}
	written, err := status.ParseTimestamp(lines[1])
	if err != nil {
		return color.Color{}, err
	}

	age := now.Unix() - written.Unix()
	if float64(age) >= b.opts.Timeout.Seconds() {
		return color.Color{}, fmt.Errorf("mech color is stale (%ds old)", age)
	}
	if b.opts.OnlyWhenDark && fallback.Value255() > b.opts.DarkThreshold {
		return color.Color{}, fmt.Errorf("not dark enough for mech color (value %.0f)", fallback.Value255())
	}

	return c, nil
}

func (b *mechBehaviour) Reset() {}

func (b *mechBehaviour) SetPreferences(o Options) error {
	opts, err := ParseMechOptions(o)
	if err != nil {
		return err
	}
	b.opts = opts
	return nil
}

func (b *mechBehaviour) Describe() string {
	return fmt.Sprintf("mech[timeout:%s, only_when_dark:%t]", b.opts.Timeout, b.opts.OnlyWhenDark)
}

func (b *mechBehaviour) ID() ID {
	return Mech
}
