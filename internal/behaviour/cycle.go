package behaviour

import (
	"fmt"
	"math"
	"time"

	"github.com/scheerer/ambient-lights/internal/color"
)

// cycleBehaviour rotates the hue of the ambient color captured on the first
// tick, at full saturation and the captured brightness.
type cycleBehaviour struct {
	opts CycleOptions

	anchored   bool
	start      time.Time
	hue        float64
	brightness float64
}

func newCycle() *cycleBehaviour {
	opts, _ := ParseCycleOptions(nil)
	return &cycleBehaviour{opts: opts}
}

func (b *cycleBehaviour) Update(fallback color.Color, now time.Time) (color.Color, bool) {
	if !b.anchored {
		hsv := fallback.HSV()
		b.hue = hsv.H
		b.brightness = hsv.V
		b.start = now
		b.anchored = true
	}

	delta := math.Mod(now.Sub(b.start).Seconds()/b.opts.Duration, 1.0)
	hue := math.Mod(b.hue+delta, 1.0)

	return color.FromHSV(color.HSV{H: hue, S: 1.0, V: b.brightness}), false
}

func (b *cycleBehaviour) Reset() {
	b.anchored = false
	b.start = time.Time{}
	b.hue = 0
	b.brightness = 1
}

func (b *cycleBehaviour) SetPreferences(o Options) error {
	opts, err := ParseCycleOptions(o)
	if err != nil {
		return err
	}
	b.opts = opts
	return nil
}

func (b *cycleBehaviour) Describe() string {
	return fmt.Sprintf("cycle[duration:%gs]", b.opts.Duration)
}

func (b *cycleBehaviour) ID() ID {
	return Cycle
}
