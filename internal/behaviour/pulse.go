package behaviour

import (
	"fmt"
	"math"
	"time"

	"github.com/scheerer/ambient-lights/internal/color"
)

// pulseBehaviour keeps the ambient hue and saturation and swings the value
// along half a sine wave once per beat.
type pulseBehaviour struct {
	opts PulseOptions
	beat float64

	started bool
	start   time.Time
}

func newPulse() *pulseBehaviour {
	opts, _ := ParsePulseOptions(nil)
	return &pulseBehaviour{opts: opts, beat: BeatDuration(opts.BPM)}
}

func (b *pulseBehaviour) Update(fallback color.Color, now time.Time) (color.Color, bool) {
	if !b.started {
		b.start = now
		b.started = true
	}

	hsv := fallback.HSV()
	delta := math.Mod(now.Sub(b.start).Seconds()/b.beat, 1.0)
	hsv.V = math.Sin(delta * math.Pi)

	return color.FromHSV(hsv), false
}

func (b *pulseBehaviour) Reset() {
	b.started = false
	b.start = time.Time{}
}

func (b *pulseBehaviour) SetPreferences(o Options) error {
	opts, err := ParsePulseOptions(o)
	if err != nil {
		return err
	}
	b.opts = opts
	b.beat = BeatDuration(opts.BPM)
	return nil
}

func (b *pulseBehaviour) Describe() string {
	return fmt.Sprintf("pulse[bpm:%g, beat:%gs, waveform:%s]", b.opts.BPM, b.beat, b.opts.Waveform)
}

func (b *pulseBehaviour) ID() ID {
	return Pulse
}
