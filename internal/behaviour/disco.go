package behaviour

import (
	"fmt"
	"time"

	"github.com/scheerer/ambient-lights/internal/color"
)

// discoBehaviour steps through a color sequence once per beat, ignoring the
// ambient color.
type discoBehaviour struct {
	opts     DiscoOptions
	beat     float64
	sequence *color.Sequence

	started    bool
	lastChange time.Time
}

func newDisco() *discoBehaviour {
	opts, _ := ParseDiscoOptions(nil)
	return &discoBehaviour{
		opts:     opts,
		beat:     BeatDuration(opts.BPM),
		sequence: color.NewSequence(opts.Colors),
	}
}

func (b *discoBehaviour) Update(_ color.Color, now time.Time) (color.Color, bool) {
	if !b.started {
		b.lastChange = now
		b.started = true
	}

	if now.Sub(b.lastChange).Seconds() > b.beat {
		b.sequence.Next()
		b.lastChange = now
	}

	return b.sequence.Current(), false
}

func (b *discoBehaviour) Reset() {
	b.started = false
	b.lastChange = time.Time{}
}

func (b *discoBehaviour) SetPreferences(o Options) error {
	opts, err := ParseDiscoOptions(o)
	if err != nil {
		return err
	}
	b.opts = opts
	b.beat = BeatDuration(opts.BPM)
	b.sequence.SetColors(opts.Colors)
	return nil
}

func (b *discoBehaviour) Describe() string {
	return fmt.Sprintf("disco[bpm:%g, color_duration:%gs, colors:%d]", b.opts.BPM, b.beat, b.sequence.Len())
}

func (b *discoBehaviour) ID() ID {
	return Disco
}
