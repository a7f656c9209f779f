package behaviour

import (
	"fmt"
	"time"

	"github.com/scheerer/ambient-lights/internal/color"
)

// Minimum time between spooky brightness changes. Do not lower this without
// another way of limiting the flash rate.
const spookyThrottle = 500 * time.Millisecond

type spookyState int

const (
	spookyLow spookyState = iota
	spookyHigh
)

// spookyBehaviour imitates the flickering lightning of old horror films.
//
// WARNING: this flashes the lights and may cause nausea or seizures in people
// prone to photosensitive epilepsy.
type spookyBehaviour struct {
	opts   SpookyOptions
	sleep  func(time.Duration)
	random func() float64

	started    bool
	state      spookyState
	lastChange time.Time
}

func newSpooky(sleep func(time.Duration), random func() float64) *spookyBehaviour {
	opts, _ := ParseSpookyOptions(nil)
	return &spookyBehaviour{opts: opts, sleep: sleep, random: random}
}

func (b *spookyBehaviour) Update(fallback color.Color, now time.Time) (color.Color, bool) {
	if !b.started {
		b.lastChange = now
		b.started = true
	}

	elapsed := now.Sub(b.lastChange).Seconds()

	var brightness float64
	switch b.state {
	case spookyLow:
		brightness = 0.01 + b.random()*0.05
		if elapsed > b.opts.LowDuration && b.random() > 0.6 {
			b.state = spookyHigh
			b.lastChange = now
		}
	case spookyHigh:
		brightness = 0.2 + b.random()*0.7
		if elapsed > b.opts.HighDuration && b.random() > 0.6 {
			b.state = spookyLow
			b.lastChange = now
		}
	}

	// Blocks the whole tick on purpose.
	b.sleep(spookyThrottle)

	return fallback.WithBrightness(brightness), false
}

func (b *spookyBehaviour) Reset() {
	b.started = false
	b.state = spookyLow
	b.lastChange = time.Time{}
}

func (b *spookyBehaviour) SetPreferences(o Options) error {
	opts, err := ParseSpookyOptions(o)
	if err != nil {
		return err
	}
	b.opts = opts
	return nil
}

func (b *spookyBehaviour) Describe() string {
	return fmt.Sprintf("spooky[low:%gs, high:%gs] WARNING: flashing lights, may be a health hazard",
		b.opts.LowDuration, b.opts.HighDuration)
}

func (b *spookyBehaviour) ID() ID {
	return Spooky
}
