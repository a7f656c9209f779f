// Package behaviour implements the time based modifiers applied to the
// ambient color before it reaches the lights.
//
// WARNING: the Spooky behaviour flickers the lights and may trigger seizures
// in people with photosensitive epilepsy. It only runs when explicitly
// selected and is throttled to one change every half second.
package behaviour

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/scheerer/ambient-lights/internal/color"
	"github.com/scheerer/ambient-lights/internal/logging"
	"github.com/scheerer/ambient-lights/internal/status"
)

var logger = logging.New("behaviour")

type ID int

const (
	None ID = iota
	Cycle
	Disco
	Pulse
	Spooky
	AI
	Mech
)

func (id ID) String() string {
	switch id {
	case None:
		return "none"
	case Cycle:
		return "cycle"
	case Disco:
		return "disco"
	case Pulse:
		return "pulse"
	case Spooky:
		return "spooky"
	case AI:
		return "ai"
	case Mech:
		return "mech"
	default:
		return fmt.Sprintf("unknown(%d)", int(id))
	}
}

// Behaviour turns the fallback (ambient) color into the color to display.
// The bool result reports whether the color is canonical, i.e. should be
// recorded for learning.
type Behaviour interface {
	Update(fallback color.Color, now time.Time) (color.Color, bool)
	Reset()
	SetPreferences(opts Options) error
	Describe() string
	ID() ID
}

// Deps are the collaborators a behaviour may need.
type Deps struct {
	AI     status.Reader
	Mech   status.Reader
	Sleep  func(time.Duration)
	Random func() float64
}

func (d Deps) withDefaults() Deps {
	if d.Sleep == nil {
		d.Sleep = time.Sleep
	}
	if d.Random == nil {
		d.Random = rand.Float64
	}
	return d
}

// New returns a fresh behaviour for id configured with defaults. Unknown ids
// give the pass-through behaviour.
func New(id ID, deps Deps) Behaviour {
	deps = deps.withDefaults()

	switch id {
	case Cycle:
		return newCycle()
	case Disco:
		return newDisco()
	case Pulse:
		return newPulse()
	case Spooky:
		return newSpooky(deps.Sleep, deps.Random)
	case AI:
		return newAI(deps.AI)
	case Mech:
		return newMech(deps.Mech)
	default:
		return noneBehaviour{}
	}
}

type noneBehaviour struct{}

func (noneBehaviour) Update(fallback color.Color, _ time.Time) (color.Color, bool) {
	return fallback, true
}

func (noneBehaviour) Reset() {}
func (noneBehaviour) SetPreferences(Options) error { return nil }
func (noneBehaviour) Describe() string { return "none" }
func (noneBehaviour) ID() ID { return None }
