// Package app runs the control loop: preferences, ambient color, behaviour
// and output, once per tick.
package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/scheerer/ambient-lights/internal/behaviour"
	"github.com/scheerer/ambient-lights/internal/canonical"
	"github.com/scheerer/ambient-lights/internal/color"
	"github.com/scheerer/ambient-lights/internal/lights"
	"github.com/scheerer/ambient-lights/internal/logging"
	"github.com/scheerer/ambient-lights/internal/prefs"
	"github.com/scheerer/ambient-lights/internal/status"
)

var logger = logging.New("app")

type Components struct {
	// Preferences returns the current preferences; on error it still returns usable defaults.
	Preferences func() (prefs.Preferences, error)
	Ambient     status.AmbientSource
	Behaviours  behaviour.Deps
	// Canonical may be nil.
	Canonical  canonical.Sink
	Controller *lights.Controller
	Now        func() time.Time
}

type Orchestrator struct {
	c Components

	prefs     prefs.Preferences
	behaviour behaviour.Behaviour
	ambient   status.Ambient
	active    bool

	lastPrefsErr   string
	lastOptionsErr string
	lastAmbientErr string
}

func New(c Components) *Orchestrator {
	if c.Now == nil {
		c.Now = time.Now
	}
	p := prefs.Default()
	return &Orchestrator{
		c:         c,
		prefs:     p,
		behaviour: behaviour.New(p.InactivityBehaviour, c.Behaviours),
	}
}

// Behaviour returns the behaviour currently selected.
func (o *Orchestrator) Behaviour() behaviour.Behaviour {
	return o.behaviour
}

// Tick runs one update. Only a failed driver write is returned; every
// other problem is logged and the tick carries on with the last good data.
func (o *Orchestrator) Tick(ctx context.Context) error {
	now := o.c.Now()
	o.refreshPreferences()
	ambient := o.readAmbient()

	target, isCanonical := ambient.Color, true
	if o.behaviourApplies(ambient, now) {
		target, isCanonical = o.behaviour.Update(ambient.Color, now)
	}

	if isCanonical && o.c.Canonical != nil {
		if err := o.c.Canonical.Record(ctx, target, now); err != nil {
			logger.With(zap.Error(err), zap.Stringer("color", target)).Warn("Failed to record canonical color")
		}
	}

	o.c.Controller.SetPreferences(o.prefs)
	return o.c.Controller.SetColor(ctx, target)
}

func (o *Orchestrator) refreshPreferences() {
	p, err := o.c.Preferences()
	logChanged(&o.lastPrefsErr, err, "Failed to load preferences, using defaults")

	if p.InactivityBehaviour != o.prefs.InactivityBehaviour {
		o.behaviour = behaviour.New(p.InactivityBehaviour, o.c.Behaviours)
		o.active = false
		logger.With(zap.Stringer("id", p.InactivityBehaviour)).Infof("New behaviour: %s", o.behaviour.Describe())
	}
	if p.NotificationsEnabled != o.prefs.NotificationsEnabled {
		logger.With(zap.Bool("enabled", p.NotificationsEnabled)).Info("Notifications preference changed")
	}
	o.prefs = p

	err = o.behaviour.SetPreferences(p.BehaviourOptions)
	logChanged(&o.lastOptionsErr, err, "Rejected behaviour options, keeping previous")
}

func (o *Orchestrator) readAmbient() status.Ambient {
	a, err := o.c.Ambient.ReadAmbient()
	logChanged(&o.lastAmbientErr, err, "Failed to read ambient color, reusing previous")
	if err == nil {
		o.ambient = a
	}
	return o.ambient
}

// behaviourApplies reports whether the ambient color has been left alone
// long enough for the inactivity behaviour to take over. A zero timeout
// means always.
func (o *Orchestrator) behaviourApplies(a status.Ambient, now time.Time) bool {
	applies := true
	if timeout := o.prefs.InactivityTimeout; timeout > 0 && a.HasTimestamp() {
		applies = now.Sub(a.UpdatedAt) >= timeout
	}

	if applies && !o.active {
		o.behaviour.Reset()
	}
	o.active = applies
	return applies
}

// Run ticks every interval until ctx is cancelled.
func (o *Orchestrator) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var lastWarning time.Time
	for {
		start := time.Now()
		if err := o.Tick(ctx); err != nil {
			logger.With(zap.Error(err)).Warn("Tick failed")
		}
		if took := time.Since(start); took > interval && time.Since(lastWarning) > 10*time.Second {
			logger.With(zap.Duration("took", took), zap.Duration("interval", interval)).
				Warn("Cannot keep up with POLL_INTERVAL")
			lastWarning = time.Now()
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return
		}
	}
}

// Shutdown turns the lights off without interpolation.
func (o *Orchestrator) Shutdown(ctx context.Context) error {
	p := o.prefs
	p.Interpolate = false
	p.MinBrightness = 0
	o.c.Controller.SetPreferences(p)
	return o.c.Controller.SetColor(ctx, color.Black)
}

// logChanged logs err when its text differs from the previous one, so a
// persistent failure is reported once rather than every tick.
func logChanged(last *string, err error, msg string) {
	text := ""
	if err != nil {
		text = err.Error()
	}
	if text == *last {
		return
	}
	*last = text
	if err != nil {
		logger.With(zap.Error(err)).Warn(msg)
	}
}
