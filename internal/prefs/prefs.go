// Package prefs loads the user preferences document written by the remote
// control server. The document is reloaded every tick; every field falls
// back to its default independently.
package prefs

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/scheerer/ambient-lights/internal/behaviour"
	"github.com/scheerer/ambient-lights/internal/util"
)

var ErrConfigLoad = errors.New("preferences unavailable")

const (
	KeyMaxBrightness        = "pref_max_brightness"
	KeyMinBrightness        = "pref_min_brightness"
	KeyInterpolate          = "pref_interpolate_color_changes"
	KeyChangeDuration       = "pref_color_change_duration"
	KeyInactivityTimeout    = "pref_inactivity_timeout"
	KeyInactivityBehaviour  = "pref_inactivity_behaviour"
	KeyBehaviourOptions     = "pref_inactivity_behaviour_options"
	KeyNotificationsEnabled = "pref_notifications_enabled"
)

// MinChangeDuration is the shortest color transition allowed.
const MinChangeDuration = 500 * time.Millisecond

type Preferences struct {
	// Brightness bounds in percent, 0..100.
	MaxBrightness float64
	MinBrightness float64

	Interpolate    bool
	ChangeDuration time.Duration

	InactivityTimeout   time.Duration
	InactivityBehaviour behaviour.ID
	BehaviourOptions    behaviour.Options

	NotificationsEnabled bool
}

func Default() Preferences {
	return Preferences{
		MaxBrightness:       100,
		MinBrightness:       0,
		Interpolate:         true,
		ChangeDuration:      1500 * time.Millisecond,
		InactivityTimeout:   0,
		InactivityBehaviour: behaviour.None,
		BehaviourOptions:    behaviour.Options{},
	}
}

// Load reads path. On failure it returns the defaults together with an
// error wrapping ErrConfigLoad so the caller can log and carry on.
func Load(path string) (Preferences, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), fmt.Errorf("%w: %v", ErrConfigLoad, err)
	}
	return Parse(data)
}

// Parse decodes a JSON (or YAML) preferences document.
func Parse(data []byte) (Preferences, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Default(), fmt.Errorf("%w: %v", ErrConfigLoad, err)
	}
	return FromMap(doc), nil
}

// FromMap builds preferences from a decoded document. Missing or mistyped
// fields keep their defaults.
func FromMap(doc map[string]any) Preferences {
	p := Default()

	if v, ok := util.ParseFloat(doc[KeyMaxBrightness]); ok {
		p.MaxBrightness = clampPercent(v)
	}
	if v, ok := util.ParseFloat(doc[KeyMinBrightness]); ok {
		p.MinBrightness = clampPercent(v)
	}
	if v, ok := util.ParseBool(doc[KeyInterpolate]); ok {
		p.Interpolate = v
	}
	if v, ok := util.ParseFloat(doc[KeyChangeDuration]); ok {
		p.ChangeDuration = seconds(v)
	}
	if p.ChangeDuration < MinChangeDuration {
		p.ChangeDuration = MinChangeDuration
	}
	if v, ok := util.ParseFloat(doc[KeyInactivityTimeout]); ok && v > 0 {
		p.InactivityTimeout = seconds(v)
	}
	if v, ok := util.ParseInt64(doc[KeyInactivityBehaviour]); ok {
		p.InactivityBehaviour = behaviour.ID(v)
	}
	if v, ok := util.ParseMap(doc[KeyBehaviourOptions]); ok {
		p.BehaviourOptions = behaviour.Options(v)
	}
	if v, ok := util.ParseBool(doc[KeyNotificationsEnabled]); ok {
		p.NotificationsEnabled = v
	}

	return p
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}
