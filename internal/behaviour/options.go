package behaviour

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/scheerer/ambient-lights/internal/color"
	"github.com/scheerer/ambient-lights/internal/util"
)

var (
	ErrInvalidOption       = errors.New("invalid behaviour option")
	ErrUnsupportedWaveform = errors.New("unsupported pulse waveform")
)

// MinBeatDuration keeps bpm driven behaviours from strobing.
const MinBeatDuration = 0.25

// Options is the free-form pref_inactivity_behaviour_options document. Each
// behaviour reads the section stored under its numeric id; section "0" holds
// values shared by all behaviours.
type Options map[string]any

func (o Options) section(id ID) map[string]any {
	m, _ := util.ParseMap(o[strconv.Itoa(int(id))])
	return m
}

func (o Options) lookup(id ID, key string) (any, bool) {
	if v, ok := o.section(id)[key]; ok {
		return v, true
	}
	v, ok := o.section(None)[key]
	return v, ok
}

func positiveFloat(o Options, id ID, key string, def float64) (float64, error) {
	raw, ok := o.lookup(id, key)
	if !ok {
		return def, nil
	}
	v, ok := util.ParseFloat(raw)
	if !ok || v <= 0 {
		return 0, fmt.Errorf("%w: %s.%s = %v", ErrInvalidOption, id, key, raw)
	}
	return v, nil
}

func boolOption(o Options, id ID, key string, def bool) (bool, error) {
	raw, ok := o.lookup(id, key)
	if !ok {
		return def, nil
	}
	v, ok := util.ParseBool(raw)
	if !ok {
		return false, fmt.Errorf("%w: %s.%s = %v", ErrInvalidOption, id, key, raw)
	}
	return v, nil
}

// BeatDuration converts bpm to seconds per beat, doubling until the beat is
// at least MinBeatDuration long.
func BeatDuration(bpm float64) float64 {
	pulse := 60 / bpm
	for pulse < MinBeatDuration {
		pulse *= 2
	}
	return pulse
}

type CycleOptions struct {
	// Seconds for one trip around the hue wheel.
	Duration float64
}

func ParseCycleOptions(o Options) (CycleOptions, error) {
	d, err := positiveFloat(o, Cycle, "duration", 10)
	if err != nil {
		return CycleOptions{}, err
	}
	return CycleOptions{Duration: d}, nil
}

type DiscoOptions struct {
	BPM    float64
	Colors []color.Color
}

func ParseDiscoOptions(o Options) (DiscoOptions, error) {
	bpm, err := positiveFloat(o, Disco, "bpm", 60)
	if err != nil {
		return DiscoOptions{}, err
	}

	opts := DiscoOptions{BPM: bpm}
	raw, ok := o.section(Disco)["colors"]
	if !ok || raw == nil {
		return opts, nil
	}
	names, ok := util.ParseStringSlice(raw)
	if !ok {
		return DiscoOptions{}, fmt.Errorf("%w: disco.colors = %v", ErrInvalidOption, raw)
	}
	for _, name := range names {
		c, err := color.Resolve(name)
		if err != nil {
			return DiscoOptions{}, fmt.Errorf("%w: disco.colors: %w", ErrInvalidOption, err)
		}
		opts.Colors = append(opts.Colors, c)
	}
	return opts, nil
}

const WaveformSine = "sin"

type PulseOptions struct {
	BPM float64
	// Only WaveformSine is implemented.
	Waveform string
}

func ParsePulseOptions(o Options) (PulseOptions, error) {
	bpm, err := positiveFloat(o, Pulse, "bpm", 60)
	if err != nil {
		return PulseOptions{}, err
	}

	opts := PulseOptions{BPM: bpm, Waveform: WaveformSine}
	if raw, ok := o.section(Pulse)["waveform"]; ok {
		opts.Waveform = util.ParseString(raw)
	}
	if opts.Waveform != WaveformSine {
		return PulseOptions{}, fmt.Errorf("%w: %q", ErrUnsupportedWaveform, opts.Waveform)
	}
	return opts, nil
}

type SpookyOptions struct {
	// Minimum seconds spent dark before a flash may start.
	LowDuration float64
	// Minimum seconds spent lit before going dark again.
	HighDuration float64
}

func ParseSpookyOptions(o Options) (SpookyOptions, error) {
	low, err := positiveFloat(o, Spooky, "low_duration", 5.0)
	if err != nil {
		return SpookyOptions{}, err
	}
	high, err := positiveFloat(o, Spooky, "high_duration", 1.5)
	if err != nil {
		return SpookyOptions{}, err
	}
	return SpookyOptions{LowDuration: low, HighDuration: high}, nil
}

type MechOptions struct {
	Timeout      time.Duration
	OnlyWhenDark bool
	// Ambient value (0..255) above which the override is ignored when OnlyWhenDark is set.
	DarkThreshold float64
}

func ParseMechOptions(o Options) (MechOptions, error) {
	timeout, err := positiveFloat(o, Mech, "timeout", 5)
	if err != nil {
		return MechOptions{}, err
	}
	dark, err := boolOption(o, Mech, "only_when_dark", true)
	if err != nil {
		return MechOptions{}, err
	}
	threshold, err := positiveFloat(o, Mech, "dark_threshold", 50)
	if err != nil {
		return MechOptions{}, err
	}
	return MechOptions{
		Timeout:       time.Duration(timeout * float64(time.Second)),
		OnlyWhenDark:  dark,
		DarkThreshold: threshold,
	}, nil
}
