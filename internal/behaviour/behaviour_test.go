package behaviour

import (
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scheerer/ambient-lights/internal/color"
	"github.com/scheerer/ambient-lights/internal/status"
)

var epoch = time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)

func at(seconds float64) time.Time {
	return epoch.Add(time.Duration(seconds * float64(time.Second)))
}

type failingReader struct{}

func (failingReader) ReadLines() ([]string, error) {
	return nil, errors.New("boom")
}

type scriptedRandom struct {
	values []float64
	i      int
}

func (r *scriptedRandom) next() float64 {
	v := r.values[r.i%len(r.values)]
	r.i++
	return v
}

func TestNewIsTotal(t *testing.T) {
	for id := ID(-3); id <= 10; id++ {
		b := New(id, Deps{})
		require.NotNil(t, b)
		if id < None || id > Mech {
			assert.Equal(t, None, b.ID(), "id %d", id)
		} else {
			assert.Equal(t, id, b.ID())
		}
		assert.NotEmpty(t, b.Describe())
	}
}

func TestNone(t *testing.T) {
	b := New(None, Deps{})
	c, canonical := b.Update(color.Orange, epoch)
	assert.Equal(t, color.Orange, c)
	assert.True(t, canonical)
}

func TestCycle(t *testing.T) {
	b := New(Cycle, Deps{})
	require.NoError(t, b.SetPreferences(Options{"1": map[string]any{"duration": 10}}))

	c, canonical := b.Update(color.Red, at(0))
	assert.False(t, canonical)
	assert.Equal(t, color.Red, c)

	// the anchor is fixed, later fallbacks are ignored
	c, _ = b.Update(color.Blue, at(5))
	assert.InDelta(t, 0.5, c.Hue(), 1e-3)
	assert.Equal(t, color.Cyan, c)

	c, _ = b.Update(color.Blue, at(12.5))
	assert.InDelta(t, 0.25, c.Hue(), 1e-3)

	b.Reset()
	c, _ = b.Update(color.Blue, at(20))
	assert.Equal(t, color.Blue, c)
}

func TestCycleKeepsAnchoredBrightness(t *testing.T) {
	b := New(Cycle, Deps{})
	dimRed := color.Color{R: 100}

	b.Update(dimRed, at(0))
	c, _ := b.Update(color.White, at(10.0/3.0))
	assert.InDelta(t, 100.0, c.Value255(), 1)
	assert.InDelta(t, 1.0, c.HSV().S, 1e-9)
}

func TestDisco(t *testing.T) {
	b := New(Disco, Deps{})
	require.NoError(t, b.SetPreferences(Options{"2": map[string]any{
		"bpm":    120,
		"colors": []any{"red", "green", "blue"},
	}}))

	c, canonical := b.Update(color.White, at(0))
	assert.False(t, canonical)
	assert.Equal(t, color.Red, c)

	// exactly one beat is not enough
	c, _ = b.Update(color.White, at(0.5))
	assert.Equal(t, color.Red, c)

	c, _ = b.Update(color.White, at(0.6))
	assert.Equal(t, color.Green, c)

	c, _ = b.Update(color.White, at(0.8))
	assert.Equal(t, color.Green, c)

	c, _ = b.Update(color.White, at(1.2))
	assert.Equal(t, color.Blue, c)

	c, _ = b.Update(color.White, at(1.8))
	assert.Equal(t, color.Red, c)
}

func TestDiscoReconfigureKeepsCursorValid(t *testing.T) {
	b := New(Disco, Deps{})
	b.Update(color.White, at(0))
	for i := 1; i <= 6; i++ {
		b.Update(color.White, at(float64(i)*1.1))
	}

	require.NoError(t, b.SetPreferences(Options{"2": map[string]any{"colors": "white, off"}}))
	c, _ := b.Update(color.White, at(6.7))
	assert.Contains(t, []color.Color{color.White, color.Black}, c)
}

func TestPulse(t *testing.T) {
	b := New(Pulse, Deps{})
	require.NoError(t, b.SetPreferences(Options{"3": map[string]any{"bpm": 60}}))

	c, canonical := b.Update(color.Red, at(0))
	assert.False(t, canonical)
	assert.Equal(t, color.Black, c)

	c, _ = b.Update(color.Red, at(0.5))
	assert.Equal(t, color.Red, c)

	c, _ = b.Update(color.Red, at(0.25))
	assert.InDelta(t, 180, c.Value255(), 1)

	c, _ = b.Update(color.Red, at(1.0))
	assert.Equal(t, color.Black, c)

	// hue and saturation follow the fallback
	c, _ = b.Update(color.Color{R: 10, G: 10, B: 40}, at(1.5))
	assert.InDelta(t, 2.0/3.0, c.Hue(), 1e-3)
	assert.Equal(t, uint8(255), c.B)
}

func TestPulseRejectsUnsupportedWaveform(t *testing.T) {
	b := New(Pulse, Deps{})
	require.NoError(t, b.SetPreferences(Options{"3": map[string]any{"bpm": 30}}))

	err := b.SetPreferences(Options{"3": map[string]any{"bpm": 120, "waveform": "square"}})
	assert.ErrorIs(t, err, ErrUnsupportedWaveform)

	// previous configuration stays in force
	assert.Contains(t, b.Describe(), "bpm:30")
	b.Update(color.Red, at(0))
	c, _ := b.Update(color.Red, at(1))
	assert.Equal(t, color.Red, c)
}

func TestSpooky(t *testing.T) {
	var slept []time.Duration
	random := &scriptedRandom{values: []float64{0.9}}
	b := New(Spooky, Deps{
		Sleep:  func(d time.Duration) { slept = append(slept, d) },
		Random: random.next,
	})
	require.NoError(t, b.SetPreferences(Options{"4": map[string]any{"low_duration": 5, "high_duration": 1.5}}))

	// low: 0.01 + 0.9*0.05
	c, canonical := b.Update(color.White, at(0))
	assert.False(t, canonical)
	assert.Equal(t, color.Color{R: 14, G: 14, B: 14}, c)

	c, _ = b.Update(color.White, at(4))
	assert.Equal(t, color.Color{R: 14, G: 14, B: 14}, c)

	// still low on the tick that flips the state
	c, _ = b.Update(color.White, at(6))
	assert.Equal(t, color.Color{R: 14, G: 14, B: 14}, c)

	// high: 0.2 + 0.9*0.7
	c, _ = b.Update(color.White, at(6.5))
	assert.Equal(t, color.Color{R: 211, G: 211, B: 211}, c)

	b.Update(color.White, at(8))
	c, _ = b.Update(color.White, at(8.5))
	assert.Equal(t, color.Color{R: 14, G: 14, B: 14}, c)

	require.Len(t, slept, 6)
	for _, d := range slept {
		assert.Equal(t, 500*time.Millisecond, d)
	}
}

func TestSpookyStaysLowWhenDrawsFail(t *testing.T) {
	random := &scriptedRandom{values: []float64{0.5}}
	b := New(Spooky, Deps{Sleep: func(time.Duration) {}, Random: random.next})

	for i := 0; i < 20; i++ {
		c, _ := b.Update(color.Red, at(float64(i)))
		assert.Less(t, c.Value255(), 0.06*255)
	}
}

func TestAI(t *testing.T) {
	reader := &status.Static{}
	b := New(AI, Deps{AI: reader})

	c, canonical := b.Update(color.Blue, at(0))
	assert.True(t, canonical)
	assert.Equal(t, color.Blue, c)

	*reader = status.Static{"255 0 0"}
	c, _ = b.Update(color.Blue, at(1))
	assert.Equal(t, color.Red, c)

	// malformed and empty content keep the cached color
	*reader = status.Static{"255 0"}
	c, _ = b.Update(color.Blue, at(2))
	assert.Equal(t, color.Red, c)

	*reader = status.Static{""}
	c, _ = b.Update(color.Blue, at(3))
	assert.Equal(t, color.Red, c)

	b.Reset()
	c, _ = b.Update(color.Green, at(4))
	assert.Equal(t, color.Green, c)
}

func TestAIReadFailureKeepsCache(t *testing.T) {
	b := New(AI, Deps{AI: failingReader{}})
	c, canonical := b.Update(color.Pink, at(0))
	assert.True(t, canonical)
	assert.Equal(t, color.Pink, c)

	b = New(AI, Deps{})
	c, _ = b.Update(color.Pink, at(0))
	assert.Equal(t, color.Pink, c)
}

func TestMech(t *testing.T) {
	now := at(100)
	stamp := func(age int64) string {
		return strconv.FormatInt(now.Unix()-age, 10)
	}
	dark := color.Color{R: 20, G: 20, B: 20}
	bright := color.Color{R: 200, G: 200, B: 200}

	tests := []struct {
		name     string
		lines    status.Reader
		opts     Options
		fallback color.Color
		expected color.Color
	}{
		{name: "fresh_and_dark", lines: status.Static{"0 0 255", stamp(2)}, fallback: dark, expected: color.Blue},
		{name: "threshold_is_inclusive", lines: status.Static{"0 0 255", stamp(2)}, fallback: color.Color{R: 50}, expected: color.Blue},
		{name: "stale", lines: status.Static{"0 0 255", stamp(5)}, fallback: dark, expected: dark},
		{name: "too_bright", lines: status.Static{"0 0 255", stamp(1)}, fallback: bright, expected: bright},
		{
			name:     "bright_allowed",
			lines:    status.Static{"0 0 255", stamp(1)},
			opts:     Options{"6": map[string]any{"only_when_dark": false}},
			fallback: bright,
			expected: color.Blue,
		},
		{
			name:     "longer_timeout",
			lines:    status.Static{"0 0 255", stamp(8)},
			opts:     Options{"6": map[string]any{"timeout": 10}},
			fallback: dark,
			expected: color.Blue,
		},
		{name: "missing_timestamp", lines: status.Static{"0 0 255"}, fallback: dark, expected: dark},
		{name: "bad_timestamp", lines: status.Static{"0 0 255", "soon"}, fallback: dark, expected: dark},
		{name: "bad_color", lines: status.Static{"blue", stamp(1)}, fallback: dark, expected: dark},
		{name: "read_failure", lines: failingReader{}, fallback: dark, expected: dark},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New(Mech, Deps{Mech: tt.lines})
			require.NoError(t, b.SetPreferences(tt.opts))

			c, canonical := b.Update(tt.fallback, now)
			assert.False(t, canonical)
			assert.Equal(t, tt.expected, c)
		})
	}
}
