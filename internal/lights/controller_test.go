package lights

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scheerer/ambient-lights/internal/color"
	"github.com/scheerer/ambient-lights/internal/prefs"
)

type recordingDriver struct {
	writes []color.Color
	err    error
}

func (d *recordingDriver) Name() string { return "recording" }

func (d *recordingDriver) Write(_ context.Context, c color.Color) error {
	if d.err != nil {
		return d.err
	}
	d.writes = append(d.writes, c)
	return nil
}

func (d *recordingDriver) Close() error { return nil }

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) set(seconds float64) {
	c.t = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(seconds * float64(time.Second)))
}

func direct() prefs.Preferences {
	p := prefs.Default()
	p.Interpolate = false
	return p
}

func TestControllerRestrictsBrightness(t *testing.T) {
	p := direct()
	p.MinBrightness = 10
	p.MaxBrightness = 80
	driver := &recordingDriver{}
	c := NewController(driver, p)

	require.NoError(t, c.SetColor(context.Background(), color.White))
	require.NoError(t, c.SetColor(context.Background(), color.Black))
	require.NoError(t, c.SetColor(context.Background(), color.Color{R: 100}))

	require.Len(t, driver.writes, 3)
	// 0.8 * 255
	assert.Equal(t, color.Color{R: 204, G: 204, B: 204}, driver.writes[0])
	// 0.1 * 255
	assert.Equal(t, color.Color{R: 25, G: 25, B: 25}, driver.writes[1])
	// inside the range, unchanged
	assert.Equal(t, color.Color{R: 100}, driver.writes[2])
}

func TestControllerSuppressesRepeatedWrites(t *testing.T) {
	driver := &recordingDriver{}
	c := NewController(driver, direct())

	for i := 0; i < 5; i++ {
		require.NoError(t, c.SetColor(context.Background(), color.Red))
	}
	assert.Equal(t, []color.Color{color.Red}, driver.writes)
	assert.Equal(t, color.Red, c.Previous())

}

func TestControllerAlwaysWritesFirstColor(t *testing.T) {
	driver := &recordingDriver{}
	c := NewController(driver, direct())

	// lights left on by an earlier run must be switched off
	require.NoError(t, c.SetColor(context.Background(), color.Black))
	require.NoError(t, c.SetColor(context.Background(), color.Black))
	assert.Equal(t, []color.Color{color.Black}, driver.writes)
}

func TestControllerMorphsBetweenDistantHues(t *testing.T) {
	clock := &fakeClock{}
	p := prefs.Default()
	p.ChangeDuration = 2 * time.Second
	driver := &recordingDriver{}
	c := NewController(driver, p, WithClock(clock.now))
	ctx := context.Background()

	clock.set(0)
	require.NoError(t, c.SetColor(ctx, color.Red))
	// fading up from black starts dark
	assert.Equal(t, []color.Color{color.Black}, driver.writes)

	clock.set(2)
	require.NoError(t, c.SetColor(ctx, color.Red))
	require.Equal(t, []color.Color{color.Black, color.Red}, driver.writes)

	require.NoError(t, c.SetColor(ctx, color.Green))
	assert.Len(t, driver.writes, 2)

	clock.set(3)
	require.NoError(t, c.SetColor(ctx, color.Green))
	require.Len(t, driver.writes, 3)
	mid := driver.writes[2].Hue()
	assert.Greater(t, mid, color.Red.Hue())
	assert.Less(t, mid, color.Green.Hue())

	clock.set(4)
	require.NoError(t, c.SetColor(ctx, color.Green))
	assert.Equal(t, color.Green, driver.writes[len(driver.writes)-1])

	// session finished: repeating the target is a no-op
	clock.set(4.1)
	writes := len(driver.writes)
	require.NoError(t, c.SetColor(ctx, color.Green))
	assert.Len(t, driver.writes, writes)
}

func TestControllerStartsFreshTransitionAfterCompletion(t *testing.T) {
	clock := &fakeClock{}
	p := prefs.Default()
	p.ChangeDuration = time.Second
	driver := &recordingDriver{}
	c := NewController(driver, p, WithClock(clock.now))
	ctx := context.Background()

	clock.set(0)
	require.NoError(t, c.SetColor(ctx, color.Blue))
	clock.set(1)
	require.NoError(t, c.SetColor(ctx, color.Blue))
	assert.Equal(t, color.Blue, c.Previous())

	// a new target one minute later starts from zero progress
	clock.set(61)
	require.NoError(t, c.SetColor(ctx, color.Red))
	assert.Equal(t, color.Blue, c.Previous())

	clock.set(61.5)
	require.NoError(t, c.SetColor(ctx, color.Red))
	assert.NotEqual(t, color.Red, c.Previous())

	clock.set(62)
	require.NoError(t, c.SetColor(ctx, color.Red))
	assert.Equal(t, color.Red, c.Previous())
}

func TestControllerEndsTransitionWhenBlendReachesTarget(t *testing.T) {
	clock := &fakeClock{}
	p := prefs.Default()
	p.ChangeDuration = 2 * time.Second
	driver := &recordingDriver{}
	c := NewController(driver, p, WithClock(clock.now))
	ctx := context.Background()
	dim := color.Color{R: 11}
	dimmer := color.Color{R: 10}

	clock.set(0)
	require.NoError(t, c.SetColor(ctx, dim))
	clock.set(2)
	require.NoError(t, c.SetColor(ctx, dim))
	require.Equal(t, dim, c.Previous())

	// a one step dim is reached by the blend well before the duration ends
	clock.set(10)
	require.NoError(t, c.SetColor(ctx, dimmer))
	clock.set(10.2)
	require.NoError(t, c.SetColor(ctx, dimmer))
	require.Equal(t, dimmer, c.Previous())

	// a later change fades from the start instead of reusing the old timer
	clock.set(100)
	require.NoError(t, c.SetColor(ctx, color.Blue))
	assert.NotEqual(t, color.Blue, c.Previous())

	clock.set(101)
	require.NoError(t, c.SetColor(ctx, color.Blue))
	assert.NotEqual(t, color.Blue, c.Previous())

	clock.set(102)
	require.NoError(t, c.SetColor(ctx, color.Blue))
	assert.Equal(t, color.Blue, c.Previous())
}

func TestControllerDurationFloor(t *testing.T) {
	clock := &fakeClock{}
	p := prefs.Default()
	p.ChangeDuration = 0
	driver := &recordingDriver{}
	c := NewController(driver, p, WithClock(clock.now))

	clock.set(0)
	require.NoError(t, c.SetColor(context.Background(), color.White))
	clock.set(0.25)
	require.NoError(t, c.SetColor(context.Background(), color.White))
	assert.NotEqual(t, color.White, c.Previous())
	clock.set(0.5)
	require.NoError(t, c.SetColor(context.Background(), color.White))
	assert.Equal(t, color.White, c.Previous())
}

func TestControllerDriverError(t *testing.T) {
	driver := &recordingDriver{err: errors.New("bus fault")}
	c := NewController(driver, direct())

	err := c.SetColor(context.Background(), color.Red)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recording driver")
	assert.Equal(t, color.Black, c.Previous())

	driver.err = nil
	require.NoError(t, c.SetColor(context.Background(), color.Red))
	assert.Equal(t, []color.Color{color.Red}, driver.writes)
}
