package canonical

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scheerer/ambient-lights/internal/color"
)

type recordingSink struct {
	colors []color.Color
	err    error
}

func (s *recordingSink) Record(_ context.Context, c color.Color, _ time.Time) error {
	s.colors = append(s.colors, c)
	return s.err
}

func TestFileSink(t *testing.T) {
	dir := t.TempDir()
	sink := NewFileSink(dir, "canonical")

	require.NoError(t, sink.Record(context.Background(), color.Orange, time.Now()))
	require.NoError(t, sink.Record(context.Background(), color.Cyan, time.Now()))

	data, err := os.ReadFile(filepath.Join(dir, "canonical"))
	require.NoError(t, err)
	assert.Equal(t, "0 255 255\n", string(data))
}

func TestFileSinkMissingDir(t *testing.T) {
	sink := NewFileSink(filepath.Join(t.TempDir(), "missing"), "canonical")
	assert.Error(t, sink.Record(context.Background(), color.Red, time.Now()))
}

func TestMultiContinuesPastFailures(t *testing.T) {
	boom := errors.New("boom")
	first := &recordingSink{err: boom}
	second := &recordingSink{}

	err := Multi{first, second}.Record(context.Background(), color.Red, time.Now())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []color.Color{color.Red}, first.colors)
	assert.Equal(t, []color.Color{color.Red}, second.colors)

	assert.NoError(t, Multi{}.Record(context.Background(), color.Red, time.Now()))
}
