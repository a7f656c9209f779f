package lights

import (
	"context"

	"go.uber.org/zap"

	"github.com/scheerer/ambient-lights/internal/color"
	"github.com/scheerer/ambient-lights/internal/logging"
)

var logger = logging.New("lights")

// Driver pushes a final color to the hardware.
type Driver interface {
	Name() string
	Write(ctx context.Context, c color.Color) error
	Close() error
}

// LogDriver only logs the colors it is given. Useful without hardware.
type LogDriver struct{}

func (LogDriver) Name() string {
	return "log"
}

func (LogDriver) Write(_ context.Context, c color.Color) error {
	logger.With(zap.Stringer("color", c)).Info("Setting color")
	return nil
}

func (LogDriver) Close() error {
	return nil
}
