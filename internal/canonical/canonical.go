// Package canonical records the colors the behaviour engine marks as
// canonical, for schedule learning and for other consumers on the network.
package canonical

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/scheerer/ambient-lights/internal/color"
	"github.com/scheerer/ambient-lights/internal/logging"
)

var logger = logging.New("canonical")

type Sink interface {
	Record(ctx context.Context, c color.Color, at time.Time) error
}

// FileSink rewrites a status file with the latest canonical color.
type FileSink struct {
	Path string
}

func NewFileSink(dir, name string) *FileSink {
	return &FileSink{Path: filepath.Join(dir, name)}
}

func (f *FileSink) Record(_ context.Context, c color.Color, _ time.Time) error {
	tmp := f.Path + ".tmp"
	if err := os.WriteFile(tmp, []byte(c.String()+"\n"), 0o644); err != nil {
		return fmt.Errorf("write canonical color: %w", err)
	}
	if err := os.Rename(tmp, f.Path); err != nil {
		return fmt.Errorf("write canonical color: %w", err)
	}
	return nil
}

// Multi records to every sink, continuing past failures.
type Multi []Sink

func (m Multi) Record(ctx context.Context, c color.Color, at time.Time) error {
	var errs []error
	for _, s := range m {
		if err := s.Record(ctx, c, at); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		logger.Debugf("%d of %d canonical sinks failed", len(errs), len(m))
	}
	return errors.Join(errs...)
}
