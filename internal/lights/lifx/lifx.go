// Package lifx drives a LIFX group as a single light.
package lifx

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/pdf/golifx"
	"github.com/pdf/golifx/common"
	"github.com/pdf/golifx/protocol"
	"go.uber.org/zap"

	"github.com/scheerer/ambient-lights/internal/color"
	"github.com/scheerer/ambient-lights/internal/logging"
)

var logger = logging.New("lifx")

// ErrNoGroup is returned while the configured group has not been discovered.
var ErrNoGroup = errors.New("lifx group not discovered")

const (
	kelvin            = 3500
	discoveryInterval = 15 * time.Second
	discoveryTimeout  = 5 * time.Second
)

// Group is the part of common.Group the driver needs.
type Group interface {
	SetColor(color common.Color, duration time.Duration) error
}

type Config struct {
	GroupName string
	// Fade is the transition the bulbs run for every write.
	Fade time.Duration
}

type LifxLights struct {
	config Config
	client *golifx.Client
	cancel context.CancelFunc

	groupMu sync.RWMutex
	group   Group
}

func NewLifx(ctx context.Context, config Config) (*LifxLights, error) {
	client, err := golifx.NewClient(&protocol.V2{})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	l := &LifxLights{
		config: config,
		client: client,
		cancel: cancel,
	}
	go l.start(ctx)
	return l, nil
}

func (l *LifxLights) start(ctx context.Context) {
	ticker := time.NewTicker(discoveryInterval)
	defer ticker.Stop()

	l.client.SetDiscoveryInterval(discoveryInterval)

	for {
		if !l.discovered() {
			ctxWithTimeout, cancel := context.WithTimeout(ctx, discoveryTimeout)
			l.discover(ctxWithTimeout)
			cancel()
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return
		}
	}
}

func (l *LifxLights) discovered() bool {
	l.groupMu.RLock()
	defer l.groupMu.RUnlock()
	return l.group != nil
}

func (l *LifxLights) discover(ctx context.Context) {
	logger.With(zap.String("group", l.config.GroupName)).Info("LIFX discovery starting...")

	type result struct {
		group common.Group
		err   error
	}
	completed := make(chan result, 1)

	go func() {
		g, err := l.client.GetGroupByLabel(l.config.GroupName)
		completed <- result{group: g, err: err}
	}()

	select {
	case <-ctx.Done():
		logger.With(zap.Error(ctx.Err())).Warn("LIFX discovery timed out.")
	case r := <-completed:
		if r.err != nil || r.group == nil {
			logger.With(zap.Error(r.err)).Warn("Couldn't discover group.")
			return
		}
		logger.With(zap.String("group", r.group.GetLabel())).Info("LIFX group found")
		l.setGroup(r.group)
	}
}

func (l *LifxLights) setGroup(g Group) {
	l.groupMu.Lock()
	l.group = g
	l.groupMu.Unlock()
}

func (l *LifxLights) Name() string {
	return "lifx"
}

func (l *LifxLights) Write(_ context.Context, c color.Color) error {
	l.groupMu.RLock()
	g := l.group
	l.groupMu.RUnlock()
	if g == nil {
		return ErrNoGroup
	}

	lifxColor := newLifxColor(c)
	logger.With(zap.Stringer("color", c), zap.Any("lifxColor", lifxColor)).Debug("Setting LIFX group color")

	return g.SetColor(lifxColor, l.config.Fade)
}

func (l *LifxLights) Close() error {
	l.cancel()
	if l.client == nil {
		return nil
	}
	return l.client.Close()
}

func newLifxColor(c color.Color) common.Color {
	hsv := c.HSV()
	lifxColor := common.Color{
		Hue:        scale(hsv.H),
		Saturation: scale(hsv.S),
		Brightness: scale(hsv.V),
		Kelvin:     kelvin,
	}

	blackThreshold := 0.015 * 0xFFFF
	if lifxColor.Brightness <= uint16(blackThreshold) && lifxColor.Saturation <= uint16(blackThreshold) {
		// blackish color - turn off the light
		return common.Color{Kelvin: kelvin}
	}
	return lifxColor
}

func scale(f float64) uint16 {
	return uint16(color.Clamp(f, 0, 1) * 0xFFFF)
}
