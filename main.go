package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/scheerer/ambient-lights/internal/app"
	"github.com/scheerer/ambient-lights/internal/behaviour"
	"github.com/scheerer/ambient-lights/internal/canonical"
	"github.com/scheerer/ambient-lights/internal/config"
	"github.com/scheerer/ambient-lights/internal/history"
	"github.com/scheerer/ambient-lights/internal/lights"
	"github.com/scheerer/ambient-lights/internal/lights/lifx"
	"github.com/scheerer/ambient-lights/internal/lights/pwm"
	"github.com/scheerer/ambient-lights/internal/lights/ws281x"
	"github.com/scheerer/ambient-lights/internal/logging"
	"github.com/scheerer/ambient-lights/internal/mqtt"
	"github.com/scheerer/ambient-lights/internal/prefs"
	"github.com/scheerer/ambient-lights/internal/screen"
	"github.com/scheerer/ambient-lights/internal/status"
)

var logger = logging.New("main")

func main() {
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.With(zap.Error(err)).Fatal("Failed to parse environment variables")
	}

	var once bool
	pflag.StringVar(&cfg.StatusDir, "status-dir", cfg.StatusDir, "directory holding the ambient, prefs and override files")
	pflag.StringVar(&cfg.Driver, "driver", cfg.Driver, "output driver: LOG, PWM, WS281X or LIFX")
	pflag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn or error")
	pflag.BoolVar(&once, "once", false, "run a single tick and exit")
	pflag.Parse()

	cfg.Driver = strings.ToUpper(cfg.Driver)
	if err := cfg.Validate(); err != nil {
		logger.With(zap.Error(err)).Fatal("Invalid configuration")
	}
	if err := logging.SetLevelText(cfg.LogLevel); err != nil {
		logger.With(zap.Error(err)).Fatal("Invalid log level")
	}

	logger.With(zap.Any("config", cfg)).Info("Starting ambient lights")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := newDriver(ctx, cfg)
	defer func() {
		if err := out.Close(); err != nil {
			logger.With(zap.Error(err)).Warn("Failed to close driver")
		}
	}()

	sinks, closeSinks := newCanonicalSinks(ctx, cfg)
	defer closeSinks()

	orchestrator := app.New(app.Components{
		Preferences: func() (prefs.Preferences, error) {
			return prefs.Load(filepath.Join(cfg.StatusDir, status.PrefsFile))
		},
		Ambient: newAmbientSource(cfg),
		Behaviours: behaviour.Deps{
			AI:   status.NewFile(cfg.StatusDir, status.AIFile),
			Mech: status.NewFile(cfg.StatusDir, status.MechFile),
		},
		Canonical:  sinks,
		Controller: lights.NewController(out, prefs.Default()),
	})

	if once {
		if err := orchestrator.Tick(ctx); err != nil {
			logger.With(zap.Error(err)).Error("Tick failed")
		}
		return
	}

	logger.Info("Press Ctrl+C to stop")
	done := make(chan struct{})
	go func() {
		orchestrator.Run(ctx, cfg.PollInterval)
		close(done)
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	<-shutdown
	logger.Info("Shutting down")
	cancel()
	<-done

	offCtx, offCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer offCancel()
	if err := orchestrator.Shutdown(offCtx); err != nil {
		logger.With(zap.Error(err)).Warn("Failed to turn lights off")
	}
}

func newDriver(ctx context.Context, cfg config.Config) lights.Driver {
	switch cfg.Driver {
	case config.DriverPWM:
		pc := pwm.DefaultConfig()
		pc.RedPin, pc.GreenPin, pc.BluePin = cfg.RedPin, cfg.GreenPin, cfg.BluePin
		strip, err := pwm.New(pc)
		if err != nil {
			logger.With(zap.Error(err)).Fatal("Failed to create PWM driver")
		}
		return strip
	case config.DriverWS281x:
		strip, err := ws281x.New(ws281x.Config{
			GpioPin:    cfg.StripPin,
			LedCount:   cfg.StripLedCount,
			Brightness: cfg.StripBrightness,
		})
		if err != nil {
			logger.With(zap.Error(err)).Fatal("Failed to create WS281x driver")
		}
		return strip
	case config.DriverLIFX:
		l, err := lifx.NewLifx(ctx, lifx.Config{
			GroupName: cfg.LightGroupName,
			Fade:      cfg.LifxFade,
		})
		if err != nil {
			logger.With(zap.Error(err)).Fatal("Failed to create LIFX driver")
		}
		return l
	default:
		return lights.LogDriver{}
	}
}

func newAmbientSource(cfg config.Config) status.AmbientSource {
	if cfg.AmbientSource != config.AmbientScreen {
		return status.NewAmbientReader(status.NewFile(cfg.StatusDir, status.AmbientFile))
	}

	src, err := screen.NewSource(screen.Config{
		Display:       cfg.ScreenNumber,
		PixelGridSize: cfg.PixelGridSize,
		Algorithm:     cfg.ColorAlgo,
	})
	if err != nil {
		logger.With(zap.Error(err)).Fatal("Failed to create screen source")
	}
	return src
}

func newCanonicalSinks(ctx context.Context, cfg config.Config) (canonical.Multi, func()) {
	sinks := canonical.Multi{canonical.NewFileSink(cfg.StatusDir, status.CanonicalFile)}
	var closers []func() error

	if cfg.HistoryPath != "" {
		store, err := history.Open(cfg.HistoryPath)
		if err != nil {
			logger.With(zap.Error(err)).Fatal("Failed to open usage history")
		}
		sinks = append(sinks, store)
		closers = append(closers, store.Close)
	}

	if cfg.MQTTBroker != "" {
		client := mqtt.NewClient(mqtt.Config{
			Broker:   cfg.MQTTBroker,
			ClientID: cfg.MQTTClientID,
			Username: cfg.MQTTUser,
			Password: cfg.MQTTPassword,
		})
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		if err := client.Connect(connectCtx); err != nil {
			logger.With(zap.Error(err)).Warn("MQTT broker not reachable yet, retrying in the background")
		}
		cancel()
		publisher := mqtt.NewPublisher(client, cfg.MQTTPrefix)
		sinks = append(sinks, publisher)
		closers = append(closers, publisher.Close)
	}

	return sinks, func() {
		for _, c := range closers {
			if err := c(); err != nil {
				logger.With(zap.Error(err)).Warn("Failed to close canonical sink")
			}
		}
	}
}
