package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/echoaio/aio"
)

// Options for the CLI.
type Options struct {
	Port    string `help:"Address to listen on" short:"p" default:":8070" env:"AIOD_PORT"`
	Library string `help:"Path to the EchoAIOInterface shared library" env:"AIOD_LIBRARY"`
	Preset  string `help:"Preset file applied at startup and re-applied on change" env:"AIOD_PRESET"`

	PollInterval string `help:"Connection poll interval" default:"1s" env:"AIOD_POLL_INTERVAL"`

	AuthUsername string `help:"Basic auth username" env:"AIOD_AUTH_USERNAME"`
	AuthPassword string `help:"Basic auth password" env:"AIOD_AUTH_PASSWORD"`

	LoggingLevel  string `help:"Logging level (debug, info, warn, error)" default:"info" env:"AIOD_LOGGING_LEVEL"`
	LoggingFormat string `help:"Logging format (text, json)" default:"text" env:"AIOD_LOGGING_FORMAT"`
}

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, opts *Options) {
		logger := newLogger(opts.LoggingLevel, opts.LoggingFormat)

		interval, err := time.ParseDuration(opts.PollInterval)
		if err != nil {
			logger.Warn("invalid poll interval, using default", "value", opts.PollInterval)
			interval = time.Second
		}

		dev, err := aio.OpenPath(opts.Library)
		if err != nil {
			logger.Error("failed to open device", "error", err)
			os.Exit(1)
		}

		logger.Info("device opened",
			"product", dev.Product(),
			"serial", dev.SerialNumber(),
			"firmware", dev.FirmwareVersion(),
			"inputs", dev.NumInputs(),
			"outputs", dev.NumOutputs())

		m := newMetrics()
		srv := newServer(dev, m, logger, opts)

		ctx, cancel := context.WithCancel(context.Background())

		hooks.OnStart(func() {
			if opts.Preset != "" {
				applyStartupPreset(opts.Preset, dev, logger)

				go func() {
					if watchErr := aio.WatchPreset(ctx, opts.Preset, dev, logger); watchErr != nil &&
						!errors.Is(watchErr, context.Canceled) {
						logger.Error("preset watch stopped", "error", watchErr)
					}
				}()
			}

			go runMonitor(ctx, dev, interval, m, logger)

			if _, notifyErr := daemon.SdNotify(false, daemon.SdNotifyReady); notifyErr != nil {
				logger.Warn("systemd notify failed", "error", notifyErr)
			}

			if startErr := srv.Start(opts.Port); startErr != nil && !errors.Is(startErr, http.ErrServerClosed) {
				logger.Error("failed to start HTTP server", "error", startErr)
				os.Exit(1)
			}
		})

		hooks.OnStop(func() {
			logger.Info("shutting down")

			if _, notifyErr := daemon.SdNotify(false, daemon.SdNotifyStopping); notifyErr != nil {
				logger.Warn("systemd notify failed", "error", notifyErr)
			}

			cancel()

			if stopErr := srv.Stop(); stopErr != nil {
				logger.Error("error stopping HTTP server", "error", stopErr)
			}

			if closeErr := dev.Close(); closeErr != nil {
				logger.Error("error closing device", "error", closeErr)
			}
		})
	})

	cli.Run()
}

// newLogger builds the process logger from the logging options.
func newLogger(level, format string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}

	handlerOpts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger
}

// applyStartupPreset loads and applies the preset once; failures are
// logged but do not prevent startup.
func applyStartupPreset(path string, dev *aio.Device, logger *slog.Logger) {
	preset, err := aio.LoadPreset(path)
	if err != nil {
		logger.Warn("failed to load startup preset", "path", path, "error", err)

		return
	}

	if err := preset.Apply(dev); err != nil {
		logger.Warn("failed to apply startup preset", "path", path, "error", err)

		return
	}

	logger.Info("startup preset applied", "path", path, "name", preset.Name)
}

// runMonitor polls the connection state, feeding the gauge and the log
// until ctx is canceled.
func runMonitor(ctx context.Context, dev *aio.Device, interval time.Duration, m *metrics, logger *slog.Logger) {
	events := make(chan aio.ConnectionEvent, 1)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-events:
				m.setConnected(ev.Connected)
				m.transitions.Inc()
				logger.Info("connection state changed", "connected", ev.Connected, "at", ev.At.Format(time.RFC3339))

				status := "STATUS=unit disconnected"
				if ev.Connected {
					status = "STATUS=unit connected"
				}

				_, _ = daemon.SdNotify(false, status)
			}
		}
	}()

	monitor := aio.NewMonitor(dev, interval)
	if err := monitor.Run(ctx, events); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("connection monitor stopped", "error", err)
	}
}
