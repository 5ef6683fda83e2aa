package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"codeberg.org/mutker/wheelspeed/internal/config"
	"codeberg.org/mutker/wheelspeed/internal/errors"
	"codeberg.org/mutker/wheelspeed/internal/gpio"
	"codeberg.org/mutker/wheelspeed/internal/logger"
	"codeberg.org/mutker/wheelspeed/internal/pid"
	"codeberg.org/mutker/wheelspeed/internal/sensor"
	"codeberg.org/mutker/wheelspeed/internal/shutdown"
	"codeberg.org/mutker/wheelspeed/internal/status"
	"github.com/spf13/pflag"
	"github.com/zoobzio/capitan"
)

func main() {
	os.Exit(run())
}

func run() int {
	started := time.Now()

	cfg, err := config.Load("wheelspeed", os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return 1
	}

	logger.Init(cfg.LogLevel, logger.IsService())
	log := logger.Default()
	log.Debug().Interface("config", cfg).Msg("Config loaded")

	pidPath := pid.Path()
	if err := pid.Write(pidPath); err != nil {
		logError(err, "Failed to write PID file")
		return 1
	}
	defer func() {
		if err := pid.Remove(pidPath); err != nil {
			logError(err, "Failed to remove PID file")
		}
	}()

	writer, err := status.NewFileWriter(cfg.StatusPath)
	if err != nil {
		logError(err, "Invalid status path")
		return 1
	}
	publisher := status.NewPublisher(writer, log)

	coordinator := shutdown.New(context.Background(), log)
	defer coordinator.Close()
	coordinator.Listen()

	events := capitan.Default()
	hookSignals(events, log)

	s := sensor.New(sensorConfig(cfg), gpio.NewOpener(log), publisher,
		sensor.WithLogger(log),
		sensor.WithEvents(events),
		sensor.WithStartTime(started),
	)
	runErr := s.Run(coordinator.Context())

	// Flush everything queued, the final running=false snapshot included.
	publisher.Close()
	events.Shutdown()

	if runErr != nil {
		logError(runErr, "Sensing loop failed")
		return 1
	}

	if !coordinator.Requested() {
		log.Warn().Msg("Sensing loop stopped without a shutdown request")
	}
	log.Info().Msg("Exiting...")
	return 0
}

func sensorConfig(cfg *config.Config) sensor.Config {
	return sensor.Config{
		Line: gpio.Config{
			Chip:     cfg.Chip,
			Offset:   cfg.Line,
			Debounce: cfg.Debounce,
		},
		Timeout: cfg.Timeout,
		Window:  cfg.Window,
	}
}

// hookSignals mirrors sensor lifecycle signals into the debug log.
func hookSignals(events *capitan.Capitan, log logger.Logger) {
	events.Hook(sensor.SensorStarted, func(_ context.Context, e *capitan.Event) {
		line, _ := sensor.KeyLine.From(e)
		log.Debug().Int("line", line).Msg("Sensor started")
	})

	events.Hook(sensor.RotationDetected, func(_ context.Context, e *capitan.Event) {
		count, _ := sensor.KeyCount.From(e)
		log.Debug().Int("count", count).Msg("Sensor reported rotation")
	})

	events.Hook(sensor.RotationStopped, func(_ context.Context, e *capitan.Event) {
		count, _ := sensor.KeyCount.From(e)
		log.Debug().Int("count", count).Msg("Sensor reported stop")
	})

	events.Hook(sensor.SensorTerminated, func(_ context.Context, e *capitan.Event) {
		if msg, ok := sensor.KeyError.From(e); ok {
			log.Debug().Str("error", msg).Msg("Sensor terminated with error")
			return
		}
		log.Debug().Msg("Sensor terminated")
	})
}

func logError(err error, msg string) {
	var appErr errors.Error
	if errors.As(err, &appErr) {
		logger.ErrorWithCode(appErr).Msg(msg)
		return
	}
	logger.Error().Err(err).Msg(msg)
}
