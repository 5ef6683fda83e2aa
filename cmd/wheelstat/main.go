package main

import (
	"context"
	"fmt"
	"os"

	"codeberg.org/mutker/wheelspeed/internal/config"
	"codeberg.org/mutker/wheelspeed/internal/errors"
	"codeberg.org/mutker/wheelspeed/internal/logger"
	"codeberg.org/mutker/wheelspeed/internal/shutdown"
	"codeberg.org/mutker/wheelspeed/internal/status"
	"github.com/spf13/pflag"
)

// wheelstat prints the wheel speed status file each time the sensor rewrites it.
func main() {
	cfg, err := config.Load("wheelstat", os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.LogLevel, logger.IsService())
	log := logger.Default()

	coordinator := shutdown.New(context.Background(), log)
	defer coordinator.Close()
	coordinator.Listen()

	snapshots, err := status.NewWatcher(cfg.StatusPath, log).Watch(coordinator.Context())
	if err != nil {
		logger.Error().Err(err).Str("path", cfg.StatusPath).Msg("Failed to watch status file")
		os.Exit(1)
	}

	for snapshot := range snapshots {
		fmt.Println(format(snapshot))
	}
}

func format(s status.Snapshot) string {
	state := "running"
	if !s.Running {
		state = "stopped"
	}

	return fmt.Sprintf("%6.1f RPM  count=%d  uptime=%ds  sensor=%s", s.RPM, s.Count, s.Timestamp, state)
}
