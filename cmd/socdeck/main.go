package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/bnema/socdeck/internal/cli"
	"github.com/bnema/socdeck/internal/config"
	"github.com/bnema/socdeck/internal/logging"
	"github.com/bnema/socdeck/internal/ui"
)

// Build-time variables (set via ldflags).
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	rootCmd := cli.NewRootCmd(cli.BuildInfo{
		Version:   version,
		Commit:    commit,
		BuildDate: buildDate,
	}, runGUI)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runGUI() int {
	// GTK requires its main loop on the thread that initialized it.
	runtime.LockOSThread()

	cfgManager, err := config.NewManager()
	if err != nil {
		fmt.Fprintf(os.Stderr, "socdeck: %v\n", err)
		return 1
	}
	if err := cfgManager.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "socdeck: %v\n", err)
		return 1
	}
	cfg := cfgManager.Get()

	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	ctx := logging.WithContext(context.Background(), logger)

	// GTK and WebKit write warnings straight to the process fds; fold them
	// into the structured log.
	capture := logging.NewOutputCapture(logger)
	if err := capture.Start(); err != nil {
		logger.Warn().Err(err).Msg("native output capture unavailable")
	} else {
		defer capture.Stop()
	}

	logger.Info().Str("version", version).Msg("starting socdeck")
	return ui.New(ctx, cfgManager, version).Run()
}
