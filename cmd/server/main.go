// Command server runs the personnel REST backend over a sqlite store.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"personnel/internal/server/app"
	"personnel/internal/server/config"
	"personnel/internal/shared/logging"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger, err := logging.New(logging.Options{
		Level:       cfg.LogLevel,
		Development: cfg.LogFormat == "console",
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	application, err := app.New(version, buildDate, cfg, logger)
	if err != nil {
		logger.Fatal("failed to init server", zap.Error(err))
	}
	if err := application.Run(); err != nil {
		logger.Error("server stopped with error", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}
