// Command moonshot is the entry point for the moonshot scanner. It loads
// configuration, validates it, wires dependencies, sets up signal handling,
// and starts the application in the configured mode.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alanyoungcy/moonshotbot/internal/app"
	"github.com/alanyoungcy/moonshotbot/internal/config"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to configuration file")
	mode := flag.String("mode", "", "operating mode: scan, watch, server, full (overrides config)")
	capital := flag.Float64("capital", 0, "starting capital in USD (overrides config)")
	target := flag.Float64("target", 0, "target amount in USD (overrides config)")
	maxPrice := flag.Float64("max-price", 0, "maximum YES price to consider (overrides config)")
	minVolume := flag.Float64("min-volume", 0, "minimum market volume in USD (overrides config)")
	flag.Parse()

	// Structured JSON logs on stderr so the scan dashboard owns stdout.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config",
			slog.String("path", *configPath),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	// Flag overrides take precedence over both the TOML file and environment
	// variables.
	if *mode != "" {
		cfg.Mode = *mode
	}
	if *capital > 0 {
		cfg.Moonshot.StartingCapital = *capital
	}
	if *target > 0 {
		cfg.Moonshot.Target = *target
	}
	if *maxPrice > 0 {
		cfg.Moonshot.MaxPrice = *maxPrice
	}
	if *minVolume > 0 {
		cfg.Moonshot.MinVolume = *minVolume
	}

	// Set log level from config.
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("moonshot scanner starting",
		slog.String("mode", cfg.Mode),
		slog.String("config", *configPath),
	)

	application := app.New(cfg, logger)
	defer application.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		// context.Canceled is expected on clean shutdown.
		if errors.Is(err, context.Canceled) {
			logger.Info("application shut down gracefully")
		} else {
			logger.Error("application exited with error",
				slog.String("error", err.Error()),
			)
			fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
			os.Exit(1)
		}
	}

	logger.Info("moonshot scanner stopped")
}
