package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Sosisya/films-api/internal/app"
	"github.com/Sosisya/films-api/internal/config"
	"github.com/Sosisya/films-api/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "films harvester: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.InfoObj("movie harvester starting", "settings", cfg.StartupFields())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	harvester, err := app.NewHarvester(ctx, cfg, log)
	if err != nil {
		logger.ErrorObj("movie harvester init failed", "harvester_error", map[string]any{
			"feeds_file":      cfg.FeedsFile,
			"publishers_file": cfg.PublishersFile,
			"error":           err.Error(),
		})
		return err
	}

	if err := harvester.Run(ctx); err != nil {
		return fmt.Errorf("harvest movie feeds: %w", err)
	}

	logger.InfoObj("movie harvester stopped", "settings", map[string]any{"app_name": cfg.AppName})
	return nil
}
