// Package main provides the entry point for the media bot.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/alekseev/mediabot/internal/bootstrap"
	"github.com/alekseev/mediabot/internal/bot"
	"github.com/alekseev/mediabot/internal/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env if present; real environments set variables directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Create structured logger
	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting media bot",
		slog.Int64("admin_id", cfg.AdminID),
		slog.String("log_format", cfg.LogFormat),
		slog.String("log_level", cfg.LogLevel),
		slog.String("temp_dir", cfg.TempDir),
		slog.String("db_path", cfg.DBPath),
		slog.Int("max_video_size_mb", cfg.MaxVideoSizeMB),
		slog.Int("max_video_duration_sec", cfg.MaxVideoDurationSec),
		slog.Int("max_image_size_mb", cfg.MaxImageSizeMB),
		slog.Int("upscale_factor", cfg.UpscaleFactor),
	)

	// Initialize dependencies; a missing model aborts startup here.
	deps, err := bootstrap.NewDependencies(cfg, logger)
	if err != nil {
		return fmt.Errorf("initialize dependencies: %w", err)
	}
	defer func() { _ = deps.Ledger.Close() }()

	// Stop polling on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bot.Run(ctx, deps.API, deps.Handlers, logger)

	logger.Info("bot stopped gracefully")
	return nil
}
