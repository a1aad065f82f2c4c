// Package bootstrap provides dependency initialization for the bot.
package bootstrap

import (
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/alekseev/mediabot/internal/bot"
	"github.com/alekseev/mediabot/internal/config"
	"github.com/alekseev/mediabot/internal/gateway"
	"github.com/alekseev/mediabot/internal/ledger"
	"github.com/alekseev/mediabot/internal/media"
	"github.com/alekseev/mediabot/internal/monitor"
	"github.com/alekseev/mediabot/internal/pipeline"
	"github.com/alekseev/mediabot/internal/session"
	"github.com/alekseev/mediabot/internal/tempfile"
	"github.com/alekseev/mediabot/internal/upscale"
	"github.com/alekseev/mediabot/internal/workers"
)

// Dependencies holds all initialized dependencies for the bot.
type Dependencies struct {
	API      *tgbotapi.BotAPI
	Handlers *bot.Handlers
	Ledger   *ledger.Store
}

// NewDependencies creates and initializes all dependencies.
// Adapter construction is fail-fast: a missing upscale model aborts
// startup here, before the event loop ever runs.
func NewDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	store, err := ledger.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open usage ledger: %w", err)
	}

	files, err := tempfile.NewManager(cfg.TempDir)
	if err != nil {
		return nil, fmt.Errorf("create temp file manager: %w", err)
	}

	converter, err := media.NewFFmpegConverter("", cfg.MaxVideoDurationSec)
	if err != nil {
		return nil, fmt.Errorf("create video converter: %w", err)
	}

	upscaler, err := upscale.New(
		cfg.ModelDir,
		cfg.ModelName,
		cfg.UpscaleFactor,
		upscale.WithBinary(cfg.UpscaleBinary),
	)
	if err != nil {
		return nil, fmt.Errorf("create upscaler: %w", err)
	}
	logger.Info("upscaler loaded",
		slog.String("model", upscaler.ModelPath()),
		slog.String("device", string(upscaler.Device())),
		slog.Int("scale", upscaler.Scale()),
	)

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create telegram client: %w", err)
	}

	gw := gateway.NewTelegram(api)
	sessions := session.NewStore()
	mon := monitor.New()

	pool := workers.NewPool(poolSize(cfg))
	logger.Info("worker pool sized",
		slog.Int("slots", pool.Size()),
	)

	proc := pipeline.NewProcessor(
		gw,
		converter,
		upscaler,
		store,
		sessions,
		files,
		pool,
		mon,
		logger,
		cfg.AdminID,
		pipeline.Limits{
			MaxVideoBytes: cfg.MaxVideoBytes(),
			MaxImageBytes: cfg.MaxImageBytes(),
		},
	)

	handlers := bot.NewHandlers(
		gw,
		proc,
		sessions,
		store,
		mon,
		logger,
		cfg.AdminID,
		cfg.MaxVideoSizeMB,
		cfg.MaxVideoDurationSec,
	)

	return &Dependencies{
		API:      api,
		Handlers: handlers,
		Ledger:   store,
	}, nil
}

// poolSize returns the configured pool size, or a CPU-derived default for
// encode/inference work when MAX_CONCURRENT_JOBS is unset.
func poolSize(cfg *config.Config) int {
	if cfg.MaxConcurrentJobs > 0 {
		return cfg.MaxConcurrentJobs
	}
	return workers.ForCPU(8)
}
