// Package config provides configuration loading from environment variables.
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sethvargo/go-envconfig"
)

// Static errors for configuration validation.
var (
	// ErrBotTokenRequired is returned when BOT_TOKEN is not set.
	ErrBotTokenRequired = errors.New("config: BOT_TOKEN is required")
	// ErrAdminIDRequired is returned when ADMIN_ID is not set.
	ErrAdminIDRequired = errors.New("config: ADMIN_ID is required")
)

// Config holds all configuration for the bot.
type Config struct {
	// Telegram settings
	BotToken string `env:"BOT_TOKEN, required" json:"-" validate:"required"` // Masked in JSON
	AdminID  int64  `env:"ADMIN_ID, required" json:"admin_id" validate:"required"`

	// Submission ceilings
	MaxVideoSizeMB      int `env:"MAX_VIDEO_SIZE_MB, default=50" json:"max_video_size_mb" validate:"min=1"`
	MaxVideoDurationSec int `env:"MAX_VIDEO_DURATION_SEC, default=60" json:"max_video_duration_sec" validate:"min=1"`
	MaxImageSizeMB      int `env:"MAX_IMAGE_SIZE_MB, default=10" json:"max_image_size_mb" validate:"min=1"`

	// Upscaler settings
	UpscaleFactor int    `env:"UPSCALE_FACTOR, default=4" json:"upscale_factor" validate:"min=2,max=4"`
	UpscaleBinary string `env:"UPSCALE_BINARY, default=realesrgan-ncnn-vulkan" json:"upscale_binary"`
	ModelDir      string `env:"MODEL_DIR, default=models" json:"model_dir"`
	ModelName     string `env:"MODEL_NAME, default=realesr-general-x4v3" json:"model_name"`

	// Storage settings
	TempDir string `env:"TEMP_DIR, default=/tmp/mediabot" json:"temp_dir"`
	DBPath  string `env:"DB_PATH, default=bot.db" json:"db_path"`

	// Processing settings. Zero means size the pool from available CPUs.
	MaxConcurrentJobs int `env:"MAX_CONCURRENT_JOBS" json:"max_concurrent_jobs" validate:"min=0"`

	// Logging settings
	LogFormat string `env:"LOG_FORMAT, default=text" json:"log_format"` // "json" or "text"
	LogLevel  string `env:"LOG_LEVEL, default=info" json:"log_level"`   // "debug", "info", "warn", "error"
}

// MaxVideoBytes returns the video size ceiling in bytes.
func (c *Config) MaxVideoBytes() int64 {
	return int64(c.MaxVideoSizeMB) * 1024 * 1024
}

// MaxImageBytes returns the image size ceiling in bytes.
func (c *Config) MaxImageBytes() int64 {
	return int64(c.MaxImageSizeMB) * 1024 * 1024
}

// ModelPath returns the full path to the upscale model weights file.
func (c *Config) ModelPath() string {
	return filepath.Join(c.ModelDir, c.ModelName+".bin")
}

// Load reads configuration from environment variables using go-envconfig.
// It returns an error if required variables are not set.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := envconfig.Process(context.Background(), cfg); err != nil {
		// Map envconfig errors to our domain errors for required fields
		if strings.Contains(err.Error(), "BOT_TOKEN") {
			return nil, ErrBotTokenRequired
		}
		if strings.Contains(err.Error(), "ADMIN_ID") {
			return nil, ErrAdminIDRequired
		}
		return nil, fmt.Errorf("config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that all required configuration is present and sane.
func (c *Config) Validate() error {
	if c.BotToken == "" {
		return ErrBotTokenRequired
	}
	if c.AdminID == 0 {
		return ErrAdminIDRequired
	}
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// NewLogger creates a structured logger based on the configuration.
// When LogFormat is "json", it outputs JSON logs suitable for production.
// Otherwise, it outputs human-readable text logs.
func (c *Config) NewLogger() *slog.Logger {
	level := parseLogLevel(c.LogLevel)

	var handler slog.Handler
	if strings.ToLower(c.LogFormat) == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}

	return slog.New(handler)
}

// String returns a string representation of the config with the token masked.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{AdminID: %d, MaxVideoSizeMB: %d, MaxVideoDurationSec: %d, MaxImageSizeMB: %d, UpscaleFactor: %d, ModelDir: %s, ModelName: %s, TempDir: %s, DBPath: %s, MaxConcurrentJobs: %d, LogFormat: %s, LogLevel: %s}",
		c.AdminID,
		c.MaxVideoSizeMB,
		c.MaxVideoDurationSec,
		c.MaxImageSizeMB,
		c.UpscaleFactor,
		c.ModelDir,
		c.ModelName,
		c.TempDir,
		c.DBPath,
		c.MaxConcurrentJobs,
		c.LogFormat,
		c.LogLevel,
	)
}

// parseLogLevel converts a string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
