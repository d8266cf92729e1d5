package bootstrap

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/target/doctrack-api/config"
)

// InitLogger installs a JSON logger at info level as the slog default. It is used
// until configuration has been loaded.
func InitLogger() *slog.Logger {
	return newLogger(os.Stdout, slog.LevelInfo)
}

// ConfigureLogger replaces the default logger with one at the configured level.
// Dev mode switches to text output at debug level.
func ConfigureLogger(cfg *config.AppConfig) *slog.Logger {
	if cfg.IsDev {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
		slog.SetDefault(logger)
		return logger
	}
	return newLogger(os.Stdout, cfg.Observability.SlogLevel())
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (config.AppConfig, error) {
	// Load .env file if it exists (development)
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return config.AppConfig{}, fmt.Errorf("load .env file: %w", err)
		}
	}

	var cfg config.AppConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	cfg.Sanitize()
	return cfg, nil
}
