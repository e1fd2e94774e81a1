// Package logger configures the process-wide slog logger.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config selects the handler format and minimum level.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // json or text
}

// LoadConfig reads LOG_LEVEL and LOG_FORMAT.
func LoadConfig() Config {
	cfg := Config{Level: os.Getenv("LOG_LEVEL"), Format: os.Getenv("LOG_FORMAT")}
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	if cfg.Format == "" {
		cfg.Format = "json"
	}
	return cfg
}

// New builds a logger writing to w.
func New(cfg Config, w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, fmt.Errorf("parse LOG_LEVEL %q: %w", cfg.Level, err)
	}
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(cfg.Format) {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unsupported LOG_FORMAT %q", cfg.Format)
	}
}

// Setup builds a stderr logger from the environment and installs it as the slog default.
func Setup() error {
	l, err := New(LoadConfig(), os.Stderr)
	if err != nil {
		return err
	}
	slog.SetDefault(l)
	return nil
}
