package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"carcare/internal/config"

	"github.com/rs/zerolog"
)

// New constructs a zerolog logger from config.
// Defaults to JSON, info level, stdout.
func New(cfg config.LoggingConfig, app config.AppConfig) zerolog.Logger {
	return NewWithWriter(os.Stdout, cfg, app)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(out io.Writer, cfg config.LoggingConfig, app config.AppConfig) zerolog.Logger {
	level := zerolog.InfoLevel
	if parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level))); err == nil && parsed != zerolog.NoLevel {
		level = parsed
	}

	if strings.ToLower(strings.TrimSpace(cfg.Format)) == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("app", app.Name).
		Str("env", app.Environment).
		Logger()
}
