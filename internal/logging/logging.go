// Package logging configures the global zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/abhisek/yechim/internal/config"
)

// Setup installs the global logger described by cfg. Output goes to
// cfg.File when set, otherwise to fallback (stderr for the CLI,
// io.Discard for the TUI). The returned closer releases the log file.
func Setup(cfg config.LoggingConfig, fallback io.Writer) (io.Closer, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	if level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	out := fallback
	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		out, closer = f, f
	}

	log.Logger = New(out, cfg.Format, cfg.File != "")
	return closer, nil
}

// New builds a logger writing to w. The console format is colorized
// unless noColor is set.
func New(w io.Writer, format string, noColor bool) zerolog.Logger {
	if format == "console" {
		w = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.TimeOnly,
			NoColor:    noColor,
		}
	}
	return zerolog.New(w).With().Timestamp().Str("app", "yechim").Logger()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
