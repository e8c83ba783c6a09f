package observability

import (
	"io"
	"log/slog"
	"os"

	"github.com/couchcryptid/storm-besttrack/internal/config"
)

// NewLogger builds a slog logger on stderr from LOG_LEVEL and LOG_FORMAT.
// Stdout is left free for command output.
func NewLogger(cfg *config.Config) *slog.Logger {
	return newLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
}

func newLogger(w io.Writer, level, format string) *slog.Logger {
	// config.Load has already restricted level to debug, info, warn or error.
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
