// Package logging builds the process logger from configuration.
package logging

import (
	"io"
	"log/slog"

	"github.com/vncsmyrnk/lunchorder/internal/config"
)

// New returns a logger writing to w in the configured format. The
// configuration is expected to be validated.
func New(cfg *config.Config, w io.Writer) *slog.Logger {
	level, err := cfg.SlogLevel()
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Log.Format == "text" {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler)
}

func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
