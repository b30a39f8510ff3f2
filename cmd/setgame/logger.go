package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/pterm/pterm"

	"github.com/luca-patrignani/set-game/config"
)

var logLevels = map[string]pterm.LogLevel{
	"debug": pterm.LogLevelDebug,
	"info":  pterm.LogLevelInfo,
	"warn":  pterm.LogLevelWarn,
	"error": pterm.LogLevelError,
}

// newLogger builds the slog logger over a pterm logger writing to stderr or
// to the configured file. The returned func closes the file.
func newLogger(cfg config.LogConfig) (*slog.Logger, func(), error) {
	l := pterm.DefaultLogger.WithLevel(logLevels[cfg.Level])
	closeLog := func() {}
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		l = l.WithWriter(f)
		closeLog = func() { _ = f.Close() }
	}
	return slog.New(pterm.NewSlogHandler(l)), closeLog, nil
}
