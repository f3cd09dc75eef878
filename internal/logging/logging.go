// Package logging sets up devinfo's structured logger.
//
// devinfo's stdout is the report, so the logger never touches it: records
// go to the writer given to SetupLogger, which main sets to stderr. A
// one-shot run defaults to level "error", which keeps the probe warnings
// about missing fields off the terminal. Watch and listen modes under
// systemd usually raise it to "info" so journald sees lifecycle events.
//
// Records are JSON with a source location trimmed to the repository path,
// e.g. "internal/probe/probe.go".
//
//	logger := logging.SetupLogger(cfg.LogLevel, os.Stderr)
//	logging.WithComponent(logger, "battery").Debug("snapshot delivered")
package logging

import (
	"io"
	"log/slog"
	"path/filepath"
	"strings"
)

// sourceRoots are the top-level directories source paths are trimmed to.
var sourceRoots = []string{"internal/", "cmd/"}

// SetupLogger returns a JSON logger writing to w at the given level and
// installs it as the slog default. Unknown levels mean "error".
func SetupLogger(level string, w io.Writer) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       parseLevel(level),
		AddSource:   true,
		ReplaceAttr: shortenSource,
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// shortenSource trims the file and function of the source attribute to
// start at internal/ or cmd/. Files outside both keep only their base name.
func shortenSource(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.SourceKey {
		return a
	}
	source, ok := a.Value.Any().(*slog.Source)
	if !ok {
		return a
	}
	source.File = trimToRoot(source.File, filepath.Base(source.File))
	source.Function = trimToRoot(source.Function, source.Function)
	return a
}

func trimToRoot(s, fallback string) string {
	for _, root := range sourceRoots {
		if idx := strings.Index(s, root); idx != -1 {
			return s[idx:]
		}
	}
	return fallback
}

// parseLevel accepts debug, info, warn (or warning) and error in any case.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// WithComponent tags every record from logger with component=name.
func WithComponent(logger *slog.Logger, name string) *slog.Logger {
	return logger.With(slog.String("component", name))
}
