// Package logging builds the JSON loggers shared by the contract-extractor
// processes. Both the api and the worker tag every record with their service
// name so aggregated logs stay attributable.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// NewJSONLogger returns a stdout JSON logger at the given level with a
// constant "service" attribute ("api" or "worker").
func NewJSONLogger(service, level string) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(level),
	})
	return slog.New(handler).With("service", service)
}

// parseLevel maps the LOG_LEVEL config value to a slog level. Unknown values
// fall back to info.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
