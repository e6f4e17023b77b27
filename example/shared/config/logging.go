package config

import (
	"io"
	"log/slog"
)

// ParseLogLevel parses a slog level name such as "debug", "INFO" or "warn+2".
// Anything unparsable yields slog.LevelInfo.
func ParseLogLevel(level string) slog.Level {
	var parsed slog.Level
	if err := parsed.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}

	return parsed
}

// NewJSONLogger creates a JSON slog logger writing to w at the given level.
func NewJSONLogger(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLogLevel(level)}))
}
