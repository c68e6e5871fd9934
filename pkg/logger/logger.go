package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

var defaultLogger *slog.Logger

// Init installs the process-wide logger. Production defaults to JSON at info
// level, everything else to text at debug; level and format override both.
func Init(env, level, format string) {
	InitWithWriter(os.Stdout, env, level, format)
}

// InitWithWriter is Init for commands whose stdout carries data.
func InitWithWriter(w io.Writer, env, level, format string) {
	defaultLogger = New(w, env, level, format)
	slog.SetDefault(defaultLogger)
}

func New(w io.Writer, env, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelDebug}
	useJSON := false
	if env == "production" {
		opts.Level = slog.LevelInfo
		useJSON = true
	}
	if level != "" {
		opts.Level = ParseLevel(level)
	}
	switch strings.ToLower(format) {
	case "json":
		useJSON = true
	case "text":
		useJSON = false
	}

	var handler slog.Handler
	if useJSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

func LoggerWrapper() *slog.Logger {
	if defaultLogger == nil {
		// lazy initialize a development logger to avoid nil pointer panics
		Init("development", "", "")
	}
	return defaultLogger
}
