package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// ParseLevel maps a LOG_LEVEL string to a slog level. Unknown values
// fall back to info, matching the behavior of the rest of the config
// surface where a bad optional value never aborts the run.
func ParseLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARNING", "WARN":
		return slog.LevelWarn
	case "ERROR", "CRITICAL":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger creates a structured logger appropriate for the environment.
// Production uses JSON format, development uses human-readable text.
// Output goes to out; pass os.Stdout for normal operation.
func NewLogger(env string, level slog.Level, out io.Writer) *slog.Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: level,
	}

	if env == "production" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	return slog.New(handler)
}

// OpenOutput returns the log destination for the given optional log file
// path. With an empty path it returns os.Stdout and a nil closer. With a
// path it returns a writer that tees to both stdout and the file, plus
// the file handle for the caller to close at exit.
func OpenOutput(logPath string) (io.Writer, io.Closer, error) {
	if logPath == "" {
		return os.Stdout, nil, nil
	}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}

	return io.MultiWriter(os.Stdout, f), f, nil
}
