package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Initialize installs the default logger. Logs go to stderr so that command
// output on stdout stays machine readable.
func Initialize(level slog.Level, format string) {
	slog.SetDefault(New(os.Stderr, level, format))
}

// New builds a JSON logger, or a text logger when format is "text".
func New(w io.Writer, level slog.Level, format string) *slog.Logger {
	options := &slog.HandlerOptions{
		Level: level,
	}

	if strings.EqualFold(format, "text") {
		return slog.New(slog.NewTextHandler(w, options))
	}
	return slog.New(slog.NewJSONHandler(w, options))
}

func Named(name string) *slog.Logger {
	logger := slog.Default()
	if logger == nil {
		return nil
	}

	return logger.With("name", name)
}
