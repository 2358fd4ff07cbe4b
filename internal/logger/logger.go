package logger

import (
	"io"
	"log/slog"
	"os"
)

// Logger represents application logger.
type Logger struct {
	*slog.Logger
}

// New creates a Logger writing to stdout at the given level. Development
// mode uses human-readable text output, otherwise records are JSON.
func New(level int, devMode bool) *Logger {
	return NewWithWriter(os.Stdout, level, devMode)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, level int, devMode bool) *Logger {
	opts := &slog.HandlerOptions{Level: slog.Level(level)}
	var h slog.Handler
	if devMode {
		h = slog.NewTextHandler(w, opts)
	} else {
		h = slog.NewJSONHandler(w, opts)
	}
	return &Logger{Logger: slog.New(h)}
}

// Fatal is equivalent to Error followed by os.Exit(1).
func (l *Logger) Fatal(msg string, args ...any) {
	l.Logger.Error(msg, args...)
	os.Exit(1)
}
