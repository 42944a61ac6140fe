// Package logger wraps slog with the small surface the server needs.
package logger

import (
	"log/slog"
	"os"
)

// Logger is the process-wide structured logger.
type Logger struct {
	*slog.Logger
}

// New builds a text logger on stdout filtering below level.
func New(level int) *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.Level(level)})),
	}
}

// Fatal logs at error level and exits the process.
func (l *Logger) Fatal(msg string, args ...any) {
	l.Logger.Error(msg, args...)
	os.Exit(1)
}
