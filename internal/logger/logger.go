package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Default handler until Init runs, so early or test-time calls never panic.
var log = slog.New(slog.NewTextHandler(os.Stdout, nil))

// Init sets up the global structured logger. Call once at startup.
func Init() {
	opts := &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}
	log = slog.New(slog.NewTextHandler(os.Stdout, opts))
	slog.SetDefault(log)
}

// NewJSONHandler is exposed so tests can redirect output.
func NewJSONHandler(w io.Writer, opts *slog.HandlerOptions) slog.Handler {
	return slog.NewJSONHandler(w, opts)
}

func New(h slog.Handler) *slog.Logger {
	return slog.New(h)
}

func Info(msg string, args ...any) {
	log.Info(msg, args...)
}

func Infof(format string, v ...any) {
	log.Info(fmt.Sprintf(format, v...))
}

func Error(msg string, args ...any) {
	log.Error(msg, args...)
}

func Errorf(format string, v ...any) {
	log.Error(fmt.Sprintf(format, v...))
}

func Debug(msg string, args ...any) {
	log.Debug(msg, args...)
}

func Debugf(format string, v ...any) {
	log.Debug(fmt.Sprintf(format, v...))
}

func Fatal(msg string, args ...any) {
	log.Error(msg, args...)
	os.Exit(1)
}

func Fatalf(format string, v ...any) {
	log.Error(fmt.Sprintf(format, v...))
	os.Exit(1)
}

func WithError(err error) *slog.Logger {
	return log.With("error", err)
}

func WithFields(fields map[string]interface{}) *slog.Logger {
	l := log
	for k, v := range fields {
		l = l.With(k, v)
	}
	return l
}
