// Package logger builds the slog logger used across the application. The TUI
// owns the terminal, so records go to a file rather than stdout.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lmittmann/tint"
)

type Logger struct {
	*slog.Logger
	closer io.Closer
}

// New opens cfg.File (creating its directory) and returns a logger writing to it.
// An empty File discards all records.
func New(cfg *Config) (*Logger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid log config: %w", err)
	}

	if cfg.File == "" {
		return NewWithWriter(cfg, io.Discard), nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	l := NewWithWriter(cfg, f)
	l.closer = f
	return l, nil
}

// NewWithWriter returns a logger writing to w.
func NewWithWriter(cfg *Config, w io.Writer) *Logger {
	return &Logger{Logger: slog.New(createHandler(cfg, w))}
}

// Discard returns a logger that drops every record.
func Discard() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func createHandler(cfg *Config, w io.Writer) slog.Handler {
	opts := &slog.HandlerOptions{
		Level:     cfg.SlogLevel(),
		AddSource: cfg.AddSource,
	}

	switch cfg.Format {
	case "text":
		return tint.NewHandler(w, &tint.Options{
			Level:      opts.Level,
			AddSource:  opts.AddSource,
			TimeFormat: "15:04:05",
			NoColor:    true,
		})
	case "json":
		fallthrough
	default:
		return slog.NewJSONHandler(w, opts)
	}
}

// Component returns a child logger tagged with the component name.
func (l *Logger) Component(name string) *Logger {
	return &Logger{Logger: l.Logger.With("component", name)}
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
